// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		FilePaths *struct {
			InputFile  string `hcl:"input_file,optional"`
			OutputFile string `hcl:"output_file,optional"`
		} `hcl:"file_paths,block"`
		Settings *struct {
			TargetColumnIndex int    `hcl:"target_column_index,optional"`
			MaxRowsToProcess  int    `hcl:"max_rows_to_process,optional"`
			CreateBackup      *bool  `hcl:"create_backup,optional"`
			BackupSuffix      string `hcl:"backup_suffix,optional"`
		} `hcl:"general_settings,block"`
		Rules *struct {
			TargetFieldName string `hcl:"target_field_name"`
			SearchValue     string `hcl:"search_value,optional"`
			ReplaceValue    string `hcl:"replace_value,optional"`
		} `hcl:"processing_rules,block"`
		Logging *struct {
			Enabled *bool  `hcl:"enabled,optional"`
			LogFile string `hcl:"log_file,optional"`
			Verbose bool   `hcl:"verbose,optional"`
		} `hcl:"logging,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	if hclCfg.FilePaths != nil {
		cfg.FilePaths = Paths{
			InputFile:  hclCfg.FilePaths.InputFile,
			OutputFile: hclCfg.FilePaths.OutputFile,
		}
	}
	if hclCfg.Settings != nil {
		cfg.Settings = Settings{
			TargetColumnIndex: hclCfg.Settings.TargetColumnIndex,
			MaxRowsToProcess:  hclCfg.Settings.MaxRowsToProcess,
			CreateBackup:      hclCfg.Settings.CreateBackup,
			BackupSuffix:      hclCfg.Settings.BackupSuffix,
		}
	}
	if hclCfg.Rules != nil {
		cfg.Rules = ProcessingRules{
			TargetFieldName: hclCfg.Rules.TargetFieldName,
			SearchValue:     hclCfg.Rules.SearchValue,
			ReplaceValue:    hclCfg.Rules.ReplaceValue,
		}
	}
	if hclCfg.Logging != nil {
		cfg.Logging = Logging{
			Enabled: hclCfg.Logging.Enabled,
			LogFile: hclCfg.Logging.LogFile,
			Verbose: hclCfg.Logging.Verbose,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
