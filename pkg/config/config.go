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
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Validate when a setting is absent.
const (
	DefaultMaxRows      = 50000
	DefaultBackupSuffix = "_backup"
	DefaultLogFile      = "csvpatch.log"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📂 Paths names the files a run reads and writes
type Paths struct {
	InputFile  string `json:"input_file" yaml:"input_file"`
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
}

// 🔧 Settings holds the row walk and backup knobs
type Settings struct {
	TargetColumnIndex int    `json:"target_column_index" yaml:"target_column_index"`
	MaxRowsToProcess  int    `json:"max_rows_to_process,omitempty" yaml:"max_rows_to_process,omitempty"`
	CreateBackup      *bool  `json:"create_backup,omitempty" yaml:"create_backup,omitempty"`
	BackupSuffix      string `json:"backup_suffix,omitempty" yaml:"backup_suffix,omitempty"`
}

// 🔄 ProcessingRules holds the field replacement rule
type ProcessingRules struct {
	TargetFieldName string `json:"target_field_name" yaml:"target_field_name"`
	SearchValue     string `json:"search_value" yaml:"search_value"`
	ReplaceValue    string `json:"replace_value" yaml:"replace_value"`
}

// 📢 Logging controls diagnostic output
type Logging struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	FilePaths Paths           `json:"file_paths" yaml:"file_paths"`
	Settings  Settings        `json:"general_settings" yaml:"general_settings"`
	Rules     ProcessingRules `json:"processing_rules" yaml:"processing_rules"`
	Logging   Logging         `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// 🎯 Rule is the replacement rule handed to the pipeline
type Rule struct {
	TargetFieldName   string // entry name to look for inside the payload
	SearchValue       string // substring to replace
	ReplaceValue      string // replacement text
	TargetColumnIndex int    // 0-based column holding the payload
	MaxRowsToProcess  int    // 1-based row ceiling, header included
}

// Rule assembles the pipeline rule from its config sections.
func (cfg *Config) Rule() Rule {
	return Rule{
		TargetFieldName:   cfg.Rules.TargetFieldName,
		SearchValue:       cfg.Rules.SearchValue,
		ReplaceValue:      cfg.Rules.ReplaceValue,
		TargetColumnIndex: cfg.Settings.TargetColumnIndex,
		MaxRowsToProcess:  cfg.Settings.MaxRowsToProcess,
	}
}

// ShouldBackup reports whether the input should be copied aside before
// processing. Backups are on unless the config turns them off.
func (s Settings) ShouldBackup() bool {
	return s.CreateBackup == nil || *s.CreateBackup
}

// IsEnabled reports whether diagnostics should also go to a log file. File
// logging is on unless the config turns it off.
func (l Logging) IsEnabled() bool {
	return l.Enabled == nil || *l.Enabled
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	// Check required fields
	if cfg.Rules.TargetFieldName == "" {
		return errors.Errorf("processing_rules.target_field_name is required")
	}
	if cfg.Settings.TargetColumnIndex < 0 {
		return errors.Errorf("general_settings.target_column_index must not be negative")
	}
	if cfg.Settings.MaxRowsToProcess < 0 {
		return errors.Errorf("general_settings.max_rows_to_process must not be negative")
	}

	// Set defaults
	if cfg.Settings.MaxRowsToProcess == 0 {
		cfg.Settings.MaxRowsToProcess = DefaultMaxRows
	}
	if cfg.Settings.BackupSuffix == "" {
		cfg.Settings.BackupSuffix = DefaultBackupSuffix
	}
	if cfg.Logging.LogFile == "" {
		cfg.Logging.LogFile = DefaultLogFile
	}

	return nil
}

// 📝 String returns a string representation of the replacement rule
func (cfg *Config) String() string {
	return fmt.Sprintf("%s: %q -> %q (column %d)",
		cfg.Rules.TargetFieldName, cfg.Rules.SearchValue, cfg.Rules.ReplaceValue, cfg.Settings.TargetColumnIndex)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

// 📝 Parse parses the config from YAML bytes
func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
