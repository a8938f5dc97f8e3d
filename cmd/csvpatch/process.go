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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/csvpatch/pkg/config"
	"github.com/walteh/csvpatch/pkg/csvio"
	"github.com/walteh/csvpatch/pkg/log"
	"github.com/walteh/csvpatch/pkg/payload"
	"github.com/walteh/csvpatch/pkg/pipeline"
	"github.com/walteh/csvpatch/pkg/report"
	"github.com/walteh/csvpatch/pkg/stats"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Handler runs the end to end processing flow for one input file
type Handler struct {
	configFile string
	inputFile  string
	outputFile string
	debug      bool
	yes        bool
	noBackup   bool

	stdin   io.Reader
	stdout  io.Writer
	console *log.Logger
}

// 🏃 Run loads the config, resolves the file paths and processes the input
func (h *Handler) Run(ctx context.Context) error {
	if h.stdin == nil {
		h.stdin = os.Stdin
	}
	if h.stdout == nil {
		h.stdout = os.Stdout
	}

	level := zerolog.InfoLevel
	if h.debug {
		level = zerolog.DebugLevel
	}
	if h.console == nil {
		h.console = log.New(h.stdout, level)
	}

	// Load config
	cfg, err := config.Load(ctx, h.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	prompts := bufio.NewReader(h.stdin)

	// Resolve file paths
	input, output, err := h.resolvePaths(cfg, prompts)
	if err != nil {
		return err
	}

	// Confirm before touching anything
	if !h.yes {
		fmt.Fprintf(h.stdout, "\nInput file:  %s\nOutput file: %s\n", input, output)
		answer, err := promptLine(prompts, h.stdout, "\nProceed with processing? (y/n): ")
		if err != nil {
			return errors.Errorf("reading confirmation: %w", err)
		}
		if strings.ToLower(answer) != "y" {
			h.console.Warning("Processing cancelled")
			return nil
		}
	}

	// Attach the run logger, with a file sink when configured
	runID := uuid.New().String()[:8]
	ctx, closeSink, err := h.attachRunLogger(ctx, cfg, runID, level)
	if err != nil {
		return err
	}
	defer closeSink()

	logger := zerolog.Ctx(ctx)
	logger.Info().Str("input", input).Str("output", output).Msg("starting CSV processing")

	// Backup before writing anything
	if cfg.Settings.ShouldBackup() && !h.noBackup {
		backupPath, err := csvio.CreateBackup(ctx, input, cfg.Settings.BackupSuffix, time.Now())
		if err != nil {
			return errors.Errorf("creating backup: %w", err)
		}
		h.console.Successf("Backup created: %s", backupPath)
	}

	h.console.Header("replacing field values")
	h.console.StartRun(ctx, log.RunOperation{
		Input:  input,
		Output: output,
		Field:  cfg.Rules.TargetFieldName,
	})

	// Stream the rows through the pipeline
	res, err := h.process(ctx, cfg, input)
	if err != nil {
		return err
	}

	// Write output
	if err := csvio.WriteRows(ctx, output, res.Rows); err != nil {
		return errors.Errorf("writing output: %w", err)
	}
	h.console.Successf("Successfully wrote output to: %s", output)

	// Echo each change in verbose mode
	if h.debug || cfg.Logging.Verbose {
		for _, ch := range res.Stats.Changes {
			h.console.LogRowChange(ctx, log.RowChange{
				Row:      ch.Row,
				Field:    cfg.Rules.TargetFieldName,
				Original: ch.Original,
				New:      ch.New,
			})
		}
	}

	// Detail logs go next to the output file
	paths, err := report.NewWriter(filepath.Dir(output)).WriteAll(ctx, res.Stats, time.Now())
	if err != nil {
		return errors.Errorf("writing detail logs: %w", err)
	}
	for _, path := range paths {
		h.console.Infof("Log written to: %s", path)
	}

	h.console.EndRun(ctx)
	report.PrintSummary(h.stdout, res.Stats)
	h.console.Success("Processing complete!")

	return nil
}

// 🔍 resolvePaths determines the input and output paths from flags, config or prompt
func (h *Handler) resolvePaths(cfg *config.Config, prompts *bufio.Reader) (string, string, error) {
	input := strings.TrimSpace(h.inputFile)
	if input == "" {
		input = strings.TrimSpace(cfg.FilePaths.InputFile)
	}
	if input == "" {
		answer, err := promptLine(prompts, h.stdout, "Enter the path to the input CSV file: ")
		if err != nil {
			return "", "", errors.Errorf("reading input path: %w", err)
		}
		input = answer
	}
	if _, err := os.Stat(input); err != nil {
		return "", "", errors.Errorf("input file %q does not exist: %w", input, err)
	}

	output := strings.TrimSpace(h.outputFile)
	if output == "" {
		output = strings.TrimSpace(cfg.FilePaths.OutputFile)
	}
	if output == "" {
		output = csvio.DeriveOutputPath(input)
		h.console.Infof("Output will be saved to: %s", output)
	}

	return input, output, nil
}

// ⚙️ process streams the input through the replacement pipeline
func (h *Handler) process(ctx context.Context, cfg *config.Config, input string) (*pipeline.RunResult, error) {
	reader, err := csvio.Open(input)
	if err != nil {
		return nil, errors.Errorf("opening input: %w", err)
	}
	defer reader.Close()

	rule := cfg.Rule()
	p, err := pipeline.New(pipeline.Options{
		Rule:        rule,
		Transformer: payload.NewTransformer(rule.TargetFieldName, rule.SearchValue, rule.ReplaceValue),
		Aggregator:  stats.NewAggregator(),
	})
	if err != nil {
		return nil, errors.Errorf("building pipeline: %w", err)
	}

	res, err := p.Run(ctx, reader)
	if err != nil {
		return nil, errors.Errorf("processing %s: %w", input, err)
	}
	return res, nil
}

// 🔌 attachRunLogger binds a run scoped logger to the context, adding the
// configured file sink when logging is enabled
func (h *Handler) attachRunLogger(ctx context.Context, cfg *config.Config, runID string, level zerolog.Level) (context.Context, func(), error) {
	if !cfg.Logging.IsEnabled() {
		logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
		return logger.WithContext(ctx), func() {}, nil
	}

	if cfg.Logging.Verbose {
		level = zerolog.DebugLevel
	}

	f, err := os.OpenFile(cfg.Logging.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return ctx, nil, errors.Errorf("opening log file: %w", err)
	}

	sink := zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr}, f)
	logger := zerolog.New(sink).Level(level).With().Timestamp().Str("run_id", runID).Logger()
	return logger.WithContext(ctx), func() { _ = f.Close() }, nil
}

// 💬 promptLine prints a prompt and reads one trimmed line of input
func promptLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
