package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/csvpatch/cmd/csvpatch/opts"
	"github.com/walteh/csvpatch/cmd/csvpatch/ui"
	"github.com/walteh/csvpatch/pkg/config"
	"github.com/walteh/csvpatch/pkg/csvio"
	"github.com/walteh/csvpatch/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove backups and detail logs from previous runs",
		Long: `Clean removes the artifacts a processing run leaves behind.
It will:
1. Remove timestamped backups of the input file
2. Remove the per-run detail logs
3. Leave the input and output files untouched`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return errors.Errorf("reading config flag: %w", err)
			}

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			input, output := resolveCleanPaths(cmd, cfg)

			removed := 0

			if input != "" {
				backups, err := csvio.CleanBackups(ctx, input, cfg.Settings.BackupSuffix)
				if err != nil {
					return errors.Errorf("cleaning backups: %w", err)
				}
				for _, path := range backups {
					o.UserLogger.LogArtifact(ui.ArtifactChange{
						Type:        ui.ArtifactRemoved,
						Path:        path,
						Description: "backup",
					})
				}
				removed += len(backups)
			}

			logDir := "."
			if output != "" {
				logDir = filepath.Dir(output)
			}
			logs, err := report.Clean(ctx, logDir)
			if err != nil {
				return errors.Errorf("cleaning detail logs: %w", err)
			}
			for _, path := range logs {
				o.UserLogger.LogArtifact(ui.ArtifactChange{
					Type:        ui.ArtifactRemoved,
					Path:        path,
					Description: "detail log",
				})
			}
			removed += len(logs)

			o.UserLogger.LogValidation(true, fmt.Sprintf("Removed %d artifacts", removed), nil)
			return nil
		},
	}

	return cmd
}

// resolveCleanPaths mirrors the path resolution of a processing run without prompting
func resolveCleanPaths(cmd *cobra.Command, cfg *config.Config) (string, string) {
	input, _ := cmd.Flags().GetString("input")
	input = strings.TrimSpace(input)
	if input == "" {
		input = strings.TrimSpace(cfg.FilePaths.InputFile)
	}

	output, _ := cmd.Flags().GetString("output")
	output = strings.TrimSpace(output)
	if output == "" {
		output = strings.TrimSpace(cfg.FilePaths.OutputFile)
	}
	if output == "" && input != "" {
		output = csvio.DeriveOutputPath(input)
	}

	return input, output
}
