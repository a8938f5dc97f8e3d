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
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/walteh/csvpatch/cmd/csvpatch/commands"
	"github.com/walteh/csvpatch/cmd/csvpatch/opts"
	"github.com/walteh/csvpatch/cmd/csvpatch/ui"
)

func main() {
	// Setup logging
	setupLogging()
	ctx := log.Logger.WithContext(context.Background())

	// Create user logger
	userLogger := ui.NewUserLogger(ctx)

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "csvpatch",
		Short: "Find and replace values inside JSON payload columns of CSV files",
		Long: `csvpatch scans a delimited file whose target column carries a JSON payload,
replaces a configured value inside the payload's target field, and writes a new
file holding the header row plus only the rows that actually changed.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Flags are parsed by now, apply them to the log setup
			setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			h := &Handler{
				configFile: configFile,
				inputFile:  inputFile,
				outputFile: outputFile,
				debug:      debug,
				yes:        yes,
				noBackup:   noBackup,
			}
			return h.Run(cmd.Context())
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Create root options
	rootOpts := &opts.RootOpts{
		UserLogger: userLogger,
	}

	// Add commands
	rootCmd.AddCommand(
		commands.NewCleanCmd(rootOpts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
