package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Flags
	configFile string
	inputFile  string
	outputFile string
	debug      bool
	yes        bool
	noBackup   bool
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.json", "config file path")
	cmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "input CSV file (overrides config)")
	cmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output CSV file (overrides config)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.PersistentFlags().BoolVar(&noBackup, "no-backup", false, "skip creating a backup of the input file")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
