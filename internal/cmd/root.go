// Package cmd contains the canopy CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hollyoak/canopy/internal/logging"
	"github.com/hollyoak/canopy/internal/ui"
)

var (
	// Global flags
	verbose  bool
	format   string
	logLevel string
)

// RootCmd is the canopy command tree root.
var RootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Classify attitudes and subjects across reddit discussion trees",
	Long: `canopy collects reddit discussion trees and runs every post and
comment through a zero-shot NLI classifier, labeling each node with an
attitude (praise, agreement, mocking, ...) and a subject (politics,
science, joke, ...).

Collected communities are kept in a local SQLite database so collection
and classification can run separately and be rerun offline.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.ParseLevel(logLevel)
		if verbose {
			level = logging.ParseLevel("debug")
		}
		logging.Init(format == "json", level)
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", "terminal", "Output format (terminal, json)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// GetUI builds the terminal UI for the current format flag.
func GetUI() *ui.UI {
	return ui.New(os.Stdout, os.Stderr, format)
}
