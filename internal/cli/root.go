// Package cli provides the Cobra command structure for goerbfmt.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/goerbfmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root goerbfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "goerbfmt",
		Short: "An opinionated formatter for ERB templates",
		Long: `goerbfmt formats HTML templates with embedded Ruby (ERB).

It re-indents the HTML skeleton, normalises whitespace and attribute
layout, and lines embedded Ruby up with the surrounding markup - without
ever altering Ruby code, attribute values, or the content of
whitespace-sensitive elements such as <pre> and <script>.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
