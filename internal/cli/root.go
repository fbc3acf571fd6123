// Package cli provides the Cobra command structure for commonplace.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/commonplace/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
	dir        string
}

// NewRootCommand creates the root commonplace command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "commonplace",
		Short: "Study notes written in Markdown",
		Long: `commonplace reads Markdown notes with study extensions: question and
answer cards (Q: / A:), summaries (tl;dr:), clozes (?[hint](answer)) and
#hashtags.

It renders notes the way an editor shows them, extracts cards and clozes
from a whole note collection, applies edits while keeping the parse
incremental, and exports notes to HTML.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&globals.debug, "debug", false, "enable debug logging")
	flags.StringVar(&globals.configPath, "config", "", "path to config file")
	flags.StringVar(&globals.color, "color", "auto", "colorize output: auto, always, never")
	flags.StringVarP(&globals.dir, "directory", "C", "", "run as if started in this directory")

	rootCmd.AddCommand(
		newRenderCommand(globals),
		newTreeCommand(globals),
		newCardsCommand(globals),
		newEditCommand(globals),
		newExportCommand(globals),
		newNewCommand(globals),
		newListCommand(globals),
		newInitCommand(globals),
		newVersionCommand(info),
	)

	return rootCmd
}
