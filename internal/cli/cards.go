package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/reporter"
	"github.com/yaklabco/commonplace/pkg/runner"
)

// ErrUnreadableNotes is returned when some notes could not be processed.
var ErrUnreadableNotes = errors.New("some notes could not be read")

type cardsFlags struct {
	format string
	jobs   int
	ignore []string
}

func newCardsCommand(globals *globalFlags) *cobra.Command {
	flags := &cardsFlags{}

	cmd := &cobra.Command{
		Use:   "cards [paths...]",
		Short: "Extract cards and clozes from notes",
		Long: `Extract question and answer cards, clozes, summaries and hashtags from
every note under the given paths. Notes are processed in parallel.

Examples:
  commonplace cards                  # Every note below the current directory
  commonplace cards spanish/ go.md   # Selected notes
  commonplace cards --format json    # Machine-readable output
  commonplace cards --format tsv     # Flashcard import (front, back, tags, source)
  commonplace cards --format summary # Counts per hashtag and per note`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCards(cmd, globals, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, tsv, summary")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")

	return cmd
}

func runCards(cmd *cobra.Command, globals *globalFlags, flags *cardsFlags, args []string) error {
	cli := &config.Config{Jobs: flags.jobs}
	if cmd.Flags().Changed("format") {
		cli.Format = config.OutputFormat(flags.format)
	}
	sess, err := newSession(cmd, globals, cli)
	if err != nil {
		return err
	}

	opts := runner.OptionsFromConfig(sess.cfg, args)
	opts.WorkingDir = sess.workDir
	opts.ExcludeGlobs = append(slices.Clone(opts.ExcludeGlobs), flags.ignore...)
	opts.Logger = logging.FromContext(sess.ctx)

	result, err := runner.Run(sess.ctx, opts)
	if err != nil {
		return fmt.Errorf("extract cards: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      reporter.Format(sess.cfg.Format),
		Color:       sess.cfg.Color,
		ShowSummary: true,
		WorkingDir:  sess.workDir,
	})
	if err != nil {
		return err
	}
	items, err := rep.Report(sess.ctx, result)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	opts.Logger.Debug("reported", logging.FieldFormat, sess.cfg.Format, logging.FieldCards, items)

	if result.HasErrors() {
		return ErrUnreadableNotes
	}
	return nil
}
