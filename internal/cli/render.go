package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/internal/ui/pretty"
	"github.com/yaklabco/commonplace/pkg/config"
)

type renderFlags struct {
	hideDelimiters bool
	tabs           bool
	images         bool
	quiz           int
	width          int
	stats          bool
}

func newRenderCommand(globals *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <note>",
		Short: "Show a note as an editor displays it",
		Long: `Render the visible text of a note with its formatting: headers and
strong text in bold, emphasis in italics, clozes and hashtags in color.

Examples:
  commonplace render verbs.md                 # Show every cloze answer
  commonplace render verbs.md --quiz 0        # Quiz on the first cloze
  commonplace render verbs.md --hide-delimiters=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, globals, flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.hideDelimiters, "hide-delimiters", false, "hide markup delimiters such as ** and #")
	cmd.Flags().BoolVar(&flags.tabs, "tabs", false, "show the space after list and header markers as a tab")
	cmd.Flags().BoolVar(&flags.images, "images", false, "replace images with a placeholder and load them")
	cmd.Flags().IntVar(&flags.quiz, "quiz", -1, "hide the answer of this cloze (0-based); -1 shows all")
	cmd.Flags().IntVar(&flags.width, "width", 0, "wrap width (0 = terminal width, -1 = no wrapping)")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "log parse and projection statistics")

	return cmd
}

func runRender(cmd *cobra.Command, globals *globalFlags, flags *renderFlags, path string) error {
	cli := &config.Config{}
	setIf(cmd, "hide-delimiters", &cli.Render.HideDelimiters, flags.hideDelimiters)
	setIf(cmd, "tabs", &cli.Render.SubstituteTabs, flags.tabs)
	setIf(cmd, "images", &cli.Render.ShowImages, flags.images)
	setIf(cmd, "quiz", &cli.Render.HideCloze, flags.quiz)

	sess, err := newSession(cmd, globals, cli)
	if err != nil {
		return err
	}
	doc, _, err := sess.openNote(path)
	if err != nil {
		return err
	}

	if flags.stats {
		stats := doc.Projection().Stats()
		logging.FromContext(sess.ctx).Info("rendered",
			logging.FieldPath, path,
			logging.FieldLength, doc.RawLen(),
			logging.FieldBlocks, stats.Blocks,
			logging.FieldReused, stats.CachedBlocks)
	}

	out := sess.styles.RenderNote(doc.Projection().VisibleUnits(), doc.Runs())
	_, err = fmt.Fprintln(cmd.OutOrStdout(), wrapWidth(out, flags.width, cmd))
	return err
}

// wrapWidth wraps to width, or to the terminal width when width is zero
// and output is a terminal.
func wrapWidth(text string, width int, cmd *cobra.Command) string {
	if width == 0 {
		if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			if w, _, err := term.GetSize(int(f.Fd())); err == nil {
				width = w
			}
		}
	}
	return pretty.Wrap(text, width)
}
