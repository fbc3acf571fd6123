package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/export"
	"github.com/yaklabco/commonplace/pkg/fsutil"
	"github.com/yaklabco/commonplace/pkg/markdown"
)

type exportFlags struct {
	output string
	page   bool
	quiz   int
	noGFM  bool
}

func newExportCommand(globals *globalFlags) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <note>",
		Short: "Convert a note to HTML",
		Long: `Convert a note to HTML. Clozes become styled spans showing their answer
(or their hint, for the cloze chosen with --quiz) and hashtags are marked.

Examples:
  commonplace export verbs.md                  # HTML fragment on stdout
  commonplace export verbs.md --page -o v.html # Standalone page`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, globals, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&flags.page, "page", false, "write a standalone HTML page")
	cmd.Flags().IntVar(&flags.quiz, "quiz", -1, "show this cloze (0-based) as its hint")
	cmd.Flags().BoolVar(&flags.noGFM, "no-gfm", false, "disable GitHub Flavored Markdown extensions")

	return cmd
}

func runExport(cmd *cobra.Command, globals *globalFlags, flags *exportFlags, path string) error {
	sess, err := newSession(cmd, globals, nil)
	if err != nil {
		return err
	}
	doc, _, err := sess.openNote(path)
	if err != nil {
		return err
	}

	exporter := export.New(export.Options{GFM: !flags.noGFM, Quiz: flags.quiz})
	source := []byte(doc.RawString())

	write := func(w io.Writer) error {
		if !flags.page {
			return exporter.Convert(sess.ctx, source, w)
		}
		title, ok := markdown.Title(doc.Tree(), doc.Source())
		if !ok {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return exporter.Page(sess.ctx, title, source, w)
	}

	if flags.output == "" {
		return write(cmd.OutOrStdout())
	}
	return writeFileAtomic(sess.ctx, sess.path(flags.output), write, func(out string) {
		logging.FromContext(sess.ctx).Info("exported", logging.FieldPath, out)
	})
}

func writeFileAtomic(ctx context.Context, path string, write func(io.Writer) error, done func(string)) error {
	var sb strings.Builder
	if err := write(&sb); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, path, []byte(sb.String()), 0); err != nil {
		return err
	}
	done(path)
	return nil
}
