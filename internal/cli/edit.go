package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/document"
	"github.com/yaklabco/commonplace/pkg/fix"
	"github.com/yaklabco/commonplace/pkg/fsutil"
)

type editFlags struct {
	replace []string
	visible bool
	dryRun  bool
}

func newEditCommand(globals *globalFlags) *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit <note> --replace start:end:text...",
		Short: "Apply text edits to a note",
		Long: `Replace ranges of a note. Offsets count UTF-16 code units and refer to
the note before any of the edits; edits must not overlap.

By default offsets are raw positions in the file. With --visible they are
positions in the rendered text, as shown by "commonplace render" with the
same settings, and hidden delimiters around an edit are kept.

The note is written back atomically, and only if it did not change on disk
in the meantime.

Examples:
  commonplace edit verbs.md --replace 0:0:"# Verbs\n"
  commonplace edit verbs.md --visible --hide-delimiters --replace 2:6:ser
  commonplace edit verbs.md --replace 10:14: --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, globals, flags, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&flags.replace, "replace", nil, "edit as start:end:text (repeatable)")
	cmd.Flags().BoolVar(&flags.visible, "visible", false, "offsets are positions in the rendered text")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the result instead of saving it")
	cmd.Flags().Bool("hide-delimiters", false, "with --visible, hide markup delimiters")
	_ = cmd.MarkFlagRequired("replace")

	return cmd
}

func runEdit(cmd *cobra.Command, globals *globalFlags, flags *editFlags, path string) error {
	edits := make([]fix.TextEdit, 0, len(flags.replace))
	for _, spec := range flags.replace {
		edit, err := fix.ParseTextEdit(spec)
		if err != nil {
			return err
		}
		edits = append(edits, edit)
	}

	cli := &config.Config{}
	if hide, err := cmd.Flags().GetBool("hide-delimiters"); err == nil {
		setIf(cmd, "hide-delimiters", &cli.Render.HideDelimiters, hide)
	}
	sess, err := newSession(cmd, globals, cli)
	if err != nil {
		return err
	}
	doc, snap, err := sess.openNote(path)
	if err != nil {
		return err
	}

	logger := logging.FromContext(sess.ctx)
	var changes int
	remove := doc.AddObserver(document.ObserverFuncs{
		DidChangeFunc: func(_ *document.Document, change document.Change) {
			changes++
			logger.Debug("note changed",
				logging.FieldRange, change.EditedRange.String(),
				logging.FieldLength, change.ChangeInLength)
		},
	})
	defer remove()

	if flags.visible {
		err = doc.ReplaceVisible(edits)
	} else {
		err = doc.ApplyEdits(edits)
	}
	if err != nil {
		return fmt.Errorf("edit %s: %w", path, err)
	}
	if parseErr := doc.ParseErr(); parseErr != nil {
		logger.Warn("note only partly parsed after edit", logging.FieldError, parseErr)
	}

	if flags.dryRun {
		_, err = fmt.Fprint(cmd.OutOrStdout(), doc.RawString())
		return err
	}
	if _, err := fsutil.Save(sess.ctx, snap, []byte(doc.RawString())); err != nil {
		return err
	}
	logger.Info("note saved", logging.FieldPath, path, "edits", len(edits), "changes", changes)
	return nil
}
