package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/notestore"
)

func openStore(sess *session, dir string) (*notestore.FileStore, error) {
	if dir == "" {
		dir = sess.cfg.Notes.Dir
	}
	opts := []notestore.Option{
		notestore.WithIgnore(sess.cfg.Notes.Ignore...),
		notestore.WithLogger(logging.FromContext(sess.ctx)),
	}
	if len(sess.cfg.Notes.Extensions) > 0 {
		opts = append(opts, notestore.WithExtensions(sess.cfg.Notes.Extensions...))
	}
	return notestore.NewFileStore(sess.path(dir), opts...)
}

func newNewCommand(globals *globalFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "new [title...]",
		Short: "Create a note",
		Long: `Create a note in the notes directory, headed by its title. The file
name is derived from the title.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, globals, nil)
			if err != nil {
				return err
			}
			store, err := openStore(sess, dir)
			if err != nil {
				return err
			}
			note, err := store.Create(sess.ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), note.Path())
			return err
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "notes directory (default from config)")
	return cmd
}

func newListCommand(globals *globalFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the notes in the notes directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd, globals, nil)
			if err != nil {
				return err
			}
			store, err := openStore(sess, dir)
			if err != nil {
				return err
			}
			entries, err := store.List(sess.ctx)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				line := entry.ID + sess.styles.Dim.Render(
					fmt.Sprintf("  %s  %d bytes", entry.ModTime.Format("2006-01-02 15:04"), entry.Size))
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "notes directory (default from config)")
	return cmd
}
