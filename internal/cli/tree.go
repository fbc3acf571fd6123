package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/piecetable"
	"github.com/yaklabco/commonplace/pkg/projection"
)

type treeFlags struct {
	compact bool
	lines   bool
}

func newTreeCommand(globals *globalFlags) *cobra.Command {
	flags := &treeFlags{}

	cmd := &cobra.Command{
		Use:   "tree <note>",
		Short: "Print the syntax tree of a note",
		Long: `Print the syntax tree of a note, one node per line with its range in
UTF-16 code units. Leaves show the text they cover.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(cmd, globals, nil)
			if err != nil {
				return err
			}
			doc, _, err := sess.openNote(args[0])
			if err != nil {
				return err
			}
			if flags.compact {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Tree().CompactStructure())
				return err
			}
			return writeTree(cmd.OutOrStdout(), doc.Tree(), doc.Source(), flags.lines)
		},
	}

	cmd.Flags().BoolVar(&flags.compact, "compact", false, "print node types only, as an s-expression")
	cmd.Flags().BoolVar(&flags.lines, "lines", false, "show positions as line:column")

	return cmd
}

func writeTree(w io.Writer, root *mdast.Node, source projection.Source, lines bool) error {
	var index *mdast.LineIndex
	if lines {
		all, err := source.Slice(0, source.Len())
		if err != nil {
			return err
		}
		index = mdast.BuildLines(all)
	}
	position := func(offset int) string {
		if index == nil {
			return strconv.Itoa(offset)
		}
		line, col := index.LineAt(offset)
		return fmt.Sprintf("%d:%d", line, col)
	}

	depth := 0
	var werr error
	enter := func(n mdast.AnchoredNode) error {
		r := n.Range()
		line := fmt.Sprintf("%s%s [%s, %s)", strings.Repeat("  ", depth), n.Type(), position(r.Start), position(r.End))
		if n.Node.IsLeaf() {
			if units, err := source.Slice(r.Start, r.End); err == nil {
				line += " " + strconv.Quote(piecetable.Decode(units))
			}
		}
		depth++
		if _, err := fmt.Fprintln(w, line); err != nil {
			werr = err
			return err
		}
		return nil
	}
	leave := func(mdast.AnchoredNode) error {
		depth--
		return nil
	}
	if err := mdast.WalkWithContext(mdast.Anchor(root), enter, leave); err != nil && werr == nil {
		return err
	}
	return werr
}
