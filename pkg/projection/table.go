package projection

import (
	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/piecetable"
)

// Source gives access to the raw text being projected.
// *piecetable.Table satisfies it.
type Source interface {
	Len() int
	Slice(lo, hi int) ([]uint16, error)
}

// ImageResolver fetches the bytes behind an image link target.
type ImageResolver func(target string) ([]byte, bool)

// FormattingFunc adjusts attrs for the text covered by node. Functions run
// top-down, so a node's function sees the attributes its ancestors set.
type FormattingFunc func(ctx *Context, node mdast.AnchoredNode, attrs *Attributes)

// ReplacementFunc returns the visible text that stands in for node and its
// whole subtree. An empty result hides the node.
type ReplacementFunc func(ctx *Context, node mdast.AnchoredNode) ([]uint16, error)

// FormattingTable maps node types to formatting functions.
type FormattingTable map[mdast.NodeType]FormattingFunc

// ReplacementTable maps node types to replacement functions. Types without
// an entry are shown verbatim.
type ReplacementTable map[mdast.NodeType]ReplacementFunc

// Merge returns a table holding the entries of every table, later tables
// winning.
func (t FormattingTable) Merge(others ...FormattingTable) FormattingTable {
	out := make(FormattingTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	for _, other := range others {
		for k, v := range other {
			out[k] = v
		}
	}
	return out
}

// Merge returns a table holding the entries of every table, later tables
// winning.
func (t ReplacementTable) Merge(others ...ReplacementTable) ReplacementTable {
	out := make(ReplacementTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	for _, other := range others {
		for k, v := range other {
			out[k] = v
		}
	}
	return out
}

// Hide returns a replacement that removes the node from the visible text.
func Hide() ReplacementFunc {
	return func(*Context, mdast.AnchoredNode) ([]uint16, error) {
		return nil, nil
	}
}

// Substitute returns a replacement that shows s in place of the node.
func Substitute(s string) ReplacementFunc {
	units := piecetable.Encode(s)
	return func(*Context, mdast.AnchoredNode) ([]uint16, error) {
		return units, nil
	}
}

// Context is handed to formatting and replacement functions.
type Context struct {
	source   Source
	resolver ImageResolver
	ordinal  int
}

// Ordinal returns the zero-based index of the current node among nodes of
// the same type, in document order.
func (c *Context) Ordinal() int {
	return c.ordinal
}

// Units returns the raw text covered by node.
func (c *Context) Units(node mdast.AnchoredNode) []uint16 {
	r := node.Range()
	units, err := c.source.Slice(r.Start, r.End)
	if err != nil {
		return nil
	}
	return units
}

// Text returns the raw text covered by node as a string.
func (c *Context) Text(node mdast.AnchoredNode) string {
	return piecetable.Decode(c.Units(node))
}

// ResolveImage looks up an image target through the configured resolver.
func (c *Context) ResolveImage(target string) ([]byte, bool) {
	if c.resolver == nil {
		return nil, false
	}
	return c.resolver(target)
}
