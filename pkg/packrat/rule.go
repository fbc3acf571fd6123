// Package packrat implements a packrat (memoizing recursive-descent) parsing
// engine over UTF-16 input. Grammars are built from composable, stateless
// rules; a Parser owns the memoization table for one document and keeps it
// valid across edits so that re-parsing from the start only re-evaluates the
// regions an edit touched.
package packrat

import (
	"github.com/yaklabco/commonplace/pkg/mdast"
)

// Input is the text a Parser reads. *piecetable.Table satisfies it.
type Input interface {
	Len() int
	UnitAt(i int) (uint16, bool)
}

// Span is one piece of a match: either a labeled node, or (Node == nil) a run
// of unlabeled text that an enclosing Wrap turns into a text leaf.
type Span struct {
	Node   *mdast.Node
	Length int
}

// Result is the outcome of matching a rule at a position.
//
// Examined counts the units, starting at the match position, that the rule
// inspected to reach its decision, including lookahead and end-of-input
// peeks. It is always >= Length and drives memo invalidation.
//
// Results may be shared through the memo table: Spans must never be mutated.
type Result struct {
	Succeeded bool
	Length    int
	Examined  int
	Spans     []Span
}

func failure(examined int) Result {
	return Result{Examined: examined}
}

// Rule is a parsing expression.
type Rule interface {
	// Match attempts the rule at position at.
	Match(p *Parser, at int) Result

	// OpeningChars returns the set of units that can begin a non-empty
	// match. ok is false when any unit might.
	OpeningChars() (set CharSet, ok bool)

	// Nullable reports whether the rule can succeed without consuming input.
	Nullable() bool

	String() string
}

// appendSpans appends src to dst, merging adjacent unlabeled runs. dst must
// be owned by the caller; src is never modified.
func appendSpans(dst, src []Span) []Span {
	for _, span := range src {
		if span.Length == 0 && span.Node == nil {
			continue
		}
		if n := len(dst); n > 0 && span.Node == nil && dst[n-1].Node == nil {
			dst[n-1].Length += span.Length
			continue
		}
		dst = append(dst, span)
	}
	return dst
}

// assemble converts spans into the child list of a new interior node: unlabeled
// runs become text leaves and adjacent leaves of the same type are coalesced
// into a single new leaf. Shared nodes are never modified.
func assemble(textType mdast.NodeType, spans []Span) []*mdast.Node {
	children := make([]*mdast.Node, 0, len(spans))
	for _, span := range spans {
		node := span.Node
		if node == nil {
			if span.Length == 0 {
				continue
			}
			node = mdast.NewLeaf(textType, span.Length)
		}

		if n := len(children); n > 0 {
			last := children[n-1]
			if last.IsLeaf() && node.IsLeaf() && last.Type == node.Type {
				children[n-1] = mdast.NewLeaf(last.Type, last.Length+node.Length)
				continue
			}
		}
		children = append(children, node)
	}
	return children
}
