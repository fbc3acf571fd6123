package packrat

import (
	"github.com/yaklabco/commonplace/pkg/mdast"
)

// Stats counts memo activity since the parser was created or last reset.
type Stats struct {
	Hits    int
	Misses  int
	Skipped int
}

// Parser is a parse session over one Input. It owns the memo table, so
// separate documents never share cached results. A Parser is not safe for
// concurrent use; grammars are, and may be shared freely.
type Parser struct {
	input    Input
	memo     *MemoTable
	textType mdast.NodeType
	rootType mdast.NodeType
	stats    Stats
}

// Option configures a Parser.
type Option func(*Parser)

// WithPolicy sets the memo invalidation policy.
func WithPolicy(policy Policy) Option {
	return func(p *Parser) {
		p.memo = NewMemoTable(policy)
	}
}

// WithTextType sets the node type used for unlabeled text.
func WithTextType(t mdast.NodeType) Option {
	return func(p *Parser) {
		p.textType = t
	}
}

// WithRootType sets the root node type used when the top rule does not
// produce a single node covering the input.
func WithRootType(t mdast.NodeType) Option {
	return func(p *Parser) {
		p.rootType = t
	}
}

// NewParser creates a parser reading from input.
func NewParser(input Input, opts ...Option) *Parser {
	p := &Parser{
		input:    input,
		textType: mdast.Text,
		rootType: mdast.Document,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.memo == nil {
		p.memo = NewMemoTable(PolicyPrecise)
	}
	return p
}

// Input returns the text being parsed.
func (p *Parser) Input() Input {
	return p.input
}

// Memo returns the parser's memo table.
func (p *Parser) Memo() *MemoTable {
	return p.memo
}

// Stats returns memo statistics.
func (p *Parser) Stats() Stats {
	return p.stats
}

// ResetStats zeroes the statistics.
func (p *Parser) ResetStats() {
	p.stats = Stats{}
}

// ApplyEdit tells the parser that the units in [lo, hi) of the input were
// replaced by newLength units. Call it after changing the input and before
// the next Parse.
func (p *Parser) ApplyEdit(lo, hi, newLength int) {
	p.memo.ApplyEdit(lo, hi, newLength)
}

func (p *Parser) unit(i int) (uint16, bool) {
	if i < 0 {
		return 0, false
	}
	return p.input.UnitAt(i)
}

// Parse matches rule against the whole input and returns the root node.
//
// If the rule fails or leaves input unconsumed, Parse still returns a tree
// covering the input, with the unconsumed tail as a single text leaf, along
// with a *GrammarConsistencyError.
func (p *Parser) Parse(rule Rule) (*mdast.Node, error) {
	length := p.input.Len()
	res := rule.Match(p, 0)

	if res.Succeeded && res.Length == length {
		if len(res.Spans) == 1 && res.Spans[0].Node != nil && res.Spans[0].Length == length {
			return res.Spans[0].Node, nil
		}
		return mdast.NewParent(p.rootType, assemble(p.textType, res.Spans)), nil
	}

	consumed := 0
	var spans []Span
	if res.Succeeded {
		consumed = res.Length
		spans = res.Spans
		// Unwrap a single root node so the tail joins its children.
		if len(spans) == 1 && spans[0].Node != nil && !spans[0].Node.IsLeaf() {
			spans = childSpans(spans[0].Node)
		}
	}
	spans = appendSpans(append([]Span(nil), spans...), []Span{{Length: length - consumed}})

	root := mdast.NewParent(p.rootType, assemble(p.textType, spans))
	return root, &GrammarConsistencyError{Rule: rule.String(), Consumed: consumed, Length: length}
}

func childSpans(node *mdast.Node) []Span {
	spans := make([]Span, len(node.Children))
	for i, child := range node.Children {
		spans[i] = Span{Node: child, Length: child.Length}
	}
	return spans
}
