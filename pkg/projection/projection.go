// Package projection derives the visible text of a document from its raw
// text and syntax tree. Each node type may contribute formatting attributes
// and may replace its raw text with other (possibly empty) visible text.
// The projection keeps a bidirectional, monotonic mapping between raw and
// visible offsets.
package projection

import (
	"errors"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/mdast"
)

// Segment is a contiguous piece of the projection. Verbatim segments map
// raw to visible text one-to-one; replaced segments map a raw range onto
// replacement text of any length.
type Segment struct {
	Raw        mdast.Range
	Visible    mdast.Range
	Replaced   bool
	Attributes Attributes
}

func (s Segment) shift(raw, visible int) Segment {
	s.Raw = s.Raw.Shift(raw)
	s.Visible = s.Visible.Shift(visible)
	return s
}

// Run is a maximal range of visible text with equal attributes.
type Run struct {
	Visible    mdast.Range
	Attributes Attributes
}

// Stats describes the work done by the last Update.
type Stats struct {
	Blocks       int
	CachedBlocks int
}

// Projection is the visible view of a document. It is not safe for
// concurrent use.
type Projection struct {
	formatters   FormattingTable
	replacements ReplacementTable
	resolver     ImageResolver
	logger       *log.Logger

	root     *mdast.Node
	segments []Segment
	visible  []uint16
	rawLen   int

	cache map[*mdast.Node]*blockEntry
	stats Stats
}

// Option configures a Projection.
type Option func(*Projection)

// WithFormatters sets the formatting table.
func WithFormatters(table FormattingTable) Option {
	return func(p *Projection) {
		p.formatters = table
	}
}

// WithReplacements sets the replacement table.
func WithReplacements(table ReplacementTable) Option {
	return func(p *Projection) {
		p.replacements = table
	}
}

// WithImageResolver sets the callback used to fetch image data.
func WithImageResolver(resolver ImageResolver) Option {
	return func(p *Projection) {
		p.resolver = resolver
	}
}

// WithLogger sets the logger used for formatter failures.
func WithLogger(logger *log.Logger) Option {
	return func(p *Projection) {
		p.logger = logger
	}
}

// New creates an empty projection.
func New(opts ...Option) *Projection {
	p := &Projection{
		cache: make(map[*mdast.Node]*blockEntry),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.Default()
	}
	return p
}

// Configure replaces the formatting configuration and drops cached blocks.
func (p *Projection) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
	clear(p.cache)
}

// Update recomputes the projection for root over source. Top-level blocks
// that are pointer-identical to the previous update are reused without
// calling any formatting function.
func (p *Projection) Update(root *mdast.Node, source Source) error {
	if root == nil {
		return errors.New("projection: nil root")
	}
	if root.Length != source.Len() {
		return &CoordinateMappingError{Space: "raw", Offset: root.Length, Length: source.Len()}
	}

	b := &builder{
		projection: p,
		source:     source,
		ordinals:   make(map[mdast.NodeType]int),
	}

	anchored := mdast.Anchor(root)
	nextCache := make(map[*mdast.Node]*blockEntry, len(root.Children))
	stats := Stats{}
	if root.IsLeaf() || p.replacements[root.Type] != nil {
		b.visit(anchored, Attributes{})
	} else {
		rootAttrs := b.format(b.context(b.count(root.Type)), anchored, Attributes{})
		for _, child := range anchored.Children() {
			stats.Blocks++
			entry := p.cache[child.Node]
			if entry != nil && entry.matches(b.ordinals) {
				stats.CachedBlocks++
			} else {
				entry = b.buildBlock(child, rootAttrs)
			}
			nextCache[child.Node] = entry
			b.appendBlock(entry, child.Start)
		}
	}
	if b.err != nil {
		return b.err
	}

	p.root = root
	p.segments = b.segments
	p.visible = b.visible
	p.rawLen = root.Length
	p.cache = nextCache
	p.stats = stats
	return nil
}

// Root returns the tree of the last update.
func (p *Projection) Root() *mdast.Node {
	return p.root
}

// Stats returns statistics for the last update.
func (p *Projection) Stats() Stats {
	return p.stats
}

// Segments returns the segments of the projection in document order.
func (p *Projection) Segments() []Segment {
	return p.segments
}

// RawLen returns the length of the raw text.
func (p *Projection) RawLen() int {
	return p.rawLen
}

// VisibleLen returns the length of the visible text.
func (p *Projection) VisibleLen() int {
	return len(p.visible)
}

// VisibleUnits returns the whole visible text. The result must not be
// modified.
func (p *Projection) VisibleUnits() []uint16 {
	return p.visible
}

// VisibleSlice returns the visible text in [lo, hi).
func (p *Projection) VisibleSlice(lo, hi int) ([]uint16, error) {
	if lo < 0 || lo > len(p.visible) {
		return nil, &CoordinateMappingError{Space: "visible", Offset: lo, Length: len(p.visible)}
	}
	if hi < lo || hi > len(p.visible) {
		return nil, &CoordinateMappingError{Space: "visible", Offset: hi, Length: len(p.visible)}
	}
	return p.visible[lo:hi], nil
}

// VisibleText returns the visible text for the raw range r.
func (p *Projection) VisibleText(r mdast.Range) ([]uint16, error) {
	visible, err := p.VisibleRange(r)
	if err != nil {
		return nil, err
	}
	return p.visible[visible.Start:visible.End], nil
}

// Runs returns the visible text split into maximal runs of equal attributes.
// Hidden segments do not break runs.
func (p *Projection) Runs() []Run {
	var runs []Run
	for _, seg := range p.segments {
		if seg.Visible.IsEmpty() {
			continue
		}
		if n := len(runs); n > 0 && runs[n-1].Visible.End == seg.Visible.Start &&
			runs[n-1].Attributes.Equal(seg.Attributes) {
			runs[n-1].Visible.End = seg.Visible.End
			continue
		}
		runs = append(runs, Run{Visible: seg.Visible, Attributes: seg.Attributes})
	}
	return runs
}

// Attributes returns the attributes in effect at a raw offset, along with
// the raw range over which they apply unchanged.
func (p *Projection) Attributes(raw int) (Attributes, mdast.Range, error) {
	if raw < 0 || raw >= p.rawLen {
		return Attributes{}, mdast.Range{}, &CoordinateMappingError{Space: "raw", Offset: raw, Length: p.rawLen}
	}
	i := p.segmentAtRaw(raw)
	seg := p.segments[i]
	effective := seg.Raw
	for j := i - 1; j >= 0 && p.segments[j].Attributes.Equal(seg.Attributes); j-- {
		effective.Start = p.segments[j].Raw.Start
	}
	for j := i + 1; j < len(p.segments) && p.segments[j].Attributes.Equal(seg.Attributes); j++ {
		effective.End = p.segments[j].Raw.End
	}
	return seg.Attributes, effective, nil
}

// segmentAtRaw returns the index of the segment with Raw.Start <= raw <
// Raw.End. raw must be in [0, rawLen).
func (p *Projection) segmentAtRaw(raw int) int {
	return sort.Search(len(p.segments), func(i int) bool {
		return p.segments[i].Raw.End > raw
	})
}
