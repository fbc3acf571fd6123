package projection

import (
	"maps"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/mdast"
)

// blockEntry is the cached projection of one top-level block, in
// coordinates relative to the block's raw start and visible start.
type blockEntry struct {
	segments []Segment
	visible  []uint16

	// counts holds how many nodes of each type the block contains; base
	// holds the document-wide ordinals of those types at the block start
	// when it was built. The entry is reusable only at the same ordinals.
	counts map[mdast.NodeType]int
	base   map[mdast.NodeType]int
}

func (e *blockEntry) matches(ordinals map[mdast.NodeType]int) bool {
	for t := range e.counts {
		if e.base[t] != ordinals[t] {
			return false
		}
	}
	return true
}

type builder struct {
	projection *Projection
	source     Source
	ordinals   map[mdast.NodeType]int
	counts     map[mdast.NodeType]int
	segments   []Segment
	visible    []uint16
	err        error
}

func (b *builder) context(ordinal int) *Context {
	return &Context{source: b.source, resolver: b.projection.resolver, ordinal: ordinal}
}

func (b *builder) count(t mdast.NodeType) int {
	ordinal := b.ordinals[t]
	b.ordinals[t]++
	if b.counts != nil {
		b.counts[t]++
	}
	return ordinal
}

func (b *builder) format(ctx *Context, node mdast.AnchoredNode, inherited Attributes) Attributes {
	formatter := b.projection.formatters[node.Type()]
	if formatter == nil {
		return inherited
	}
	attrs := inherited.Clone()
	formatter(ctx, node, &attrs)
	return attrs
}

func (b *builder) visit(node mdast.AnchoredNode, inherited Attributes) {
	ctx := b.context(b.count(node.Type()))
	attrs := b.format(ctx, node, inherited)

	if replace := b.projection.replacements[node.Type()]; replace != nil {
		units, err := replace(ctx, node)
		if err == nil {
			b.emit(node.Range(), units, true, attrs)
			return
		}
		b.projection.logger.Warn("replacement failed, showing raw text",
			logging.FieldNodeType, node.Type().String(),
			logging.FieldRange, node.Range().String(),
			logging.FieldError, err)
		b.emit(node.Range(), b.raw(node.Range()), false, Attributes{})
		return
	}

	if node.Node.IsLeaf() {
		b.emit(node.Range(), b.raw(node.Range()), false, attrs)
		return
	}
	for _, child := range node.Children() {
		b.visit(child, attrs)
	}
}

func (b *builder) raw(r mdast.Range) []uint16 {
	units, err := b.source.Slice(r.Start, r.End)
	if err != nil && b.err == nil {
		b.err = err
	}
	return units
}

func (b *builder) emit(raw mdast.Range, units []uint16, replaced bool, attrs Attributes) {
	if raw.IsEmpty() && len(units) == 0 {
		return
	}
	visible := mdast.Range{Start: len(b.visible), End: len(b.visible) + len(units)}
	b.visible = append(b.visible, units...)

	if n := len(b.segments); n > 0 && !replaced {
		last := &b.segments[n-1]
		if !last.Replaced && last.Raw.End == raw.Start && last.Visible.End == visible.Start &&
			last.Attributes.Equal(attrs) {
			last.Raw.End = raw.End
			last.Visible.End = visible.End
			return
		}
	}
	b.segments = append(b.segments, Segment{Raw: raw, Visible: visible, Replaced: replaced, Attributes: attrs})
}

// buildBlock projects one top-level block in isolation.
func (b *builder) buildBlock(block mdast.AnchoredNode, inherited Attributes) *blockEntry {
	sub := &builder{
		projection: b.projection,
		source:     b.source,
		ordinals:   maps.Clone(b.ordinals),
		counts:     make(map[mdast.NodeType]int),
	}
	sub.visit(block, inherited)
	if sub.err != nil && b.err == nil {
		b.err = sub.err
	}

	entry := &blockEntry{
		segments: make([]Segment, len(sub.segments)),
		visible:  sub.visible,
		counts:   sub.counts,
		base:     make(map[mdast.NodeType]int, len(sub.counts)),
	}
	for i, seg := range sub.segments {
		entry.segments[i] = seg.shift(-block.Start, 0)
	}
	for t := range sub.counts {
		entry.base[t] = b.ordinals[t]
	}
	return entry
}

// appendBlock adds a block's projection at raw offset rawStart.
func (b *builder) appendBlock(entry *blockEntry, rawStart int) {
	visibleStart := len(b.visible)
	b.visible = append(b.visible, entry.visible...)
	for _, seg := range entry.segments {
		b.segments = append(b.segments, seg.shift(rawStart, visibleStart))
	}
	for t, n := range entry.counts {
		b.ordinals[t] += n
	}
}
