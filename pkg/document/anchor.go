package document

import (
	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/reparse"
)

// Anchor is a raw range that follows the text it covers across edits.
// Text inserted before it shifts it; text inserted at its end is not
// included; deleting text inside it shrinks it.
type Anchor struct {
	raw mdast.Range
	doc *Document
}

// Range returns the current raw range.
func (a *Anchor) Range() mdast.Range {
	return a.raw
}

// VisibleRange returns the current visible range.
func (a *Anchor) VisibleRange() (mdast.Range, error) {
	return a.doc.projection.VisibleRange(a.raw)
}

// Collapsed reports whether every unit of the range has been deleted.
func (a *Anchor) Collapsed() bool {
	return a.raw.IsEmpty()
}

// TrackRange starts tracking the raw range r.
func (d *Document) TrackRange(r mdast.Range) (*Anchor, error) {
	if err := d.checkRaw(r); err != nil {
		return nil, err
	}
	anchor := &Anchor{raw: r, doc: d}
	d.anchors = append(d.anchors, anchor)
	return anchor, nil
}

// Untrack stops updating anchor.
func (d *Document) Untrack(anchor *Anchor) {
	for i, a := range d.anchors {
		if a == anchor {
			d.anchors = append(d.anchors[:i], d.anchors[i+1:]...)
			return
		}
	}
}

// moveAnchors transforms every anchor through edits, which are in
// descending order.
func (d *Document) moveAnchors(edits []reparse.Edit) {
	for _, anchor := range d.anchors {
		for _, edit := range edits {
			anchor.raw = transform(anchor.raw, edit)
		}
	}
}

func transform(r mdast.Range, edit reparse.Edit) mdast.Range {
	n := len(edit.Units)
	delta := n - (edit.Hi - edit.Lo)

	start := r.Start
	switch {
	case start < edit.Lo:
	case start >= edit.Hi:
		start += delta
	default:
		start = edit.Lo + n
	}

	end := r.End
	switch {
	case end <= edit.Lo:
	case end >= edit.Hi:
		end += delta
	default:
		end = edit.Lo
	}

	if end < start {
		start = end
	}
	return mdast.Range{Start: start, End: end}
}
