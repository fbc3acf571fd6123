package projection

import (
	"sort"

	"github.com/yaklabco/commonplace/pkg/mdast"
)

// ToVisible maps a raw offset to a visible offset. Offsets inside a
// replaced or hidden span map to the start of its replacement.
func (p *Projection) ToVisible(raw int) (int, error) {
	if raw < 0 || raw > p.rawLen {
		return 0, &CoordinateMappingError{Space: "raw", Offset: raw, Length: p.rawLen}
	}
	if raw == p.rawLen {
		return len(p.visible), nil
	}
	seg := p.segments[p.segmentAtRaw(raw)]
	if seg.Replaced {
		return seg.Visible.Start, nil
	}
	return seg.Visible.Start + raw - seg.Raw.Start, nil
}

// ToRaw maps a visible offset to the earliest raw offset that maps to it.
// A cursor next to hidden text therefore lands before the hidden span.
func (p *Projection) ToRaw(visible int) (int, error) {
	if visible < 0 || visible > len(p.visible) {
		return 0, &CoordinateMappingError{Space: "visible", Offset: visible, Length: len(p.visible)}
	}
	i := sort.Search(len(p.segments), func(i int) bool {
		return p.segments[i].Visible.End >= visible
	})
	if i == len(p.segments) {
		return p.rawLen, nil
	}
	seg := p.segments[i]
	switch {
	case !seg.Replaced:
		return seg.Raw.Start + visible - seg.Visible.Start, nil
	case visible == seg.Visible.Start:
		return seg.Raw.Start, nil
	default:
		return seg.Raw.End, nil
	}
}

// VisibleRange maps a raw range to the visible range it produces. A range
// ending inside a replaced span extends to the end of the replacement.
func (p *Projection) VisibleRange(raw mdast.Range) (mdast.Range, error) {
	if err := p.checkRange("raw", raw, p.rawLen); err != nil {
		return mdast.Range{}, err
	}
	start, err := p.ToVisible(raw.Start)
	if err != nil {
		return mdast.Range{}, err
	}
	if raw.IsEmpty() {
		return mdast.Range{Start: start, End: start}, nil
	}

	k := sort.Search(len(p.segments), func(i int) bool {
		return p.segments[i].Raw.End >= raw.End
	})
	seg := p.segments[k]
	end := seg.Visible.End
	if !seg.Replaced {
		end = seg.Visible.Start + raw.End - seg.Raw.Start
	}
	return mdast.Range{Start: start, End: max(start, end)}, nil
}

// RawRange maps a visible range back to raw text. For a non-empty range,
// hidden spans at either edge are excluded and replaced spans are included
// whole. An empty range maps like ToRaw.
func (p *Projection) RawRange(visible mdast.Range) (mdast.Range, error) {
	if err := p.checkRange("visible", visible, len(p.visible)); err != nil {
		return mdast.Range{}, err
	}
	if visible.IsEmpty() {
		raw, err := p.ToRaw(visible.Start)
		return mdast.Range{Start: raw, End: raw}, err
	}

	i := sort.Search(len(p.segments), func(i int) bool {
		return p.segments[i].Visible.End > visible.Start
	})
	first := p.segments[i]
	start := first.Raw.Start
	if !first.Replaced {
		start += visible.Start - first.Visible.Start
	}

	j := sort.Search(len(p.segments), func(i int) bool {
		return p.segments[i].Visible.Start >= visible.End
	}) - 1
	last := p.segments[j]
	end := last.Raw.End
	if !last.Replaced {
		end = last.Raw.Start + visible.End - last.Visible.Start
	}
	return mdast.Range{Start: start, End: end}, nil
}

func (p *Projection) checkRange(space string, r mdast.Range, length int) error {
	if r.Start < 0 || r.Start > length {
		return &CoordinateMappingError{Space: space, Offset: r.Start, Length: length}
	}
	if r.End < r.Start || r.End > length {
		return &CoordinateMappingError{Space: space, Offset: r.End, Length: length}
	}
	return nil
}
