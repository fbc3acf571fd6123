package packrat

import (
	"sort"
	"strings"
	"unicode/utf16"
)

// CharSet is an immutable set of UTF-16 code units. Units below 256 live in a
// bitmap; anything else in a map.
type CharSet struct {
	low  [4]uint64
	high map[uint16]struct{}
}

// NewCharSet returns the set of every code unit in chars.
func NewCharSet(chars string) CharSet {
	var set CharSet
	for _, unit := range utf16.Encode([]rune(chars)) {
		set.add(unit)
	}
	return set
}

// CharRange returns the set of units in [lo, hi] inclusive.
func CharRange(lo, hi uint16) CharSet {
	var set CharSet
	for u := int(lo); u <= int(hi); u++ {
		set.add(uint16(u))
	}
	return set
}

func (s *CharSet) add(unit uint16) {
	if unit < 256 {
		s.low[unit>>6] |= 1 << (unit & 63)
		return
	}
	if s.high == nil {
		s.high = make(map[uint16]struct{})
	}
	s.high[unit] = struct{}{}
}

// Contains reports whether unit is in the set.
func (s CharSet) Contains(unit uint16) bool {
	if unit < 256 {
		return s.low[unit>>6]&(1<<(unit&63)) != 0
	}
	_, ok := s.high[unit]
	return ok
}

// Union returns a new set containing the units of both sets.
func (s CharSet) Union(other CharSet) CharSet {
	var out CharSet
	for i := range out.low {
		out.low[i] = s.low[i] | other.low[i]
	}
	if len(s.high)+len(other.high) > 0 {
		out.high = make(map[uint16]struct{}, len(s.high)+len(other.high))
		for u := range s.high {
			out.high[u] = struct{}{}
		}
		for u := range other.high {
			out.high[u] = struct{}{}
		}
	}
	return out
}

// Units returns the members of the set in ascending order.
func (s CharSet) Units() []uint16 {
	var units []uint16
	for u := 0; u < 256; u++ {
		if s.Contains(uint16(u)) {
			units = append(units, uint16(u))
		}
	}
	high := make([]uint16, 0, len(s.high))
	for u := range s.high {
		high = append(high, u)
	}
	sort.Slice(high, func(i, j int) bool { return high[i] < high[j] })
	return append(units, high...)
}

// Len returns the number of units in the set.
func (s CharSet) Len() int {
	return len(s.Units())
}

// IsEmpty returns true if the set has no members.
func (s CharSet) IsEmpty() bool {
	return s.low == [4]uint64{} && len(s.high) == 0
}

func (s CharSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, u := range s.Units() {
		sb.WriteString(printableUnit(u))
	}
	sb.WriteByte(']')
	return sb.String()
}

func printableUnit(u uint16) string {
	switch u {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	}
	return string(rune(u))
}
