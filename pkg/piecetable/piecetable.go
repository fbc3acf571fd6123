// Package piecetable provides a mutable sequence of UTF-16 code units backed by
// a piece table. Edits never copy the existing text: the original units stay
// immutable, inserted units are appended to an add buffer, and the sequence
// is described by pieces referencing either one. The pieces live in a treap
// ordered by position, so edits and random access cost O(log n) in the
// number of pieces.
package piecetable

import (
	"unicode/utf16"
)

// source identifies which backing array a piece references.
type source uint8

const (
	sourceOriginal source = iota
	sourceAdded
)

// piece is a contiguous run of units in one of the backing arrays.
type piece struct {
	source source
	start  int
	length int
}

// node is a treap node holding one piece. sum and count cover the whole
// subtree; priority keeps the tree balanced in expectation.
type node struct {
	piece       piece
	left, right *node
	priority    uint32
	sum         int
	count       int
}

func (n *node) update() {
	n.sum = size(n.left) + n.piece.length + size(n.right)
	n.count = count(n.left) + 1 + count(n.right)
}

func size(n *node) int {
	if n == nil {
		return 0
	}
	return n.sum
}

func count(n *node) int {
	if n == nil {
		return 0
	}
	return n.count
}

// cursor remembers the piece found by the last lookup.
type cursor struct {
	node  *node
	start int
}

// Table is a piece table over UTF-16 code units.
//
// A Table is not safe for concurrent use; it is owned by a single document.
type Table struct {
	original []uint16
	added    []uint16
	root     *node

	// last is the piece that satisfied the last UnitAt call. The parser
	// reads mostly sequentially, so this avoids a descent for almost every
	// lookup. Edits reset it.
	last cursor

	seed uint64
}

// New creates a Table holding s.
func New(s string) *Table {
	return NewFromUnits(Encode(s))
}

// NewFromUnits creates a Table holding a copy of units.
func NewFromUnits(units []uint16) *Table {
	original := make([]uint16, len(units))
	copy(original, units)

	t := &Table{original: original, seed: 1}
	if len(original) > 0 {
		t.root = t.newNode(piece{source: sourceOriginal, start: 0, length: len(original)})
	}
	return t
}

// Encode converts a Go string into UTF-16 code units.
func Encode(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// Decode converts UTF-16 code units into a Go string. Unpaired surrogates
// decode to U+FFFD.
func Decode(units []uint16) string {
	return string(utf16.Decode(units))
}

// Len returns the number of code units in the table.
func (t *Table) Len() int {
	return size(t.root)
}

// PieceCount returns the number of piece descriptors. Exposed for tests and
// debug logging.
func (t *Table) PieceCount() int {
	return count(t.root)
}

// UnitAt returns the code unit at index i, or false if i is out of range.
func (t *Table) UnitAt(i int) (uint16, bool) {
	if i < 0 || i >= t.Len() {
		return 0, false
	}

	c := t.last
	if c.node == nil || i < c.start || i >= c.start+c.node.piece.length {
		c = t.locate(i)
		t.last = c
	}

	p := c.node.piece
	return t.backing(p.source)[p.start+i-c.start], true
}

// Slice returns a copy of the units in [lo, hi).
func (t *Table) Slice(lo, hi int) ([]uint16, error) {
	if err := t.checkRange(lo, hi); err != nil {
		return nil, err
	}

	out := make([]uint16, 0, hi-lo)
	if lo == hi {
		return out, nil
	}
	return t.collect(t.root, 0, lo, hi, out), nil
}

// SliceString returns the units in [lo, hi) decoded as a string.
func (t *Table) SliceString(lo, hi int) (string, error) {
	units, err := t.Slice(lo, hi)
	if err != nil {
		return "", err
	}
	return Decode(units), nil
}

// Units returns a copy of every unit in the table.
func (t *Table) Units() []uint16 {
	//nolint:errcheck // the full range is always valid
	units, _ := t.Slice(0, t.Len())
	return units
}

// String returns the table contents decoded as a string.
func (t *Table) String() string {
	// Decode the whole sequence at once: a surrogate pair may straddle pieces.
	return Decode(t.Units())
}

// Replace replaces the units in [lo, hi) with units. An empty range is a pure
// insert; an empty replacement is a pure delete.
func (t *Table) Replace(lo, hi int, units []uint16) error {
	if err := t.checkRange(lo, hi); err != nil {
		return err
	}
	if lo == hi && len(units) == 0 {
		return nil
	}
	t.last = cursor{}

	// Typing at the end of the most recent insertion extends that piece
	// instead of allocating a new one.
	if lo == hi && t.extendLastInsert(lo, units) {
		return nil
	}

	left, rest := split(t.root, lo)
	_, right := split(rest, hi-lo)
	if len(units) > 0 {
		inserted := t.newNode(piece{source: sourceAdded, start: len(t.added), length: len(units)})
		t.added = append(t.added, units...)
		left = merge(left, inserted)
	}
	t.root = merge(left, right)
	return nil
}

// ReplaceString is Replace with a Go string replacement.
func (t *Table) ReplaceString(lo, hi int, s string) error {
	return t.Replace(lo, hi, Encode(s))
}

// extendLastInsert appends units to the add buffer when the insertion point
// is the end of a piece that ends the add buffer.
func (t *Table) extendLastInsert(at int, units []uint16) bool {
	if len(units) == 0 || at == 0 {
		return false
	}
	c := t.locate(at - 1)
	p := c.node.piece
	if p.source != sourceAdded || p.start+p.length != len(t.added) || c.start+p.length != at {
		return false
	}

	t.added = append(t.added, units...)
	grow := len(units)
	n, i := t.root, at-1
	for {
		n.sum += grow
		ls := size(n.left)
		if i < ls {
			n = n.left
			continue
		}
		i -= ls
		if i < n.piece.length {
			n.piece.length += grow
			return true
		}
		i -= n.piece.length
		n = n.right
	}
}

// locate returns the node holding offset i and the offset its piece starts
// at, where 0 <= i < Len().
func (t *Table) locate(i int) cursor {
	n, base := t.root, 0
	for {
		ls := size(n.left)
		if i < base+ls {
			n = n.left
			continue
		}
		start := base + ls
		if i < start+n.piece.length {
			return cursor{node: n, start: start}
		}
		base = start + n.piece.length
		n = n.right
	}
}

// collect appends the units of [lo, hi) found in the subtree n, whose first
// unit is at offset base.
func (t *Table) collect(n *node, base, lo, hi int, out []uint16) []uint16 {
	if n == nil || lo >= base+n.sum || hi <= base {
		return out
	}
	out = t.collect(n.left, base, lo, hi, out)

	start := base + size(n.left)
	end := start + n.piece.length
	if lo < end && hi > start {
		p := n.piece
		b := t.backing(p.source)
		out = append(out, b[p.start+max(lo, start)-start:p.start+min(hi, end)-start]...)
	}
	return t.collect(n.right, end, lo, hi, out)
}

// split cuts the subtree n into its first k units and the rest, cutting a
// piece in two when k falls inside it.
func split(n *node, k int) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	ls := size(n.left)
	switch {
	case k <= ls:
		a, b := split(n.left, k)
		n.left = b
		n.update()
		return a, n
	case k >= ls+n.piece.length:
		a, b := split(n.right, k-ls-n.piece.length)
		n.right = a
		n.update()
		return n, b
	default:
		cut := k - ls
		p := n.piece
		// The new node inherits n's priority, which dominates n.right.
		tail := &node{
			piece:    piece{source: p.source, start: p.start + cut, length: p.length - cut},
			right:    n.right,
			priority: n.priority,
		}
		tail.update()
		n.piece.length = cut
		n.right = nil
		n.update()
		return n, tail
	}
}

// merge joins two subtrees where every unit of a precedes every unit of b.
func merge(a, b *node) *node {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.priority >= b.priority:
		a.right = merge(a.right, b)
		a.update()
		return a
	default:
		b.left = merge(a, b.left)
		b.update()
		return b
	}
}

func (t *Table) newNode(p piece) *node {
	n := &node{piece: p, priority: t.nextPriority()}
	n.update()
	return n
}

// nextPriority is a 64-bit LCG; tables are deterministic for a given edit
// sequence.
func (t *Table) nextPriority() uint32 {
	t.seed = t.seed*6364136223846793005 + 1442695040888963407
	return uint32(t.seed >> 32)
}

func (t *Table) backing(s source) []uint16 {
	if s == sourceOriginal {
		return t.original
	}
	return t.added
}

func (t *Table) checkRange(lo, hi int) error {
	if length := t.Len(); lo < 0 || lo > hi || hi > length {
		return &RangeError{Lo: lo, Hi: hi, Length: length}
	}
	return nil
}
