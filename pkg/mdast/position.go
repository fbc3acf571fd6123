package mdast

import "fmt"

// Range is a half-open range [Start, End) of UTF-16 code unit offsets.
type Range struct {
	Start int
	End   int
}

// NewRange builds a range from a location and a length.
func NewRange(location, length int) Range {
	return Range{Start: location, End: location + length}
}

// Len returns the length of the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if the given offset is within this range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Intersects returns true if the ranges share at least one offset, or if
// either is empty and lies inside or on the boundary of the other.
func (r Range) Intersects(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Union returns the smallest range covering both ranges.
func (r Range) Union(other Range) Range {
	return Range{Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}

// Shift returns the range moved by delta.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// AnchoredNode is a transient view of a node at an absolute buffer offset.
type AnchoredNode struct {
	Node  *Node
	Start int
}

// Anchor pins root at offset 0.
func Anchor(root *Node) AnchoredNode {
	return AnchoredNode{Node: root, Start: 0}
}

// Range returns the absolute range covered by the node.
func (a AnchoredNode) Range() Range {
	return Range{Start: a.Start, End: a.Start + a.Node.Length}
}

// Type returns the node's type.
func (a AnchoredNode) Type() NodeType {
	return a.Node.Type
}

// Children returns the anchored children in order.
func (a AnchoredNode) Children() []AnchoredNode {
	children := make([]AnchoredNode, len(a.Node.Children))
	offset := a.Start
	for i, child := range a.Node.Children {
		children[i] = AnchoredNode{Node: child, Start: offset}
		offset += child.Length
	}
	return children
}

// FirstChild returns the first anchored child of the given type.
func (a AnchoredNode) FirstChild(nodeType NodeType) (AnchoredNode, bool) {
	offset := a.Start
	for _, child := range a.Node.Children {
		if child.Type == nodeType {
			return AnchoredNode{Node: child, Start: offset}, true
		}
		offset += child.Length
	}
	return AnchoredNode{}, false
}

// PathTo returns the chain of nodes from a down to the deepest descendant
// containing offset. An offset equal to the end of the root resolves to the
// last leaf. Returns nil if offset is outside the node.
func (a AnchoredNode) PathTo(offset int) []AnchoredNode {
	r := a.Range()
	if offset < r.Start || offset > r.End {
		return nil
	}

	path := []AnchoredNode{a}
	current := a
	for !current.Node.IsLeaf() {
		next, ok := childContaining(current, offset)
		if !ok {
			break
		}
		path = append(path, next)
		current = next
	}
	return path
}

// childContaining finds the child covering offset, preferring the last
// non-empty child when offset is at the parent's end.
func childContaining(parent AnchoredNode, offset int) (AnchoredNode, bool) {
	start := parent.Start
	var last AnchoredNode
	found := false
	for _, child := range parent.Node.Children {
		if child.Length > 0 && offset >= start && offset < start+child.Length {
			return AnchoredNode{Node: child, Start: start}, true
		}
		if child.Length > 0 {
			last = AnchoredNode{Node: child, Start: start}
			found = true
		}
		start += child.Length
	}
	if found && offset == parent.Start+parent.Node.Length {
		return last, true
	}
	return AnchoredNode{}, false
}
