// Package mdast provides the immutable syntax tree produced by the packrat
// grammar engine. Nodes carry only a type and a length; absolute positions are
// recovered on demand through AnchoredNode. Because nodes are never mutated
// after construction, a new tree can share every unchanged subtree with the
// previous one, and consumers can detect "unchanged" by pointer identity.
package mdast

import (
	"strings"
	"sync"
)

// NodeType classifies a syntax tree node. Core types are predefined; grammar
// packages register their own with NewNodeType.
type NodeType uint16

// Core node types shared by every grammar.
//
//nolint:gochecknoglobals // Registered once at package init.
var (
	Document  = NewNodeType("document")
	Text      = NewNodeType("text")
	BlankLine = NewNodeType("blank_line")
	Paragraph = NewNodeType("paragraph")
	Delimiter = NewNodeType("delimiter")
	Tab       = NewNodeType("tab")
)

//nolint:gochecknoglobals // Node type registry, guarded by typeMu.
var (
	typeMu    sync.RWMutex
	typeNames []string
	typeIDs   = map[string]NodeType{}
)

// NewNodeType returns the NodeType registered under name, registering it if
// needed. Registering the same name twice returns the same type.
func NewNodeType(name string) NodeType {
	typeMu.Lock()
	defer typeMu.Unlock()

	if t, ok := typeIDs[name]; ok {
		return t
	}
	t := NodeType(len(typeNames))
	typeNames = append(typeNames, name)
	typeIDs[name] = t
	return t
}

// LookupNodeType returns the type registered under name.
func LookupNodeType(name string) (NodeType, bool) {
	typeMu.RLock()
	defer typeMu.RUnlock()

	t, ok := typeIDs[name]
	return t, ok
}

// String returns the registered name of the type.
func (t NodeType) String() string {
	typeMu.RLock()
	defer typeMu.RUnlock()

	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Node is an immutable syntax tree node.
//
// A node's Length always equals the sum of its children's lengths; leaves
// carry their own length. Children must never be modified after the node is
// built: subtrees are shared between tree versions.
type Node struct {
	Type     NodeType
	Length   int
	Children []*Node
}

// NewLeaf creates a leaf node covering length units.
func NewLeaf(nodeType NodeType, length int) *Node {
	return &Node{Type: nodeType, Length: length}
}

// NewParent creates an interior node whose length is the sum of children.
// The children slice is owned by the new node.
func NewParent(nodeType NodeType, children []*Node) *Node {
	length := 0
	for _, child := range children {
		length += child.Length
	}
	return &Node{Type: nodeType, Length: length, Children: children}
}

// IsLeaf returns true if the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// CompactStructure renders the type-only shape of the tree, e.g.
// "(document (paragraph text (emphasis delimiter text delimiter)))".
func (n *Node) CompactStructure() string {
	var sb strings.Builder
	n.writeCompact(&sb)
	return sb.String()
}

func (n *Node) writeCompact(sb *strings.Builder) {
	if n.IsLeaf() {
		sb.WriteString(n.Type.String())
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Type.String())
	for _, child := range n.Children {
		sb.WriteByte(' ')
		child.writeCompact(sb)
	}
	sb.WriteByte(')')
}

// Equal reports whether two trees have the same shape, types and lengths.
// It does not consider identity.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type || a.Length != b.Length || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
