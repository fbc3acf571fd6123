package mdast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n AnchoredNode) error

// Walk performs a pre-order traversal of the tree starting at root.
// The callback walkFunc is called for each node. If walkFunc returns a non-nil error,
// the walk stops immediately and returns that error.
func Walk(root AnchoredNode, walkFunc WalkFunc) error {
	if root.Node == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	offset := root.Start
	for _, child := range root.Node.Children {
		if err := Walk(AnchoredNode{Node: child, Start: offset}, walkFunc); err != nil {
			return err
		}
		offset += child.Length
	}

	return nil
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave is called after.
// Either callback may be nil.
func WalkWithContext(root AnchoredNode, enter, leave WalkFunc) error {
	if root.Node == nil {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	offset := root.Start
	for _, child := range root.Node.Children {
		if err := WalkWithContext(AnchoredNode{Node: child, Start: offset}, enter, leave); err != nil {
			return err
		}
		offset += child.Length
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate, in document order.
func FindAll(root AnchoredNode, predicate func(n AnchoredNode) bool) []AnchoredNode {
	var result []AnchoredNode

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node AnchoredNode) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate.
func FindFirst(root AnchoredNode, predicate func(n AnchoredNode) bool) (AnchoredNode, bool) {
	var found AnchoredNode
	ok := false

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node AnchoredNode) error {
		if predicate(node) {
			found = node
			ok = true
			return errStopWalk
		}
		return nil
	})

	return found, ok
}

// FindByType returns all nodes of the specified type.
func FindByType(root AnchoredNode, nodeType NodeType) []AnchoredNode {
	return FindAll(root, func(n AnchoredNode) bool {
		return n.Node.Type == nodeType
	})
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
