package mdast

// Change describes a region of the top level of a tree that differs between
// two versions: Old is in the previous tree's coordinates, New in the current.
type Change struct {
	Old Range
	New Range
}

// Diff compares the top-level children of two trees by identity. Children
// that appear in both trees (same pointer) are unchanged; everything between
// the shared prefix and the shared suffix that is not reused is reported.
//
// A nil old tree reports the whole new tree as changed.
func Diff(oldRoot, newRoot *Node) []Change {
	switch {
	case oldRoot == newRoot:
		return nil
	case oldRoot == nil:
		return []Change{{New: Range{0, newRoot.Length}}}
	case newRoot == nil:
		return []Change{{Old: Range{0, oldRoot.Length}}}
	}

	oldKids := oldRoot.Children
	newKids := newRoot.Children

	prefix := 0
	prefixLen := 0
	for prefix < len(oldKids) && prefix < len(newKids) && oldKids[prefix] == newKids[prefix] {
		prefixLen += oldKids[prefix].Length
		prefix++
	}

	suffix := 0
	for suffix < len(oldKids)-prefix && suffix < len(newKids)-prefix &&
		oldKids[len(oldKids)-1-suffix] == newKids[len(newKids)-1-suffix] {
		suffix++
	}

	oldMiddle := oldKids[prefix : len(oldKids)-suffix]
	newMiddle := newKids[prefix : len(newKids)-suffix]
	if len(oldMiddle) == 0 && len(newMiddle) == 0 {
		if oldRoot.Length == newRoot.Length {
			return nil
		}
		return []Change{{Old: Range{prefixLen, prefixLen}, New: Range{prefixLen, prefixLen}}}
	}

	oldSpan := Range{Start: prefixLen, End: prefixLen + sumLengths(oldMiddle)}
	newSpan := Range{Start: prefixLen, End: prefixLen + sumLengths(newMiddle)}

	// Within the middle, nodes reused from the old tree (for example a block
	// that moved because text before it changed length) are not changes.
	reused := make(map[*Node]struct{}, len(oldMiddle))
	for _, child := range oldMiddle {
		reused[child] = struct{}{}
	}

	var changes []Change
	offset := newSpan.Start
	open := false
	for _, child := range newMiddle {
		childRange := Range{Start: offset, End: offset + child.Length}
		offset += child.Length

		if _, ok := reused[child]; ok {
			open = false
			continue
		}
		if open {
			changes[len(changes)-1].New.End = childRange.End
			continue
		}
		changes = append(changes, Change{New: childRange})
		open = true
	}

	if len(changes) == 0 {
		// Only deletions (or reordering of reused nodes) happened.
		return []Change{{Old: oldSpan, New: Range{newSpan.Start, newSpan.Start}}}
	}

	// Old ranges are reported for the whole middle span; identity does not
	// tell which old node a new node replaced.
	for i := range changes {
		changes[i].Old = oldSpan
	}
	return changes
}

// ChangedRanges returns the new-tree ranges reported by Diff.
func ChangedRanges(oldRoot, newRoot *Node) []Range {
	changes := Diff(oldRoot, newRoot)
	ranges := make([]Range, 0, len(changes))
	for _, change := range changes {
		ranges = append(ranges, change.New)
	}
	return ranges
}

func sumLengths(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		total += n.Length
	}
	return total
}
