package fix

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrInvalidEdit is matched by every ValidationError and ConflictError.
var ErrInvalidEdit = errors.New("invalid edit")

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidEdit).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidEdit
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidEdit).
func (e *ConflictError) Unwrap() error {
	return ErrInvalidEdit
}

// ValidateEdits checks that all edits have valid ranges for a text of
// length units. It returns the first problem found.
func ValidateEdits(edits []TextEdit, length int) error {
	for _, edit := range edits {
		if edit.StartOffset < 0 {
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		}
		if edit.EndOffset < edit.StartOffset {
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		}
		if edit.EndOffset > length {
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds text length %d", edit.EndOffset, length),
			}
		}
	}
	return nil
}

// SortEdits sorts edits by start offset, then by end offset.
func SortEdits(edits []TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].StartOffset != edits[j].StartOffset {
			return edits[i].StartOffset < edits[j].StartOffset
		}
		return edits[i].EndOffset < edits[j].EndOffset
	})
}

// DetectConflicts checks a sorted slice for overlapping edits. Two
// insertions at the same offset also conflict, since their order would be
// ambiguous.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev := edits[i-1]
		curr := edits[i]
		if curr.StartOffset < prev.EndOffset || curr.StartOffset == prev.StartOffset {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// PrepareEdits validates, sorts, and checks for conflicts. The input slice
// is not modified.
func PrepareEdits(edits []TextEdit, length int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	if err := ValidateEdits(edits, length); err != nil {
		return nil, err
	}

	result := slices.Clone(edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}

// Descending returns prepared edits in reverse order, the order in which
// they can be applied one at a time without adjusting offsets.
func Descending(prepared []TextEdit) []TextEdit {
	result := slices.Clone(prepared)
	slices.Reverse(result)
	return result
}
