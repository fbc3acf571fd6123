// Package fix validates and orders batches of text edits against a note's
// raw text. Offsets count UTF-16 code units, the same coordinates the
// piece table and the syntax tree use.
package fix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/commonplace/pkg/piecetable"
)

// TextEdit replaces the raw units in [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	// StartOffset is the first unit replaced (inclusive).
	StartOffset int

	// EndOffset is the unit after the last one replaced (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Units returns NewText as UTF-16 code units.
func (e TextEdit) Units() []uint16 {
	return piecetable.Encode(e.NewText)
}

// Delta is the change in length the edit causes.
func (e TextEdit) Delta() int {
	return len(e.Units()) - (e.EndOffset - e.StartOffset)
}

func (e TextEdit) String() string {
	return fmt.Sprintf("[%d:%d]%q", e.StartOffset, e.EndOffset, e.NewText)
}

// ParseTextEdit parses "start:end:text". The text may itself contain colons
// and may be empty, which makes the edit a deletion.
func ParseTextEdit(s string) (TextEdit, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return TextEdit{}, &ValidationError{Message: fmt.Sprintf("edit %q is not start:end:text", s)}
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return TextEdit{}, &ValidationError{Message: fmt.Sprintf("edit %q: bad start offset", s)}
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return TextEdit{}, &ValidationError{Message: fmt.Sprintf("edit %q: bad end offset", s)}
	}
	return TextEdit{StartOffset: start, EndOffset: end, NewText: parts[2]}, nil
}

// EditBuilder accumulates text edits for one note.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces units [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) *EditBuilder {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
	return b
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) *EditBuilder {
	return b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes units [start, end).
func (b *EditBuilder) Delete(start, end int) *EditBuilder {
	return b.ReplaceRange(start, end, "")
}
