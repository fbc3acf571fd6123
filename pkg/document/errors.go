package document

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

// ErrSplitSurrogate is returned for an edit whose boundary falls between
// the two halves of a surrogate pair. The raw text never holds a lone
// surrogate, so RawString always round-trips through UTF-8.
var ErrSplitSurrogate = errors.New("edit splits a surrogate pair")

// SurrogateSplitError reports the offending offset.
type SurrogateSplitError struct {
	Offset int
}

func (e *SurrogateSplitError) Error() string {
	return fmt.Sprintf("offset %d splits a surrogate pair", e.Offset)
}

// Unwrap lets callers match with errors.Is(err, ErrSplitSurrogate).
func (e *SurrogateSplitError) Unwrap() error {
	return ErrSplitSurrogate
}

// splitsSurrogate reports whether offset lies inside a surrogate pair.
func (d *Document) splitsSurrogate(offset int) bool {
	if offset <= 0 || offset >= d.buffer.Len() {
		return false
	}
	before, _ := d.buffer.UnitAt(offset - 1)
	after, _ := d.buffer.UnitAt(offset)
	return utf16.IsSurrogate(rune(before)) && before < 0xDC00 &&
		utf16.IsSurrogate(rune(after)) && after >= 0xDC00
}
