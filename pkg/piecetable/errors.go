package piecetable

import (
	"errors"
	"fmt"
)

// ErrRange is the sentinel wrapped by every RangeError.
var ErrRange = errors.New("range out of bounds")

// RangeError reports an edit or query range that does not fit the buffer.
type RangeError struct {
	Lo     int
	Hi     int
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range [%d, %d) invalid for buffer of length %d", e.Lo, e.Hi, e.Length)
}

// Unwrap lets callers match with errors.Is(err, ErrRange).
func (e *RangeError) Unwrap() error {
	return ErrRange
}
