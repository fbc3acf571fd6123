package projection

import (
	"errors"
	"fmt"

	"github.com/yaklabco/commonplace/pkg/mdast"
)

// ErrCoordinate is matched by every CoordinateMappingError.
var ErrCoordinate = errors.New("offset outside the coordinate mapping")

// CoordinateMappingError reports an offset outside [0, Length] of the space
// it was given in.
type CoordinateMappingError struct {
	Space  string // "raw" or "visible"
	Offset int
	Length int
}

func (e *CoordinateMappingError) Error() string {
	return fmt.Sprintf("%s offset %d outside [0, %d]", e.Space, e.Offset, e.Length)
}

func (e *CoordinateMappingError) Unwrap() error {
	return ErrCoordinate
}

// FormatterAssertionError reports that a formatting or replacement function
// was handed a node shape it cannot deal with.
type FormatterAssertionError struct {
	NodeType mdast.NodeType
	Range    mdast.Range
	Reason   string
}

func (e *FormatterAssertionError) Error() string {
	return fmt.Sprintf("formatter for %s at %s: %s", e.NodeType, e.Range, e.Reason)
}

// Assertf returns a FormatterAssertionError for node.
func Assertf(node mdast.AnchoredNode, format string, args ...any) error {
	return &FormatterAssertionError{
		NodeType: node.Type(),
		Range:    node.Range(),
		Reason:   fmt.Sprintf(format, args...),
	}
}
