package reparse

import "errors"

// ErrReentrantEdit is returned when an edit is requested while another edit
// on the same buffer is still being applied, typically from an observer
// callback.
var ErrReentrantEdit = errors.New("edit requested while another edit is in progress")

// ErrUnsortedEdits is returned by Apply when edits overlap or are not in
// descending order.
var ErrUnsortedEdits = errors.New("edits must be non-overlapping and sorted by descending offset")

// ErrIncrementalMismatch is logged when verification finds that an
// incremental parse differs from a fresh one.
var ErrIncrementalMismatch = errors.New("incremental parse differs from full parse")
