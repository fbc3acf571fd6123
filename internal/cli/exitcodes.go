package cli

import (
	"errors"

	"github.com/yaklabco/commonplace/pkg/document"
	"github.com/yaklabco/commonplace/pkg/fix"
	"github.com/yaklabco/commonplace/pkg/fsutil"
	"github.com/yaklabco/commonplace/pkg/piecetable"
	"github.com/yaklabco/commonplace/pkg/projection"
)

// Exit codes for commonplace.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a general failure, such as unreadable notes.
	ExitFailure = 1

	// ExitConflict indicates a note changed on disk while it was edited.
	ExitConflict = 3

	// ExitInvalidUsage indicates invalid command-line usage, including
	// out-of-range or overlapping edits.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrModified):
		return ExitConflict
	case errors.Is(err, fix.ErrInvalidEdit),
		errors.Is(err, piecetable.ErrRange),
		errors.Is(err, projection.ErrCoordinate),
		errors.Is(err, document.ErrSplitSurrogate):
		return ExitInvalidUsage
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitFailure
	}
}
