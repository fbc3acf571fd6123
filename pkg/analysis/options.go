package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by the number of cards and clozes.
	SortByCount SortField = "count"
	// SortByAlpha sorts by path or tag name.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeByNote includes the per-note analysis.
	IncludeByNote bool

	// IncludeByTag includes the per-hashtag analysis.
	IncludeByTag bool

	// SortBy specifies how to sort ByNote and ByTag.
	SortBy SortField

	// SortDesc sorts counts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeByNote: true,
		IncludeByTag:  true,
		SortBy:        SortByCount,
		SortDesc:      true,
	}
}
