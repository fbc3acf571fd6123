package analysis

import "time"

// Report contains pre-computed views of an extraction run.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// ByNote lists the notes that yielded study material.
	ByNote []NoteAnalysis `json:"byNote,omitempty"`

	// ByTag groups study material by hashtag.
	ByTag []TagAnalysis `json:"byTag,omitempty"`

	// Errors lists the notes that could not be read.
	Errors []NoteError `json:"errors,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Notes             int `json:"notes"`
	NotesWithMaterial int `json:"notesWithMaterial"`
	Cards             int `json:"cards"`
	Clozes            int `json:"clozes"`
	Tags              int `json:"tags"`
	Degraded          int `json:"degraded"`
	Errored           int `json:"errored"`
}

// Items returns the number of cards plus clozes.
func (t Totals) Items() int {
	return t.Cards + t.Clozes
}

// HasErrors returns true if any note could not be read.
func (t Totals) HasErrors() bool {
	return t.Errored > 0
}

// NoteAnalysis contains aggregated data for a single note.
type NoteAnalysis struct {
	Path     string   `json:"path"`
	Title    string   `json:"title,omitempty"`
	Cards    int      `json:"cards"`
	Clozes   int      `json:"clozes"`
	Tags     []string `json:"tags,omitempty"`
	Degraded bool     `json:"degraded,omitempty"`
}

// Items returns the number of cards plus clozes in the note.
func (n NoteAnalysis) Items() int {
	return n.Cards + n.Clozes
}

// TagAnalysis contains aggregated data for a single hashtag.
type TagAnalysis struct {
	Tag    string   `json:"tag"`
	Cards  int      `json:"cards"`
	Clozes int      `json:"clozes"`
	Notes  []string `json:"notes"`
}

// Items returns the number of cards plus clozes under the tag.
func (t TagAnalysis) Items() int {
	return t.Cards + t.Clozes
}

// NoteError records a note that could not be read.
type NoteError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}
