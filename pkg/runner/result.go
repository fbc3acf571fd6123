package runner

import "github.com/yaklabco/commonplace/pkg/markdown"

// Note is what a run extracts from one note.
type Note struct {
	Title    string               `json:"title,omitempty"`
	Summary  string               `json:"summary,omitempty"`
	Hashtags []string             `json:"hashtags,omitempty"`
	Cards    []markdown.Card      `json:"cards,omitempty"`
	Clozes   []markdown.ClozeSpan `json:"clozes,omitempty"`

	// Degraded is set when the grammar could not consume the whole note;
	// the unparsed rest was treated as text.
	Degraded bool `json:"degraded,omitempty"`
}

// FileOutcome is the result for one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string `json:"path"`

	// Note is nil when Error is set.
	Note *Note `json:"note,omitempty"`

	// Error is set if the file could not be processed.
	Error error `json:"-"`
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int `json:"files_discovered"`
	FilesProcessed  int `json:"files_processed"`
	FilesErrored    int `json:"files_errored"`
	FilesDegraded   int `json:"files_degraded"`
	Cards           int `json:"cards"`
	Clozes          int `json:"clozes"`
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome `json:"files"`
	Stats Stats         `json:"stats"`
}

// HasErrors reports whether any file could not be processed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil || outcome.Note == nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Note.Degraded {
		r.Stats.FilesDegraded++
	}
	r.Stats.Cards += len(outcome.Note.Cards)
	r.Stats.Clozes += len(outcome.Note.Clozes)
}
