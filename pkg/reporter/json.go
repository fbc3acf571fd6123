package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/commonplace/pkg/analysis"
	"github.com/yaklabco/commonplace/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONNoteResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONNoteResult represents a single note's study material.
type JSONNoteResult struct {
	Path     string      `json:"path"`
	Title    string      `json:"title,omitempty"`
	Summary  string      `json:"summary,omitempty"`
	Hashtags []string    `json:"hashtags,omitempty"`
	Cards    []JSONCard  `json:"cards"`
	Clozes   []JSONCloze `json:"clozes"`
	Degraded bool        `json:"degraded,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// JSONCard is a question and answer pair with its range in the note.
type JSONCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// JSONCloze is one cloze with its range in the note.
type JSONCloze struct {
	Index  int    `json:"index"`
	Hint   string `json:"hint,omitempty"`
	Answer string `json:"answer"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	NotesChecked int `json:"notesChecked"`
	NotesErrored int `json:"notesErrored"`
	Degraded     int `json:"degraded"`
	Cards        int `json:"cards"`
	Clozes       int `json:"clozes"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Cards + output.Summary.Clozes, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: analysis.ReportVersion,
		Files:   make([]JSONNoteResult, 0),
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		noteResult := JSONNoteResult{
			Path:   analysis.RelativePath(file.Path, r.opts.WorkingDir),
			Cards:  make([]JSONCard, 0),
			Clozes: make([]JSONCloze, 0),
		}
		output.Summary.NotesChecked++

		if file.Error != nil {
			noteResult.Error = file.Error.Error()
			output.Summary.NotesErrored++
		}

		if note := file.Note; note != nil {
			noteResult.Title = note.Title
			noteResult.Summary = note.Summary
			noteResult.Hashtags = note.Hashtags
			noteResult.Degraded = note.Degraded
			for _, card := range note.Cards {
				noteResult.Cards = append(noteResult.Cards, JSONCard{
					Question: card.Question,
					Answer:   card.Answer,
					Start:    card.Range.Start,
					End:      card.Range.End,
				})
			}
			for _, cloze := range note.Clozes {
				noteResult.Clozes = append(noteResult.Clozes, JSONCloze{
					Index:  cloze.Index,
					Hint:   cloze.Hint,
					Answer: cloze.Answer,
					Start:  cloze.Range.Start,
					End:    cloze.Range.End,
				})
			}
			if note.Degraded {
				output.Summary.Degraded++
			}
			output.Summary.Cards += len(note.Cards)
			output.Summary.Clozes += len(note.Clozes)
		}

		output.Files = append(output.Files, noteResult)
	}

	return output
}
