package reporter

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/yaklabco/commonplace/pkg/analysis"
	"github.com/yaklabco/commonplace/pkg/runner"
)

// TSVReporter writes one row per card or cloze, with the columns front,
// back, tags and source. The output imports into flashcard programs such
// as Anki.
type TSVReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewTSVReporter creates a new TSV reporter.
func NewTSVReporter(opts Options) *TSVReporter {
	return &TSVReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TSVReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	w := csv.NewWriter(r.bw)
	w.Comma = '\t'

	var total int
	for _, file := range result.Files {
		note := file.Note
		if file.Error != nil || note == nil {
			continue
		}
		tags := strings.Join(note.Hashtags, " ")
		source := analysis.RelativePath(file.Path, r.opts.WorkingDir)

		for _, card := range note.Cards {
			if err := w.Write([]string{field(card.Question), field(card.Answer), tags, source}); err != nil {
				return total, fmt.Errorf("write card: %w", err)
			}
			total++
		}
		for _, cloze := range note.Clozes {
			front := cloze.Hint
			if front == "" {
				front = fmt.Sprintf("%s [%d]", noteName(note.Title, source), cloze.Index)
			}
			if err := w.Write([]string{field(front), field(cloze.Answer), tags, source}); err != nil {
				return total, fmt.Errorf("write cloze: %w", err)
			}
			total++
		}
	}

	w.Flush()
	return total, w.Error()
}

// field puts multi-line text on one row.
func field(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", "<br>")
}

func noteName(title, source string) string {
	if title != "" {
		return title
	}
	return source
}
