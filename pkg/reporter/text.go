package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/commonplace/internal/ui/pretty"
	"github.com/yaklabco/commonplace/pkg/analysis"
	"github.com/yaklabco/commonplace/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. Notes without cards or clozes are left out.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No notes found."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		path := analysis.RelativePath(file.Path, r.opts.WorkingDir)
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.Path.Render(path),
				r.styles.Warning.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		note := file.Note
		if note == nil || len(note.Cards)+len(note.Clozes) == 0 {
			continue
		}
		fmt.Fprint(r.bw, r.styles.FormatNote(path, note))
		total += len(note.Cards) + len(note.Clozes)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}
	return total, nil
}
