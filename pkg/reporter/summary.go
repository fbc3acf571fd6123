package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/commonplace/internal/ui/pretty"
	"github.com/yaklabco/commonplace/pkg/analysis"
)

// Table layout constants for summary output.
const (
	tableWidth    = 80
	nameColWidth  = 50
	numColWidth   = 8
	maxNameLength = 48
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// truncate shortens s to the last maxNameLength bytes, marking the cut.
func truncate(s string) string {
	if len(s) <= maxNameLength {
		return s
	}
	return "…" + s[len(s)-(maxNameLength-1):]
}

// SummaryRenderer formats results as per-tag and per-note tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Items() == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.Dim.Render("No cards or clozes found"))
		return err
	}

	var sb strings.Builder
	if len(report.ByTag) > 0 {
		rows := make([]row, len(report.ByTag))
		for i, tag := range report.ByTag {
			rows[i] = row{name: "#" + tag.Tag, cards: tag.Cards, clozes: tag.Clozes, notes: len(tag.Notes)}
		}
		r.renderTable(&sb, "Tags", rows)
		sb.WriteString("\n")
	}

	rows := make([]row, len(report.ByNote))
	for i, note := range report.ByNote {
		rows[i] = row{name: note.Path, cards: note.Cards, clozes: note.Clozes, notes: -1, degraded: note.Degraded}
	}
	r.renderTable(&sb, "Notes", rows)
	sb.WriteString("\n")
	r.renderTotals(&sb, report.Totals)

	_, err := io.WriteString(r.out, sb.String())
	return err
}

type row struct {
	name          string
	cards, clozes int
	// notes is the number of notes under a tag; negative for note rows.
	notes    int
	degraded bool
}

func (r *SummaryRenderer) renderTable(sb *strings.Builder, title string, rows []row) {
	separator := r.styles.Dim.Render(strings.Repeat("─", tableWidth))
	sb.WriteString(r.styles.Bold.Render(title) + "\n")
	sb.WriteString(separator + "\n")

	header := r.styles.Bold.Render(padRight(strings.TrimSuffix(title, "s"), nameColWidth)) +
		r.styles.Bold.Render(padLeft("Cards", numColWidth)) +
		r.styles.Bold.Render(padLeft("Clozes", numColWidth))
	if len(rows) > 0 && rows[0].notes >= 0 {
		header += r.styles.Bold.Render(padLeft("Notes", numColWidth))
	}
	sb.WriteString(header + "\n")
	sb.WriteString(separator + "\n")

	for _, rw := range rows {
		name := padRight(truncate(rw.name), nameColWidth)
		switch {
		case rw.degraded:
			name = r.styles.Warning.Render(name)
		case rw.notes >= 0:
			name = r.styles.Hashtag.Render(name)
		}
		line := name + padLeft(strconv.Itoa(rw.cards), numColWidth) + padLeft(strconv.Itoa(rw.clozes), numColWidth)
		if rw.notes >= 0 {
			line += padLeft(strconv.Itoa(rw.notes), numColWidth)
		}
		sb.WriteString(line + "\n")
	}
}

func (r *SummaryRenderer) renderTotals(sb *strings.Builder, totals analysis.Totals) {
	line := r.styles.Bold.Render("Total: ") + fmt.Sprintf("%s, %s in %s",
		count(totals.Cards, "card"), count(totals.Clozes, "cloze"), count(totals.NotesWithMaterial, "note"))
	if totals.Degraded > 0 {
		line += " " + r.styles.Warning.Render(fmt.Sprintf("(%d degraded)", totals.Degraded))
	}
	sb.WriteString(line + "\n")
}

func count(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
