package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/runner"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "4 cards, 7 clozes in 3 notes (1 degraded)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	line := fmt.Sprintf("%s, %s in %s",
		plural(stats.Cards, "card"), plural(stats.Clozes, "cloze"), plural(stats.FilesProcessed, "note"))
	if stats.Cards+stats.Clozes == 0 {
		line = s.Dim.Render(line)
	} else {
		line = s.Success.Render(line)
	}

	var notes []string
	if stats.FilesDegraded > 0 {
		notes = append(notes, s.Warning.Render(fmt.Sprintf("%d degraded", stats.FilesDegraded)))
	}
	if stats.FilesErrored > 0 {
		notes = append(notes, s.Warning.Render(fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}
	if len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}
	return line + "\n"
}

// FormatNote lists the cards and clozes of one note under its path.
func (s *Styles) FormatNote(path string, note *runner.Note) string {
	var sb strings.Builder
	header := s.Path.Render(path)
	if note.Title != "" {
		header += s.Dim.Render(" " + note.Title)
	}
	sb.WriteString(header + "\n")

	if note.Summary != "" {
		sb.WriteString("  " + s.Summary.Render(note.Summary) + "\n")
	}
	for _, card := range note.Cards {
		sb.WriteString("  " + s.Question.Render("Q: "+card.Question) + "\n")
		sb.WriteString("  " + s.Answer.Render("A: "+card.Answer) + "\n")
	}
	for _, cloze := range note.Clozes {
		sb.WriteString("  " + s.formatCloze(cloze) + "\n")
	}
	if len(note.Hashtags) > 0 {
		tags := make([]string, len(note.Hashtags))
		for i, tag := range note.Hashtags {
			tags[i] = s.Hashtag.Render("#" + tag)
		}
		sb.WriteString("  " + strings.Join(tags, " ") + "\n")
	}
	return sb.String()
}

func (s *Styles) formatCloze(cloze markdown.ClozeSpan) string {
	label := fmt.Sprintf("[%d] ", cloze.Index)
	hint := cloze.Hint
	if hint == "" {
		hint = "…"
	}
	return s.Dim.Render(label) + hint + s.Dim.Render(" → ") + s.Cloze.Render(cloze.Answer)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
