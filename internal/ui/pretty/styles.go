// Package pretty styles terminal output with Lipgloss: rendered notes,
// extracted cards and run summaries.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/markdown"
)

// Styles contains the styles for CLI output.
type Styles struct {
	color bool

	Title    lipgloss.Style
	Path     lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Cloze    lipgloss.Style
	Hashtag  lipgloss.Style
	Summary  lipgloss.Style
	Image    lipgloss.Style

	Warning lipgloss.Style
	Success lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style
}

// NewStyles creates Styles; with color disabled every style is plain.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title: plain, Path: plain, Question: plain, Answer: plain,
			Cloze: plain, Hashtag: plain, Summary: plain, Image: plain,
			Warning: plain, Success: plain, Dim: plain, Bold: plain,
		}
	}
	return &Styles{
		color:    true,
		Title:    lipgloss.NewStyle().Bold(true).Underline(true),
		Path:     lipgloss.NewStyle().Bold(true),
		Question: lipgloss.NewStyle().Bold(true),
		Answer:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Cloze:    lipgloss.NewStyle().Foreground(lipgloss.Color(markdown.ColorCloze)),
		Hashtag:  lipgloss.NewStyle().Foreground(lipgloss.Color(markdown.ColorHashtag)),
		Summary:  lipgloss.NewStyle().Italic(true),
		Image:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:     lipgloss.NewStyle().Bold(true),
	}
}

// ColorEnabled reports whether the styles emit color.
func (s *Styles) ColorEnabled() bool {
	return s.color
}

// IsColorEnabled determines if color should be enabled for writer. In auto
// mode, color is enabled only if the writer is a TTY and NO_COLOR is unset.
func IsColorEnabled(mode config.ColorMode, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
