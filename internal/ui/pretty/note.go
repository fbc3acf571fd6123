package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/piecetable"
	"github.com/yaklabco/commonplace/pkg/projection"
)

// RunStyle maps projection attributes to a terminal style. Font scale has
// no terminal equivalent; enlarged text is shown bold.
func (s *Styles) RunStyle(attrs projection.Attributes) lipgloss.Style {
	style := lipgloss.NewStyle()
	if !s.color {
		return style
	}
	if attrs.Bold || attrs.Scale() > 1 {
		style = style.Bold(true)
	}
	if attrs.Italic {
		style = style.Italic(true)
	}
	if attrs.Scale() > 1.5 {
		style = style.Underline(true)
	}
	if attrs.Color != "" {
		style = style.Foreground(lipgloss.Color(attrs.Color))
	}
	if attrs.Background != "" {
		style = style.Background(lipgloss.Color(attrs.Background))
	}
	return style
}

// RenderNote styles visible text run by run. Object replacement characters
// standing in for images are shown as the image target.
func (s *Styles) RenderNote(visible []uint16, runs []projection.Run) string {
	var sb strings.Builder
	for _, run := range runs {
		text := piecetable.Decode(visible[run.Visible.Start:run.Visible.End])
		if image := run.Attributes.Image; image != nil {
			label := "[image: " + image.Target + "]"
			if image.Data == nil {
				label = "[missing image: " + image.Target + "]"
			}
			text = strings.ReplaceAll(text, markdown.ObjectReplacement, label)
		}
		s.writeStyled(&sb, s.RunStyle(run.Attributes), text)
	}
	return sb.String()
}

// writeStyled renders line by line so Lipgloss does not pad lines to a
// common width.
func (s *Styles) writeStyled(sb *strings.Builder, style lipgloss.Style, text string) {
	if !s.color {
		sb.WriteString(text)
		return
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if line != "" {
			sb.WriteString(style.Render(line))
		}
	}
}

// Wrap soft-wraps text to width columns; zero or negative leaves it as is.
// Lipgloss pads wrapped lines to the full width; the padding is trimmed.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
