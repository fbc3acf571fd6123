package markdown

import (
	"strings"

	"github.com/yaklabco/commonplace/pkg/langdetect"
	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/projection"
)

// Colors used by the default formatters.
const (
	ColorDelimiter = "#9a9a9a"
	ColorQuote     = "#6a6a6a"
	ColorCloze     = "#c0392b"
	ColorHashtag   = "#8e44ad"
	ColorLink      = "#2a6ebb"
	BackgroundCode = "#eeeeee"
)

// LanguageKey is the extension attribute naming a code block's language.
const LanguageKey = "language"

//nolint:gochecknoglobals // Read-only header scale table.
var headerScales = [...]float64{1, 2.0, 1.6, 1.3, 1.15, 1.1, 1.05}

// DefaultFormatters returns the standard formatting table.
func DefaultFormatters() projection.FormattingTable {
	return projection.FormattingTable{
		Header:           formatHeader,
		Emphasis:         func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Italic = true },
		StrongEmphasis:   func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Bold = true },
		Code:             formatCode,
		CodeBlock:        formatCodeBlock,
		Blockquote:       formatBlockquote,
		ListItem:         func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Indent++ },
		mdast.Delimiter:  func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Color = ColorDelimiter },
		QnADelimiter:     func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Bold = true },
		SummaryDelimiter: func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Bold = true },
		Summary:          func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Italic = true },
		ThematicBreak:    func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Color = ColorDelimiter },
		Cloze:            func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Color = ColorCloze },
		Hashtag:          func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Color = ColorHashtag },
		Link:             func(_ *projection.Context, _ mdast.AnchoredNode, a *projection.Attributes) { a.Color = ColorLink },
		Image:            formatImage,
	}
}

func formatHeader(_ *projection.Context, node mdast.AnchoredNode, attrs *projection.Attributes) {
	level := min(HeaderLevel(node), len(headerScales)-1)
	attrs.Bold = true
	attrs.FontScale = headerScales[level]
}

func formatCode(_ *projection.Context, _ mdast.AnchoredNode, attrs *projection.Attributes) {
	attrs.Code = true
	attrs.Background = BackgroundCode
}

func formatCodeBlock(ctx *projection.Context, node mdast.AnchoredNode, attrs *projection.Attributes) {
	formatCode(ctx, node, attrs)

	var info string
	if lang, ok := node.FirstChild(CodeLanguage); ok {
		info = ctx.Text(lang)
	}
	var body []byte
	if info == "" {
		body = []byte(codeBody(ctx, node))
	}
	attrs.Set(LanguageKey, langdetect.Resolve(info, body))
}

// codeBody returns the text between the fences of a code block.
func codeBody(ctx *projection.Context, node mdast.AnchoredNode) string {
	var sb strings.Builder
	for _, child := range node.Children() {
		if child.Type() == mdast.Text {
			sb.WriteString(ctx.Text(child))
		}
	}
	return strings.TrimPrefix(sb.String(), "\n")
}

func formatBlockquote(_ *projection.Context, _ mdast.AnchoredNode, attrs *projection.Attributes) {
	attrs.Indent++
	attrs.Italic = true
	attrs.Color = ColorQuote
}

func formatImage(ctx *projection.Context, node mdast.AnchoredNode, attrs *projection.Attributes) {
	target, ok := node.FirstChild(LinkTarget)
	if !ok {
		return
	}
	image := &projection.Image{Target: ctx.Text(target)}
	if data, found := ctx.ResolveImage(image.Target); found {
		image.Data = data
	}
	attrs.Image = image
}

// HideDelimiters hides markup delimiters such as ** and #.
func HideDelimiters() projection.ReplacementTable {
	return projection.ReplacementTable{mdast.Delimiter: projection.Hide()}
}

// SubstituteTabs shows the space after list markers, headers and quote
// markers as a single tab.
func SubstituteTabs() projection.ReplacementTable {
	return projection.ReplacementTable{mdast.Tab: projection.Substitute("\t")}
}

// ObjectReplacement is shown in place of an image.
const ObjectReplacement = "\uFFFC"

// ImagePlaceholder replaces image syntax with a single object replacement
// character; the image itself travels in the attributes.
func ImagePlaceholder() projection.ReplacementTable {
	return projection.ReplacementTable{Image: projection.Substitute(ObjectReplacement)}
}

// HideCloze quizzes on one cloze: cloze number index shows its hint, and
// every other cloze shows its answer.
func HideCloze(index int) projection.ReplacementTable {
	return projection.ReplacementTable{
		Cloze: func(ctx *projection.Context, node mdast.AnchoredNode) ([]uint16, error) {
			answer, ok := node.FirstChild(ClozeAnswer)
			if !ok {
				return nil, projection.Assertf(node, "cloze without an answer")
			}
			if ctx.Ordinal() != index {
				return ctx.Units(answer), nil
			}
			if hint, ok := node.FirstChild(ClozeHint); ok {
				return ctx.Units(hint), nil
			}
			return nil, nil
		},
	}
}

// RenderOptions selects the standard replacement tables.
type RenderOptions struct {
	HideDelimiters bool
	SubstituteTabs bool
	ShowImages     bool
	// HideCloze is the index of the cloze to quiz on; negative for none.
	HideCloze int
}

// Replacements builds the replacement table for opts.
func (opts RenderOptions) Replacements() projection.ReplacementTable {
	table := projection.ReplacementTable{}
	if opts.HideDelimiters {
		table = table.Merge(HideDelimiters())
	}
	if opts.SubstituteTabs {
		table = table.Merge(SubstituteTabs())
	}
	if opts.ShowImages {
		table = table.Merge(ImagePlaceholder())
	}
	if opts.HideCloze >= 0 {
		table = table.Merge(HideCloze(opts.HideCloze))
	}
	return table
}
