// Package export converts raw note text to HTML with goldmark. Clozes and
// hashtags get their own inline nodes; question and summary paragraphs are
// tagged with a CSS class.
package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/commonplace/pkg/markdown"
)

// Options controls the HTML output.
type Options struct {
	// GFM enables GitHub Flavored Markdown tables, strikethrough and task
	// lists.
	GFM bool

	// Quiz is the index of the cloze shown as its hint; -1 shows every
	// answer.
	Quiz int
}

// DefaultOptions shows every answer with GFM enabled.
func DefaultOptions() Options {
	return Options{GFM: true, Quiz: -1}
}

// Exporter renders notes.
type Exporter struct {
	md goldmark.Markdown
}

// New creates an exporter.
func New(opts Options) *Exporter {
	return &Exporter{md: newGoldmarkInstance(opts)}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(opts Options) goldmark.Markdown {
	gmOpts := []goldmark.Option{goldmark.WithExtensions(&noteExtension{quiz: opts.Quiz})}
	if opts.GFM {
		gmOpts = append(gmOpts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(gmOpts...)
}

type noteExtension struct {
	quiz int
}

func (e *noteExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(clozeParser{}, 150),
			util.Prioritized(hashtagParser{}, 150),
		),
		parser.WithASTTransformers(util.Prioritized(blockClasses{}, 100)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&noteRenderer{quiz: e.quiz}, 500),
	))
}

// Convert writes the HTML body of a note.
func (e *Exporter) Convert(ctx context.Context, source []byte, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("export cancelled: %w", err)
	}
	doc := e.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))
	if err := e.md.Renderer().Render(w, source, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Page writes a standalone HTML page around the note.
func (e *Exporter) Page(ctx context.Context, title string, source []byte, w io.Writer) error {
	var body bytes.Buffer
	if err := e.Convert(ctx, source, &body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, pageTemplate,
		html.EscapeString(title), markdown.ColorCloze, markdown.ColorHashtag, body.String())
	if err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
.cloze { color: %s; }
.cloze-hidden { border-bottom: 1px dashed; }
.hashtag { color: %s; }
.summary { font-style: italic; }
</style>
</head>
<body>
%s</body>
</html>
`
