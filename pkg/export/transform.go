package export

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// blockClasses marks paragraphs that open with a note marker.
type blockClasses struct{}

//nolint:gochecknoglobals // Read-only marker table.
var markers = []struct {
	prefix []byte
	class  string
}{
	{[]byte("Q:"), "card"},
	{[]byte("tl;dr:"), "summary"},
}

func (blockClasses) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	classifyParagraphs(doc, reader.Source())
}

// classifyParagraphs sets the class of every paragraph below node whose
// first line starts with a marker. Paragraph children are inline only.
func classifyParagraphs(node ast.Node, source []byte) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Kind() != ast.KindParagraph {
			classifyParagraphs(child, source)
			continue
		}
		lines := child.Lines()
		if lines.Len() == 0 {
			continue
		}
		seg := lines.At(0)
		first := seg.Value(source)
		for _, m := range markers {
			if bytes.HasPrefix(first, m.prefix) {
				child.SetAttributeString("class", []byte(m.class))
				break
			}
		}
	}
}
