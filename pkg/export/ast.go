package export

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

// KindCloze is the node kind of a cloze.
var KindCloze = ast.NewNodeKind("Cloze") //nolint:gochecknoglobals // goldmark node kinds are registered once.

// KindHashtag is the node kind of a hashtag.
var KindHashtag = ast.NewNodeKind("Hashtag") //nolint:gochecknoglobals // goldmark node kinds are registered once.

// Cloze is a ?[hint](answer) span.
type Cloze struct {
	ast.BaseInline

	Index  int
	Hint   []byte
	Answer []byte
}

// Kind implements ast.Node.
func (n *Cloze) Kind() ast.NodeKind {
	return KindCloze
}

// Dump implements ast.Node.
func (n *Cloze) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Index":  strconv.Itoa(n.Index),
		"Hint":   string(n.Hint),
		"Answer": string(n.Answer),
	}, nil)
}

// Hashtag is a #tag.
type Hashtag struct {
	ast.BaseInline

	Tag []byte
}

// Kind implements ast.Node.
func (n *Hashtag) Kind() ast.NodeKind {
	return KindHashtag
}

// Dump implements ast.Node.
func (n *Hashtag) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Tag": string(n.Tag)}, nil)
}
