package export

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

//nolint:gochecknoglobals // goldmark context keys are process-wide.
var clozeCounterKey = parser.NewContextKey()

type clozeParser struct{}

func (clozeParser) Trigger() []byte {
	return []byte{'?'}
}

// Parse reads ?[hint](answer). Neither part may span lines or contain its
// closing bracket.
func (clozeParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[1] != '[' {
		return nil
	}
	hintEnd := bytes.IndexAny(line[2:], "]\n")
	if hintEnd < 0 || line[2+hintEnd] != ']' {
		return nil
	}
	hint := line[2 : 2+hintEnd]
	rest := line[2+hintEnd+1:]
	if len(rest) == 0 || rest[0] != '(' {
		return nil
	}
	answerEnd := bytes.IndexAny(rest[1:], ")\n")
	if answerEnd < 0 || rest[1+answerEnd] != ')' {
		return nil
	}
	answer := rest[1 : 1+answerEnd]

	index := 0
	if v, ok := pc.Get(clozeCounterKey).(int); ok {
		index = v
	}
	pc.Set(clozeCounterKey, index+1)

	block.Advance(2 + hintEnd + 1 + 1 + answerEnd + 1)
	return &Cloze{
		Index:  index,
		Hint:   bytes.Clone(hint),
		Answer: bytes.Clone(answer),
	}
}

type hashtagParser struct{}

func (hashtagParser) Trigger() []byte {
	return []byte{'#'}
}

// Parse reads #tag. Tags start a line or follow whitespace and run over
// letters, digits, '-' and '_'.
func (hashtagParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	if prev := block.PrecendingCharacter(); prev != '\n' && !unicode.IsSpace(prev) {
		return nil
	}
	line, _ := block.PeekLine()
	n := 1
	for n < len(line) {
		r, size := utf8.DecodeRune(line[n:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			break
		}
		n += size
	}
	if n == 1 {
		return nil
	}
	tag := bytes.Clone(line[1:n])
	block.Advance(n)
	return &Hashtag{Tag: tag}
}
