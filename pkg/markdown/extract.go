package markdown

import (
	"strings"

	"github.com/gosimple/slug"

	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/piecetable"
	"github.com/yaklabco/commonplace/pkg/projection"
)

// ClozeSpan is one ?[hint](answer) occurrence.
type ClozeSpan struct {
	Index  int
	Range  mdast.Range
	Hint   string
	Answer string
}

// Card is a question and answer pair.
type Card struct {
	Range    mdast.Range
	Question string
	Answer   string
}

// Clozes returns every cloze in document order.
func Clozes(root *mdast.Node, source projection.Source) []ClozeSpan {
	nodes := mdast.FindByType(mdast.Anchor(root), Cloze)
	spans := make([]ClozeSpan, 0, len(nodes))
	for i, node := range nodes {
		span := ClozeSpan{Index: i, Range: node.Range()}
		if hint, ok := node.FirstChild(ClozeHint); ok {
			span.Hint = text(source, hint.Range())
		}
		if answer, ok := node.FirstChild(ClozeAnswer); ok {
			span.Answer = text(source, answer.Range())
		}
		spans = append(spans, span)
	}
	return spans
}

// QuestionAnswers returns every question and answer block in document order.
func QuestionAnswers(root *mdast.Node, source projection.Source) []Card {
	nodes := mdast.FindByType(mdast.Anchor(root), QuestionAndAnswer)
	cards := make([]Card, 0, len(nodes))
	for _, node := range nodes {
		card := Card{Range: node.Range()}
		if q, ok := node.FirstChild(Question); ok {
			card.Question = strings.TrimSpace(PlainText(q, source))
		}
		if a, ok := node.FirstChild(Answer); ok {
			card.Answer = strings.TrimSpace(PlainText(a, source))
		}
		cards = append(cards, card)
	}
	return cards
}

// Hashtags returns the distinct hashtags of the document, normalized to
// slugs, in order of first appearance.
func Hashtags(root *mdast.Node, source projection.Source) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, node := range mdast.FindByType(mdast.Anchor(root), Hashtag) {
		tag := slug.Make(strings.TrimPrefix(text(source, node.Range()), "#"))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// SummaryText returns the body of the first summary block.
func SummaryText(root *mdast.Node, source projection.Source) (string, bool) {
	summary, ok := mdast.FindFirst(mdast.Anchor(root), func(n mdast.AnchoredNode) bool {
		return n.Type() == Summary
	})
	if !ok {
		return "", false
	}
	body, ok := summary.FirstChild(SummaryBody)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(PlainText(body, source)), true
}

// Title returns the text of the first header.
func Title(root *mdast.Node, source projection.Source) (string, bool) {
	header, ok := mdast.FindFirst(mdast.Anchor(root), func(n mdast.AnchoredNode) bool {
		return n.Type() == Header
	})
	if !ok {
		return "", false
	}
	return strings.TrimSpace(PlainText(header, source)), true
}

// HeaderLevel returns the number of # characters opening a header.
func HeaderLevel(header mdast.AnchoredNode) int {
	if marker, ok := header.FirstChild(mdast.Delimiter); ok {
		return marker.Node.Length
	}
	return 0
}

// PlainText returns the raw text under node with markup delimiters and soft
// tabs removed.
func PlainText(node mdast.AnchoredNode, source projection.Source) string {
	return piecetable.Decode(appendPlain(nil, node, source))
}

func appendPlain(units []uint16, node mdast.AnchoredNode, source projection.Source) []uint16 {
	switch node.Type() {
	case mdast.Delimiter, mdast.Tab, QnADelimiter, SummaryDelimiter, ListDelimiter:
		return units
	}
	if !node.Node.IsLeaf() {
		for _, child := range node.Children() {
			units = appendPlain(units, child, source)
		}
		return units
	}
	r := node.Range()
	slice, err := source.Slice(r.Start, r.End)
	if err != nil {
		return units
	}
	return append(units, slice...)
}

func text(source projection.Source, r mdast.Range) string {
	units, err := source.Slice(r.Start, r.End)
	if err != nil {
		return ""
	}
	return piecetable.Decode(units)
}
