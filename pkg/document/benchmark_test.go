package document_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/document"
	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/packrat"
	"github.com/yaklabco/commonplace/pkg/piecetable"
)

func largeNote() string {
	var sb strings.Builder
	sb.WriteString("# Verbs #spanish\n\ntl;dr: ser and estar\n\n")
	for range 200 {
		sb.WriteString("Q: When is **ser** used?\nA: For *permanent* traits.\n\n")
		sb.WriteString("- Yo ?[to be](soy) alto.\n- Ella ?[to be](está) cansada. `estar`\n\n")
	}
	return sb.String()
}

// Benchmark a full parse of a large note.
func BenchmarkParse(b *testing.B) {
	text := largeNote()
	grammar := markdown.Grammar()

	b.ResetTimer()
	for range b.N {
		if _, err := packrat.NewParser(piecetable.New(text)).Parse(grammar); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark typing one character in the middle of a large note.
func BenchmarkEdit(b *testing.B) {
	doc, err := document.New(largeNote(),
		document.WithLogger(logging.Discard()),
		document.WithReplacements(markdown.HideDelimiters()))
	if err != nil {
		b.Fatal(err)
	}
	mid := doc.VisibleLen() / 2

	b.ResetTimer()
	for i := range b.N {
		text := "x"
		r := mdast.Range{Start: mid, End: mid}
		if i%2 == 1 {
			text = ""
			r.End = mid + 1
		}
		if err := doc.ReplaceCharacters(r, text); err != nil {
			b.Fatal(err)
		}
	}
}
