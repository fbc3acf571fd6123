package document_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/document"
	"github.com/yaklabco/commonplace/pkg/fix"
	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/piecetable"
	"github.com/yaklabco/commonplace/pkg/projection"
	"github.com/yaklabco/commonplace/pkg/reparse"
)

type recorder struct {
	events  []string
	pending []document.Pending
	changes []document.Change
}

func (r *recorder) WillChange(_ *document.Document, p document.Pending) {
	r.events = append(r.events, "will")
	r.pending = append(r.pending, p)
}

func (r *recorder) DidChange(_ *document.Document, c document.Change) {
	r.events = append(r.events, "did")
	r.changes = append(r.changes, c)
}

func newDoc(t *testing.T, text string, opts ...document.Option) *document.Document {
	t.Helper()
	opts = append([]document.Option{document.WithLogger(logging.Discard())}, opts...)
	doc, err := document.New(text, opts...)
	require.NoError(t, err)
	return doc
}

func hidden() document.Option {
	return document.WithReplacements(markdown.HideDelimiters())
}

func TestDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	text := "# Title #tag\n\n- one\n- **two**\n\nQ: a?\nA: b\n\n?[h](x)"
	doc := newDoc(t, text)
	assert.Equal(t, text, doc.RawString())
	assert.Equal(t, text, doc.VisibleString())
	assert.Equal(t, doc.RawLen(), doc.VisibleLen())
	require.NoError(t, doc.ParseErr())
}

func TestDocument_ClosingStrongWidensAttributes(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, "Hello **world*")
	assert.Equal(t, "(document (paragraph text (emphasis delimiter text delimiter)))", doc.Tree().CompactStructure())

	rec := &recorder{}
	doc.AddObserver(rec)
	require.NoError(t, doc.ReplaceCharacters(mdast.Range{Start: 14, End: 14}, "*"))

	assert.Equal(t, "(document (paragraph text (strong_emphasis delimiter text delimiter)))", doc.Tree().CompactStructure())
	require.Equal(t, []string{"will", "did"}, rec.events)
	assert.Equal(t, mdast.Range{Start: 14, End: 14}, rec.pending[0].Visible)

	change := rec.changes[0]
	assert.Equal(t, mdast.Range{Start: 14, End: 15}, change.EditedRange)
	assert.Equal(t, 1, change.ChangeInLength)
	assert.LessOrEqual(t, change.EditedAttributesRange.Start, 6)
	assert.GreaterOrEqual(t, change.EditedAttributesRange.End, 15)

	attrs, _, err := doc.Attributes(9)
	require.NoError(t, err)
	assert.True(t, attrs.Bold)
	assert.False(t, attrs.Italic)
}

func TestDocument_EditsThroughHiddenDelimiters(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, "a **b** c", hidden())
	require.Equal(t, "a b c", doc.VisibleString())

	rec := &recorder{}
	doc.AddObserver(rec)
	require.NoError(t, doc.ReplaceCharacters(mdast.Range{Start: 2, End: 3}, "XY"))

	assert.Equal(t, "a **XY** c", doc.RawString())
	assert.Equal(t, "a XY c", doc.VisibleString())
	require.Len(t, rec.changes, 1)
	assert.Equal(t, mdast.Range{Start: 2, End: 4}, rec.changes[0].EditedRange)
	assert.Equal(t, 1, rec.changes[0].ChangeInLength)
	assert.Equal(t, mdast.Range{Start: 4, End: 5}, rec.pending[0].Raw)

	attrs, run, err := doc.VisibleAttributes(3)
	require.NoError(t, err)
	assert.True(t, attrs.Bold)
	assert.Equal(t, mdast.Range{Start: 2, End: 4}, run)

	_, _, err = doc.VisibleAttributes(6)
	require.ErrorIs(t, err, projection.ErrCoordinate)
}

func TestDocument_ObserverRemoval(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, "abc")
	rec := &recorder{}
	remove := doc.AddObserver(rec)
	require.NoError(t, doc.ReplaceRaw(mdast.Range{Start: 0, End: 1}, "A"))
	remove()
	require.NoError(t, doc.ReplaceRaw(mdast.Range{Start: 1, End: 2}, "B"))

	assert.Equal(t, "ABc", doc.RawString())
	assert.Len(t, rec.changes, 1)
}

func TestDocument_RejectsReentrantEdits(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, "abc")
	var inner error
	doc.AddObserver(document.ObserverFuncs{
		DidChangeFunc: func(d *document.Document, _ document.Change) {
			inner = d.ReplaceRaw(mdast.Range{Start: 0, End: 0}, "x")
		},
	})

	require.NoError(t, doc.ReplaceRaw(mdast.Range{Start: 3, End: 3}, "d"))
	require.ErrorIs(t, inner, reparse.ErrReentrantEdit)
	assert.Equal(t, "abcd", doc.RawString())
}

func TestDocument_ApplyEdits(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, "one two three")
	rec := &recorder{}
	doc.AddObserver(rec)

	edits := fix.NewEditBuilder().
		ReplaceRange(8, 13, "3").
		ReplaceRange(0, 3, "1").
		Edits
	require.NoError(t, doc.ApplyEdits(edits))
	assert.Equal(t, "1 two 3", doc.RawString())
	assert.Equal(t, []string{"will", "did"}, rec.events)
	assert.Equal(t, mdast.Range{Start: 0, End: 13}, rec.pending[0].Raw)
	assert.Equal(t, -6, rec.changes[0].ChangeInLength)

	err := doc.ApplyEdits([]fix.TextEdit{{StartOffset: 0, EndOffset: 3}, {StartOffset: 2, EndOffset: 4}})
	var conflict *fix.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "1 two 3", doc.RawString())
	assert.Len(t, rec.events, 2)

	require.NoError(t, doc.ApplyEdits(nil))
	assert.Len(t, rec.events, 2)
}

func TestDocument_ReplaceVisibleMapsWholeBatchFirst(t *testing.T) {
	t.Parallel()

	// Closing the emphasis hides the "*" at raw offset 2, which would move
	// the second edit if the edits were mapped one at a time.
	doc := newDoc(t, "x *a b", hidden())
	require.Equal(t, "x *a b", doc.VisibleString())
	rec := &recorder{}
	doc.AddObserver(rec)

	require.NoError(t, doc.ReplaceVisible([]fix.TextEdit{
		{StartOffset: 6, EndOffset: 6, NewText: "*"},
		{StartOffset: 3, EndOffset: 4, NewText: "Z"},
	}))
	assert.Equal(t, "x *Z b*", doc.RawString())
	assert.Equal(t, "x Z b", doc.VisibleString())
	assert.Equal(t, []string{"will", "did"}, rec.events)

	err := doc.ReplaceVisible([]fix.TextEdit{{StartOffset: 0, EndOffset: 9}})
	require.ErrorIs(t, err, fix.ErrInvalidEdit)
	assert.Len(t, rec.events, 2)
}

func TestDocument_RejectsSplitSurrogatePairs(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, ">#😀 ")
	rec := &recorder{}
	doc.AddObserver(rec)

	err := doc.ReplaceRaw(mdast.Range{Start: 3, End: 4}, "")
	var split *document.SurrogateSplitError
	require.ErrorAs(t, err, &split)
	assert.Equal(t, 3, split.Offset)
	require.ErrorIs(t, doc.ApplyEdits([]fix.TextEdit{{StartOffset: 2, EndOffset: 3}}), document.ErrSplitSurrogate)
	require.ErrorIs(t, doc.ReplaceCharacters(mdast.Range{Start: 3, End: 3}, "x"), document.ErrSplitSurrogate)
	assert.Empty(t, rec.events)

	require.NoError(t, doc.ReplaceRaw(mdast.Range{Start: 2, End: 4}, "go"))
	assert.Equal(t, ">#go ", doc.RawString())
}

func TestDocument_Anchors(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, "# Title\n\nbody text")
	anchor, err := doc.TrackRange(mdast.Range{Start: 9, End: 13})
	require.NoError(t, err)

	require.NoError(t, doc.ReplaceRaw(mdast.Range{Start: 9, End: 9}, "new "))
	assert.Equal(t, mdast.Range{Start: 13, End: 17}, anchor.Range())
	got, err := piecetable.New(doc.RawString()).SliceString(13, 17)
	require.NoError(t, err)
	assert.Equal(t, "body", got)

	require.NoError(t, doc.ReplaceRaw(mdast.Range{Start: 17, End: 17}, "!"))
	assert.Equal(t, mdast.Range{Start: 13, End: 17}, anchor.Range(), "text at the end is not included")

	require.NoError(t, doc.ReplaceRaw(mdast.Range{Start: 14, End: 16}, ""))
	assert.Equal(t, mdast.Range{Start: 13, End: 15}, anchor.Range())

	visible, err := anchor.VisibleRange()
	require.NoError(t, err)
	assert.Equal(t, anchor.Range(), visible)

	require.NoError(t, doc.SetRawString("x"))
	assert.True(t, anchor.Collapsed())

	doc.Untrack(anchor)
	_, err = doc.TrackRange(mdast.Range{Start: 0, End: 5})
	require.ErrorIs(t, err, piecetable.ErrRange)
}

func TestDocument_SetRawString(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, "old", hidden())
	rec := &recorder{}
	doc.AddObserver(rec)

	require.NoError(t, doc.SetRawString("# New *note*"))
	assert.Equal(t, " New note", doc.VisibleString())
	require.Len(t, rec.changes, 1)
	assert.Equal(t, mdast.Range{Start: 0, End: 3}, rec.pending[0].Visible)
	assert.Equal(t, mdast.Range{Start: 0, End: 9}, rec.changes[0].EditedAttributesRange)
	assert.Equal(t, 6, rec.changes[0].ChangeInLength)
}

func TestDocument_SetReplacementsQuizzesEachCloze(t *testing.T) {
	t.Parallel()

	const text = "Yo ?[to be](soy) de España. ¿De dónde ?[to be](es) ustedes?"
	doc := newDoc(t, text)
	assert.Len(t, markdown.Clozes(doc.Tree(), doc.Source()), 2)

	require.NoError(t, doc.SetReplacements(markdown.HideCloze(0)))
	assert.Equal(t, "Yo to be de España. ¿De dónde es ustedes?", doc.VisibleString())

	rec := &recorder{}
	doc.AddObserver(rec)
	require.NoError(t, doc.SetReplacements(markdown.HideCloze(1)))
	assert.Equal(t, "Yo soy de España. ¿De dónde to be ustedes?", doc.VisibleString())
	require.Len(t, rec.changes, 1)
	assert.Equal(t, 1, rec.changes[0].ChangeInLength)
	assert.Equal(t, 3, rec.changes[0].EditedRange.Start)
}

func TestDocument_RangeErrors(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, "abc")
	require.ErrorIs(t, doc.ReplaceRaw(mdast.Range{Start: 2, End: 4}, ""), piecetable.ErrRange)
	require.ErrorIs(t, doc.ReplaceCharacters(mdast.Range{Start: 0, End: 9}, ""), projection.ErrCoordinate)
	require.ErrorIs(t, doc.ApplyEdits([]fix.TextEdit{{StartOffset: 1, EndOffset: 8}}), fix.ErrInvalidEdit)
	assert.Equal(t, "abc", doc.RawString())
}

func TestDocument_VisibleTextIsAFunctionOfRawText(t *testing.T) {
	t.Parallel()

	opts := []document.Option{document.WithReplacements(markdown.RenderOptions{
		HideDelimiters: true, SubstituteTabs: true, ShowImages: true, HideCloze: 0,
	}.Replacements())}
	doc := newDoc(t, "", opts...)

	pieces := []string{"*", "**", "`", "# ", "- ", "\n", "\n\n", "?[a](b)", "![i](p)", "word", " ", "> ", "Q: ", "A: "}
	rng := rand.New(rand.NewSource(5)) //nolint:gosec // Deterministic test data.
	for range 200 {
		length := doc.VisibleLen()
		lo := rng.Intn(length + 1)
		hi := lo + rng.Intn(min(2, length-lo)+1)

		rec := &recorder{}
		remove := doc.AddObserver(rec)
		require.NoError(t, doc.ReplaceCharacters(mdast.Range{Start: lo, End: hi}, pieces[rng.Intn(len(pieces))]))
		remove()

		fresh := newDoc(t, doc.RawString(), opts...)
		require.Equal(t, fresh.VisibleString(), doc.VisibleString(), "raw %q", doc.RawString())

		change := rec.changes[0]
		assert.LessOrEqual(t, change.EditedAttributesRange.Start, change.EditedRange.Start)
		assert.GreaterOrEqual(t, change.EditedAttributesRange.End, change.EditedRange.End)
	}
}
