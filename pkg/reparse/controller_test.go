package reparse_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/packrat"
	"github.com/yaklabco/commonplace/pkg/piecetable"
	"github.com/yaklabco/commonplace/pkg/reparse"
)

func newController(text string, opts ...reparse.Option) *reparse.Controller {
	opts = append([]reparse.Option{reparse.WithLogger(logging.Discard())}, opts...)
	return reparse.New(piecetable.New(text), markdown.Grammar(), opts...)
}

func TestController_States(t *testing.T) {
	t.Parallel()

	c := newController("# Title")
	assert.Equal(t, reparse.Unparsed, c.State())
	assert.Equal(t, "unparsed", c.State().String())

	root := c.Tree()
	require.NotNil(t, root)
	assert.Equal(t, reparse.Parsed, c.State())
	require.NoError(t, c.Err())
	assert.Same(t, root, c.Tree())
}

func TestController_BufferEditExample(t *testing.T) {
	t.Parallel()

	c := newController("")
	_, err := c.ReplaceString(0, 0, "Hello world")
	require.NoError(t, err)
	update, err := c.ReplaceString(5, 5, ",")
	require.NoError(t, err)

	assert.Equal(t, "Hello, world", c.Buffer().String())
	assert.Equal(t, mdast.Range{Start: 5, End: 6}, update.Edited)
	assert.Equal(t, 1, update.Delta)
	assert.Equal(t, c.Buffer().Len(), update.New.Length)
}

func TestController_EditingTextKeepsHeadingIdentity(t *testing.T) {
	t.Parallel()

	c := newController("# Heading\n\nsome text")
	before := c.Tree()
	heading := before.Children[0]
	require.Equal(t, markdown.Header, heading.Type)

	update, err := c.ReplaceString(20, 20, " and more")
	require.NoError(t, err)
	assert.Same(t, heading, update.New.Children[0])
	assert.Same(t, before, update.Old)
	assert.Equal(t, "(document (header delimiter tab text) blank_line (paragraph text))", update.New.CompactStructure())
}

func TestController_ReportsChangedBlocks(t *testing.T) {
	t.Parallel()

	c := newController("# A\n\nfirst\n\nsecond")
	old := c.Tree()

	update, err := c.ReplaceString(5, 10, "FIRST!")
	require.NoError(t, err)

	// The blank line before "first" looked at its first character, so it is
	// rebuilt along with the paragraph.
	require.Len(t, update.Changes, 1)
	assert.Equal(t, mdast.Range{Start: 4, End: 11}, update.Changes[0].Old)
	assert.Equal(t, mdast.Range{Start: 4, End: 12}, update.Changes[0].New)
	assert.Same(t, old.Children[0], update.New.Children[0])
	assert.Same(t, old.Children[4], update.New.Children[4])
}

func TestController_RangeErrorLeavesBufferAlone(t *testing.T) {
	t.Parallel()

	c := newController("abc")
	tree := c.Tree()

	_, err := c.ReplaceString(2, 9, "x")
	require.ErrorIs(t, err, piecetable.ErrRange)
	var rangeErr *piecetable.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 3, rangeErr.Length)

	_, err = c.ReplaceString(2, 1, "x")
	require.ErrorIs(t, err, piecetable.ErrRange)

	assert.Equal(t, "abc", c.Buffer().String())
	assert.Same(t, tree, c.Tree())
}

func TestController_ApplyBatch(t *testing.T) {
	t.Parallel()

	c := newController("a b c")
	update, err := c.Apply(
		reparse.Edit{Lo: 4, Hi: 5, Units: piecetable.Encode("CC")},
		reparse.Edit{Lo: 0, Hi: 1, Units: piecetable.Encode("A")},
	)
	require.NoError(t, err)
	assert.Equal(t, "A b CC", c.Buffer().String())
	assert.Equal(t, mdast.Range{Start: 0, End: 6}, update.Edited)
	assert.Equal(t, 1, update.Delta)

	_, err = c.Apply(
		reparse.Edit{Lo: 0, Hi: 1, Units: nil},
		reparse.Edit{Lo: 4, Hi: 5, Units: nil},
	)
	require.ErrorIs(t, err, reparse.ErrUnsortedEdits)
	assert.Equal(t, "A b CC", c.Buffer().String())
}

func TestController_Reset(t *testing.T) {
	t.Parallel()

	c := newController("old text")
	c.Tree()

	update, err := c.Reset(piecetable.Encode("# New\n"))
	require.NoError(t, err)
	assert.Equal(t, "# New\n", c.Buffer().String())
	assert.Equal(t, -2, update.Delta)
	require.Len(t, update.Changes, 1)
	assert.Equal(t, mdast.Range{Start: 0, End: 6}, update.Changes[0].New)
}

func TestController_DegradesOnGrammarFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)
	c := reparse.New(piecetable.New("xyz"), packrat.Literal("x"), reparse.WithLogger(logger))

	root := c.Parse()
	assert.Equal(t, reparse.ParseFailed, c.State())
	require.ErrorIs(t, c.Err(), packrat.ErrGrammarConsistency)
	assert.Equal(t, 3, root.Length)
	assert.Contains(t, buf.String(), "grammar did not consume")

	_, err := c.ReplaceString(0, 3, "x")
	require.NoError(t, err)
	assert.Equal(t, reparse.Parsed, c.State())
	require.NoError(t, c.Err())
}

func TestController_IncrementalMatchesFresh(t *testing.T) {
	t.Parallel()

	for _, policy := range []packrat.Policy{packrat.PolicyPrecise, packrat.PolicyConservative} {
		t.Run(policy.String(), func(t *testing.T) {
			t.Parallel()

			c := newController("", reparse.WithPolicy(policy))
			pieces := []string{"# ", "*", "**", "`", "\n", "\n\n", "- ", "1. ", "> ", "?[h](a)", "Q: ", "A: ", "word ", "#tag "}
			rng := rand.New(rand.NewSource(11)) //nolint:gosec // Deterministic test data.

			for range 150 {
				length := c.Buffer().Len()
				lo := rng.Intn(length + 1)
				hi := lo + rng.Intn(min(3, length-lo)+1)
				_, err := c.ReplaceString(lo, hi, pieces[rng.Intn(len(pieces))])
				require.NoError(t, err)

				fresh, err := packrat.NewParser(c.Buffer()).Parse(markdown.Grammar())
				require.NoError(t, err)
				require.True(t, mdast.Equal(fresh, c.Tree()), "text %q", c.Buffer().String())
			}
		})
	}
}

func TestController_VerifyAgreesWithIncremental(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	c := newController("# A\n\n*b* c", reparse.WithVerify(true), reparse.WithLogger(logger))
	c.Tree()

	_, err := c.ReplaceString(8, 8, "*")
	require.NoError(t, err)
	_, err = c.ReplaceString(0, 1, "")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "reparsed")
	assert.NotContains(t, buf.String(), "mismatch")
	assert.Positive(t, c.Stats().Hits)
}
