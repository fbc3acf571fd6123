package packrat_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/packrat"
	"github.com/yaklabco/commonplace/pkg/piecetable"
)

//nolint:gochecknoglobals // Test-only node types.
var (
	testEmphasis = mdast.NewNodeType("test_emphasis")
	testMarker   = mdast.NewNodeType("test_marker")
)

// testGrammar is a tiny line-oriented grammar: paragraphs of text with
// *emphasis*, separated by blank lines.
func testGrammar() packrat.Rule {
	emphasis := packrat.Wrap(packrat.Seq(
		packrat.As(packrat.Literal("*"), mdast.Delimiter),
		packrat.RunNot(packrat.NewCharSet("*\n"), 1),
		packrat.As(packrat.Literal("*"), mdast.Delimiter),
	), testEmphasis)

	inline := packrat.Choice(emphasis, packrat.NoneOf(packrat.NewCharSet("\n")))
	paragraph := packrat.Memoize(packrat.Wrap(packrat.Seq(
		packrat.OneOrMore(inline),
		packrat.Optional(packrat.Literal("\n")),
	), mdast.Paragraph))
	blank := packrat.Memoize(packrat.As(packrat.Literal("\n"), mdast.BlankLine))

	return packrat.Wrap(packrat.Seq(
		packrat.ZeroOrMore(packrat.Choice(blank, paragraph)),
		packrat.EndOfInput(),
	), mdast.Document)
}

func parse(t *testing.T, rule packrat.Rule, text string) *mdast.Node {
	t.Helper()
	root, err := packrat.NewParser(piecetable.New(text)).Parse(rule)
	require.NoError(t, err)
	return root
}

func TestCharSet(t *testing.T) {
	t.Parallel()

	set := packrat.NewCharSet("ab€").Union(packrat.CharRange('0', '2'))
	for _, u := range []uint16{'a', 'b', '0', '1', '2', 0x20AC} {
		assert.True(t, set.Contains(u), "unit %q", rune(u))
	}
	assert.False(t, set.Contains('c'))
	assert.False(t, set.Contains(0x20AD))
	assert.Equal(t, 6, set.Len())
	assert.True(t, packrat.CharSet{}.IsEmpty())
}

func TestChoice_IsOrdered(t *testing.T) {
	t.Parallel()

	rule := packrat.Choice(packrat.Literal("a"), packrat.Literal("ab"))
	root, err := packrat.NewParser(piecetable.New("ab")).Parse(rule)

	var consistency *packrat.GrammarConsistencyError
	require.ErrorAs(t, err, &consistency)
	assert.Equal(t, 1, consistency.Consumed)
	assert.Equal(t, 2, consistency.Length)
	assert.Equal(t, 2, root.Length)
}

func TestSeq_IsAtomic(t *testing.T) {
	t.Parallel()

	parser := packrat.NewParser(piecetable.New("ab"))
	res := packrat.Seq(packrat.Literal("a"), packrat.Literal("c")).Match(parser, 0)
	assert.False(t, res.Succeeded)
	assert.Equal(t, 0, res.Length)
	assert.Equal(t, 2, res.Examined)
}

func TestRepeat_IsGreedy(t *testing.T) {
	t.Parallel()

	parser := packrat.NewParser(piecetable.New("ababa"))
	res := packrat.ZeroOrMore(packrat.Literal("ab")).Match(parser, 0)
	require.True(t, res.Succeeded)
	assert.Equal(t, 4, res.Length)

	res = packrat.Repeat(packrat.Literal("ab"), 3, -1).Match(parser, 0)
	assert.False(t, res.Succeeded)

	res = packrat.Repeat(packrat.Literal("ab"), 0, 1).Match(parser, 0)
	assert.Equal(t, 2, res.Length)
}

func TestLookahead_ConsumesNothing(t *testing.T) {
	t.Parallel()

	parser := packrat.NewParser(piecetable.New("ab"))

	res := packrat.Assert(packrat.Literal("ab")).Match(parser, 0)
	assert.True(t, res.Succeeded)
	assert.Equal(t, 0, res.Length)
	assert.Equal(t, 2, res.Examined)

	res = packrat.Not(packrat.Literal("ab")).Match(parser, 0)
	assert.False(t, res.Succeeded)

	res = packrat.Not(packrat.Literal("b")).Match(parser, 0)
	assert.True(t, res.Succeeded)
}

func TestOpeningChars(t *testing.T) {
	t.Parallel()

	set, ok := packrat.Seq(packrat.Optional(packrat.Literal("-")), packrat.Literal("x")).OpeningChars()
	require.True(t, ok)
	assert.Equal(t, []uint16{'-', 'x'}, set.Units())

	_, ok = packrat.Seq(packrat.Not(packrat.Literal("-")), packrat.Literal("x")).OpeningChars()
	assert.False(t, ok)

	set, ok = packrat.Choice(packrat.Literal("#"), packrat.Literal("- ")).OpeningChars()
	require.True(t, ok)
	assert.Equal(t, []uint16{'#', '-'}, set.Units())

	assert.True(t, packrat.ZeroOrMore(packrat.Literal("a")).Nullable())
	assert.False(t, packrat.OneOrMore(packrat.Literal("a")).Nullable())
}

func TestChoice_SkipsAlternativesByOpeningChar(t *testing.T) {
	t.Parallel()

	rule := packrat.Choice(packrat.Literal("#"), packrat.Literal(">"), packrat.Any())
	parser := packrat.NewParser(piecetable.New("x"))
	res := rule.Match(parser, 0)
	require.True(t, res.Succeeded)
	assert.Equal(t, 2, parser.Stats().Skipped)
}

func TestForward_Recursion(t *testing.T) {
	t.Parallel()

	// nested = "(" nested? ")"
	nested := packrat.Forward("nested")
	nested.Set(packrat.Seq(packrat.Literal("("), packrat.Optional(nested), packrat.Literal(")")))

	parser := packrat.NewParser(piecetable.New("((()))"))
	res := nested.Match(parser, 0)
	require.True(t, res.Succeeded)
	assert.Equal(t, 6, res.Length)

	set, ok := nested.OpeningChars()
	require.True(t, ok)
	assert.Equal(t, []uint16{'('}, set.Units())
}

func TestWrap_CoalescesAdjacentLeaves(t *testing.T) {
	t.Parallel()

	rule := packrat.Wrap(packrat.Seq(
		packrat.As(packrat.Literal("a"), testMarker),
		packrat.As(packrat.Literal("a"), testMarker),
		packrat.Literal("b"),
		packrat.Literal("c"),
	), mdast.Document)

	root := parse(t, rule, "aabc")
	assert.Equal(t, "(document test_marker text)", root.CompactStructure())
	assert.Equal(t, 2, root.Children[0].Length)
	assert.Equal(t, 2, root.Children[1].Length)
}

func TestParse_Structure(t *testing.T) {
	t.Parallel()

	root := parse(t, testGrammar(), "a *b* c\n\nd")
	assert.Equal(t,
		"(document (paragraph text (test_emphasis delimiter text delimiter) text) blank_line (paragraph text))",
		root.CompactStructure())
	assert.Equal(t, 10, root.Length)
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	root := parse(t, testGrammar(), "")
	assert.Equal(t, mdast.Document, root.Type)
	assert.Equal(t, 0, root.Length)
	assert.Empty(t, root.Children)
}

func TestParse_DegradesOnInconsistentGrammar(t *testing.T) {
	t.Parallel()

	rule := packrat.Wrap(packrat.ZeroOrMore(packrat.Literal("a")), mdast.Document)
	root, err := packrat.NewParser(piecetable.New("aab")).Parse(rule)

	require.ErrorIs(t, err, packrat.ErrGrammarConsistency)
	assert.Equal(t, 3, root.Length)
	assert.Equal(t, "(document text)", root.CompactStructure())
}

func TestMemoize_Hits(t *testing.T) {
	t.Parallel()

	word := packrat.Memoize(packrat.Literal("a"))
	rule := packrat.Choice(
		packrat.Seq(word, packrat.Literal("x")),
		packrat.Seq(word, packrat.Literal("y")),
	)

	parser := packrat.NewParser(piecetable.New("ay"))
	res := rule.Match(parser, 0)
	require.True(t, res.Succeeded)
	assert.Equal(t, packrat.Stats{Hits: 1, Misses: 1}, parser.Stats())
	assert.Equal(t, 1, parser.Memo().Len())
}

func TestApplyEdit_ReusesUntouchedBlocks(t *testing.T) {
	t.Parallel()

	grammar := testGrammar()
	table := piecetable.New("aa\nbb\ncc")
	parser := packrat.NewParser(table)

	before, err := parser.Parse(grammar)
	require.NoError(t, err)
	require.Len(t, before.Children, 3)

	require.NoError(t, table.ReplaceString(3, 5, "bbb"))
	parser.ApplyEdit(3, 5, 3)

	after, err := parser.Parse(grammar)
	require.NoError(t, err)
	require.Len(t, after.Children, 3)

	assert.Same(t, before.Children[0], after.Children[0])
	assert.NotSame(t, before.Children[1], after.Children[1])
	assert.Same(t, before.Children[2], after.Children[2])
	assert.Equal(t, 4, after.Children[1].Length)
}

func TestApplyEdit_ConservativeReparsesTail(t *testing.T) {
	t.Parallel()

	grammar := testGrammar()
	table := piecetable.New("aa\nbb\ncc")
	parser := packrat.NewParser(table, packrat.WithPolicy(packrat.PolicyConservative))

	before, err := parser.Parse(grammar)
	require.NoError(t, err)

	require.NoError(t, table.ReplaceString(3, 5, "bbb"))
	parser.ApplyEdit(3, 5, 3)

	after, err := parser.Parse(grammar)
	require.NoError(t, err)

	assert.Same(t, before.Children[0], after.Children[0])
	assert.NotSame(t, before.Children[2], after.Children[2])
	assert.True(t, mdast.Equal(before.Children[2], after.Children[2]))
}

func TestApplyEdit_DropsEntriesThatLookedAtTheEdit(t *testing.T) {
	t.Parallel()

	grammar := testGrammar()
	table := piecetable.New("aa")
	parser := packrat.NewParser(table)

	_, err := parser.Parse(grammar)
	require.NoError(t, err)

	// The paragraph "aa" peeked at end of input, so appending must
	// extend it rather than reuse it.
	require.NoError(t, table.ReplaceString(2, 2, "a"))
	parser.ApplyEdit(2, 2, 1)

	after, err := parser.Parse(grammar)
	require.NoError(t, err)
	require.Len(t, after.Children, 1)
	assert.Equal(t, 3, after.Children[0].Length)
}

func TestIncrementalParse_MatchesFreshParse(t *testing.T) {
	t.Parallel()

	alphabet := []string{"a", "b", " ", "*", "\n", "\n\n"}
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // Deterministic test data.

	for _, policy := range []packrat.Policy{packrat.PolicyPrecise, packrat.PolicyConservative} {
		grammar := testGrammar()
		table := piecetable.New("a *b*\n\nc")
		parser := packrat.NewParser(table, packrat.WithPolicy(policy))

		for step := range 300 {
			lo := rng.Intn(table.Len() + 1)
			hi := lo + rng.Intn(min(3, table.Len()-lo)+1)
			text := ""
			if rng.Intn(4) != 0 {
				text = alphabet[rng.Intn(len(alphabet))]
			}

			require.NoError(t, table.ReplaceString(lo, hi, text))
			parser.ApplyEdit(lo, hi, len(piecetable.Encode(text)))

			incremental, err := parser.Parse(grammar)
			require.NoError(t, err)
			fresh := parse(t, grammar, table.String())

			require.True(t, mdast.Equal(fresh, incremental),
				"policy %s step %d text %q:\nfresh       %s\nincremental %s",
				policy, step, table.String(), fresh.CompactStructure(), incremental.CompactStructure())
		}
	}
}
