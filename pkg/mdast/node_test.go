package mdast_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/commonplace/pkg/mdast"
)

//nolint:gochecknoglobals // Test-only node types.
var (
	testHeader   = mdast.NewNodeType("test_header")
	testEmphasis = mdast.NewNodeType("test_emphasis")
)

// buildTestTree builds "# Hi\nA *b*" as:
//
//	document
//	  test_header (delimiter tab text)
//	  paragraph (text test_emphasis(delimiter text delimiter))
func buildTestTree() *mdast.Node {
	header := mdast.NewParent(testHeader, []*mdast.Node{
		mdast.NewLeaf(mdast.Delimiter, 1),
		mdast.NewLeaf(mdast.Tab, 1),
		mdast.NewLeaf(mdast.Text, 3),
	})
	emphasis := mdast.NewParent(testEmphasis, []*mdast.Node{
		mdast.NewLeaf(mdast.Delimiter, 1),
		mdast.NewLeaf(mdast.Text, 1),
		mdast.NewLeaf(mdast.Delimiter, 1),
	})
	paragraph := mdast.NewParent(mdast.Paragraph, []*mdast.Node{
		mdast.NewLeaf(mdast.Text, 2),
		emphasis,
	})
	return mdast.NewParent(mdast.Document, []*mdast.Node{header, paragraph})
}

func TestNewNodeType_Idempotent(t *testing.T) {
	t.Parallel()

	first := mdast.NewNodeType("test_idempotent")
	second := mdast.NewNodeType("test_idempotent")
	assert.Equal(t, first, second)
	assert.Equal(t, "test_idempotent", first.String())

	found, ok := mdast.LookupNodeType("test_idempotent")
	require.True(t, ok)
	assert.Equal(t, first, found)
}

func TestNode_LengthIsSumOfChildren(t *testing.T) {
	t.Parallel()

	root := buildTestTree()
	assert.Equal(t, 10, root.Length)
	assert.Equal(t, 5, root.Children[0].Length)
	assert.Equal(t, 5, root.Children[1].Length)
}

func TestNode_CompactStructure(t *testing.T) {
	t.Parallel()

	got := buildTestTree().CompactStructure()
	want := "(document (test_header delimiter tab text) (paragraph text (test_emphasis delimiter text delimiter)))"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("compact structure mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "text", mdast.NewLeaf(mdast.Text, 4).CompactStructure())
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, mdast.Equal(buildTestTree(), buildTestTree()))

	other := buildTestTree()
	other.Children[1].Children[0] = mdast.NewLeaf(mdast.Text, 3)
	assert.False(t, mdast.Equal(buildTestTree(), other))
	assert.False(t, mdast.Equal(nil, buildTestTree()))
}

func TestAnchoredNode_Children(t *testing.T) {
	t.Parallel()

	root := mdast.Anchor(buildTestTree())
	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, mdast.Range{Start: 0, End: 5}, children[0].Range())
	assert.Equal(t, mdast.Range{Start: 5, End: 10}, children[1].Range())

	emphasis, ok := children[1].FirstChild(testEmphasis)
	require.True(t, ok)
	assert.Equal(t, mdast.Range{Start: 7, End: 10}, emphasis.Range())
}

func TestAnchoredNode_PathTo(t *testing.T) {
	t.Parallel()

	root := mdast.Anchor(buildTestTree())

	path := root.PathTo(8)
	types := make([]string, 0, len(path))
	for _, node := range path {
		types = append(types, node.Type().String())
	}
	assert.Equal(t, []string{"document", "paragraph", "test_emphasis", "text"}, types)
	assert.Equal(t, 8, path[len(path)-1].Start)

	end := root.PathTo(10)
	require.NotEmpty(t, end)
	assert.Equal(t, mdast.Delimiter, end[len(end)-1].Type())

	assert.Nil(t, root.PathTo(11))
}

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()

	var visited []string
	err := mdast.Walk(mdast.Anchor(buildTestTree()), func(n mdast.AnchoredNode) error {
		visited = append(visited, n.Type().String())
		return nil
	})
	require.NoError(t, err)

	want := []string{
		"document", "test_header", "delimiter", "tab", "text",
		"paragraph", "text", "test_emphasis", "delimiter", "text", "delimiter",
	}
	assert.Equal(t, want, visited)
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("stop")
	count := 0
	err := mdast.Walk(mdast.Anchor(buildTestTree()), func(_ mdast.AnchoredNode) error {
		count++
		if count == 3 {
			return sentinel
		}
		return nil
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, count)
}

func TestWalkWithContext_EnterLeave(t *testing.T) {
	t.Parallel()

	var events []string
	err := mdast.WalkWithContext(mdast.Anchor(buildTestTree().Children[0]),
		func(n mdast.AnchoredNode) error {
			events = append(events, "+"+n.Type().String())
			return nil
		},
		func(n mdast.AnchoredNode) error {
			events = append(events, "-"+n.Type().String())
			return nil
		})
	require.NoError(t, err)

	want := []string{"+test_header", "+delimiter", "-delimiter", "+tab", "-tab", "+text", "-text", "-test_header"}
	assert.Equal(t, want, events)
}

func TestFindByType(t *testing.T) {
	t.Parallel()

	root := mdast.Anchor(buildTestTree())
	delimiters := mdast.FindByType(root, mdast.Delimiter)
	require.Len(t, delimiters, 3)
	assert.Equal(t, []int{0, 7, 9}, []int{delimiters[0].Start, delimiters[1].Start, delimiters[2].Start})

	first, ok := mdast.FindFirst(root, func(n mdast.AnchoredNode) bool { return n.Type() == mdast.Paragraph })
	require.True(t, ok)
	assert.Equal(t, 5, first.Start)

	_, ok = mdast.FindFirst(root, func(n mdast.AnchoredNode) bool { return n.Type() == mdast.BlankLine })
	assert.False(t, ok)
}

func TestBuildLines_LineAt(t *testing.T) {
	t.Parallel()

	index := mdast.BuildLines([]uint16{'a', 'b', '\r', '\n', 'c', '\n'})
	assert.Equal(t, 3, index.LineCount())

	first, ok := index.Line(1)
	require.True(t, ok)
	assert.Equal(t, mdast.LineInfo{StartOffset: 0, NewlineStart: 2, EndOffset: 4}, first)

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{3, 1, 4},
		{4, 2, 1},
		{6, 3, 1},
		{7, 0, 0},
	}
	for _, tt := range tests {
		line, column := index.LineAt(tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, column, "offset %d", tt.offset)
	}
}
