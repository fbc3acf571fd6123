package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/commonplace/pkg/mdast"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	a := mdast.NewLeaf(mdast.Paragraph, 4)
	b := mdast.NewLeaf(mdast.BlankLine, 1)
	c := mdast.NewLeaf(mdast.Paragraph, 6)
	cPrime := mdast.NewLeaf(mdast.Paragraph, 7)
	d := mdast.NewLeaf(mdast.Paragraph, 3)

	oldRoot := mdast.NewParent(mdast.Document, []*mdast.Node{a, b, c, d})

	tests := []struct {
		name    string
		newRoot *mdast.Node
		want    []mdast.Change
	}{
		{
			name:    "identical root",
			newRoot: oldRoot,
			want:    nil,
		},
		{
			name:    "one block replaced",
			newRoot: mdast.NewParent(mdast.Document, []*mdast.Node{a, b, cPrime, d}),
			want: []mdast.Change{
				{Old: mdast.Range{Start: 5, End: 11}, New: mdast.Range{Start: 5, End: 12}},
			},
		},
		{
			name:    "block deleted",
			newRoot: mdast.NewParent(mdast.Document, []*mdast.Node{a, b, d}),
			want: []mdast.Change{
				{Old: mdast.Range{Start: 5, End: 11}, New: mdast.Range{Start: 5, End: 5}},
			},
		},
		{
			name:    "all reused, same shape",
			newRoot: mdast.NewParent(mdast.Document, []*mdast.Node{a, b, c, d}),
			want:    nil,
		},
		{
			name:    "two separate changes around a reused block",
			newRoot: mdast.NewParent(mdast.Document, []*mdast.Node{a, cPrime, b, mdast.NewLeaf(mdast.Text, 2), d}),
			want: []mdast.Change{
				{Old: mdast.Range{Start: 4, End: 11}, New: mdast.Range{Start: 4, End: 11}},
				{Old: mdast.Range{Start: 4, End: 11}, New: mdast.Range{Start: 12, End: 14}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mdast.Diff(oldRoot, tt.newRoot))
		})
	}
}

func TestDiff_NilOld(t *testing.T) {
	t.Parallel()

	root := mdast.NewParent(mdast.Document, []*mdast.Node{mdast.NewLeaf(mdast.Text, 5)})
	assert.Equal(t, []mdast.Range{{Start: 0, End: 5}}, mdast.ChangedRanges(nil, root))
}
