package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/runner"
)

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "/notes/go.md", Note: &runner.Note{
				Title:    "Go",
				Hashtags: []string{"lang", "go"},
				Cards:    []markdown.Card{{Question: "q", Answer: "a"}},
				Clozes:   []markdown.ClozeSpan{{Answer: "x"}, {Answer: "y"}},
			}},
			{Path: "/notes/rust.md", Note: &runner.Note{
				Title:    "Rust",
				Hashtags: []string{"lang"},
				Cards:    []markdown.Card{{Question: "q", Answer: "a"}},
				Degraded: true,
			}},
			{Path: "/notes/empty.md", Note: &runner.Note{Hashtags: []string{"todo"}}},
			{Path: "/notes/locked.md", Error: errors.New("permission denied")},
		},
	}
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{WorkingDir: "/notes"})

	assert.Equal(t, Totals{
		Notes: 4, NotesWithMaterial: 2, Cards: 2, Clozes: 2,
		Tags: 2, Degraded: 1, Errored: 1,
	}, report.Totals)
	assert.Equal(t, 4, report.Totals.Items())
	assert.True(t, report.Totals.HasErrors())
	assert.Equal(t, []NoteError{{Path: "locked.md", Message: "permission denied"}}, report.Errors)
	assert.Nil(t, report.ByNote)
	assert.Nil(t, report.ByTag)
	assert.Equal(t, ReportVersion, report.Version)
}

func TestAnalyze_ByNoteAndTag(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{
		IncludeByNote: true, IncludeByTag: true,
		SortBy: SortByCount, SortDesc: true, WorkingDir: "/notes",
	})

	require.Len(t, report.ByNote, 2)
	assert.Equal(t, "go.md", report.ByNote[0].Path)
	assert.Equal(t, 3, report.ByNote[0].Items())
	assert.Equal(t, "rust.md", report.ByNote[1].Path)
	assert.True(t, report.ByNote[1].Degraded)

	require.Len(t, report.ByTag, 2)
	assert.Equal(t, TagAnalysis{Tag: "lang", Cards: 2, Clozes: 2, Notes: []string{"go.md", "rust.md"}}, report.ByTag[0])
	assert.Equal(t, TagAnalysis{Tag: "go", Cards: 1, Clozes: 2, Notes: []string{"go.md"}}, report.ByTag[1])
}

func TestAnalyze_SortByAlpha(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), Options{IncludeByNote: true, IncludeByTag: true, SortBy: SortByAlpha})

	require.Len(t, report.ByNote, 2)
	assert.Equal(t, "/notes/go.md", report.ByNote[0].Path)
	assert.Equal(t, "go", report.ByTag[0].Tag)
	assert.Equal(t, "lang", report.ByTag[1].Tag)
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())
	assert.Equal(t, Totals{}, report.Totals)
	assert.False(t, report.Totals.HasErrors())
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SortByCount.IsValid())
	assert.True(t, SortByAlpha.IsValid())
	assert.False(t, SortField("severity").IsValid())
}
