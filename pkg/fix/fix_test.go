package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/commonplace/pkg/fix"
)

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edits   []fix.TextEdit
		length  int
		wantErr string
	}{
		{name: "empty edits", edits: nil, length: 10},
		{
			name: "valid edits",
			edits: []fix.TextEdit{
				{StartOffset: 0, EndOffset: 5, NewText: "hello"},
				{StartOffset: 5, EndOffset: 10, NewText: "world"},
			},
			length: 10,
		},
		{
			name:    "negative start offset",
			edits:   []fix.TextEdit{{StartOffset: -1, EndOffset: 5}},
			length:  10,
			wantErr: "start offset is negative",
		},
		{
			name:    "end before start",
			edits:   []fix.TextEdit{{StartOffset: 5, EndOffset: 3}},
			length:  10,
			wantErr: "end offset is before start offset",
		},
		{
			name:    "end exceeds length",
			edits:   []fix.TextEdit{{StartOffset: 5, EndOffset: 15}},
			length:  10,
			wantErr: "exceeds text length",
		},
		{
			name:   "insertion at the end",
			edits:  []fix.TextEdit{{StartOffset: 10, EndOffset: 10, NewText: "!"}},
			length: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateEdits(tt.edits, tt.length)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, fix.ErrInvalidEdit)
			var validation *fix.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPrepareEdits(t *testing.T) {
	t.Parallel()

	input := []fix.TextEdit{
		{StartOffset: 6, EndOffset: 11, NewText: "there"},
		{StartOffset: 0, EndOffset: 5, NewText: "hi"},
	}
	prepared, err := fix.PrepareEdits(input, 11)
	require.NoError(t, err)
	require.Len(t, prepared, 2)
	assert.Equal(t, 0, prepared[0].StartOffset)
	assert.Equal(t, 6, input[0].StartOffset, "input must not be reordered")

	descending := fix.Descending(prepared)
	assert.Equal(t, 6, descending[0].StartOffset)
	assert.Equal(t, 0, prepared[0].StartOffset)

	prepared, err = fix.PrepareEdits(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, prepared)
}

func TestPrepareEdits_Conflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edits []fix.TextEdit
	}{
		{"overlapping", []fix.TextEdit{{StartOffset: 0, EndOffset: 5}, {StartOffset: 3, EndOffset: 7}}},
		{"same insertion point", []fix.TextEdit{
			{StartOffset: 2, EndOffset: 2, NewText: "a"},
			{StartOffset: 2, EndOffset: 2, NewText: "b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := fix.PrepareEdits(tt.edits, 10)
			var conflict *fix.ConflictError
			require.ErrorAs(t, err, &conflict)
			require.ErrorIs(t, err, fix.ErrInvalidEdit)
		})
	}

	_, err := fix.PrepareEdits([]fix.TextEdit{
		{StartOffset: 0, EndOffset: 2, NewText: "XX"},
		{StartOffset: 2, EndOffset: 4, NewText: "YY"},
	}, 4)
	require.NoError(t, err, "adjacent edits do not conflict")
}

func TestTextEdit_UnitsAndDelta(t *testing.T) {
	t.Parallel()

	edit := fix.TextEdit{StartOffset: 1, EndOffset: 4, NewText: "😀"}
	assert.Len(t, edit.Units(), 2)
	assert.Equal(t, -1, edit.Delta())
	assert.Equal(t, `[1:4]"😀"`, edit.String())
}

func TestParseTextEdit(t *testing.T) {
	t.Parallel()

	edit, err := fix.ParseTextEdit("5:10:a:b")
	require.NoError(t, err)
	assert.Equal(t, fix.TextEdit{StartOffset: 5, EndOffset: 10, NewText: "a:b"}, edit)

	edit, err = fix.ParseTextEdit("0:3:")
	require.NoError(t, err)
	assert.Empty(t, edit.NewText)

	for _, bad := range []string{"", "1:2", "x:2:a", "1:y:a"} {
		_, err := fix.ParseTextEdit(bad)
		require.ErrorIs(t, err, fix.ErrInvalidEdit, bad)
	}
}

func TestEditBuilder(t *testing.T) {
	t.Parallel()

	b := fix.NewEditBuilder().Insert(0, "a").Delete(1, 2).ReplaceRange(3, 4, "c")
	require.Len(t, b.Edits, 3)
	assert.Equal(t, fix.TextEdit{StartOffset: 1, EndOffset: 2}, b.Edits[1])
}

func FuzzPrepareEdits(f *testing.F) {
	f.Add("0:1:x", "3:3:y", 5)
	f.Add("2:4:", "0:1:z", 4)
	f.Add("1:1:a", "1:1:b", 2)

	f.Fuzz(func(t *testing.T, a, b string, length int) {
		ea, errA := fix.ParseTextEdit(a)
		eb, errB := fix.ParseTextEdit(b)
		if errA != nil || errB != nil || length < 0 {
			return
		}
		prepared, err := fix.PrepareEdits([]fix.TextEdit{ea, eb}, length)
		if err != nil {
			return
		}
		for i := 1; i < len(prepared); i++ {
			if prepared[i].StartOffset < prepared[i-1].EndOffset {
				t.Fatalf("overlap survived: %v", prepared)
			}
		}
	})
}
