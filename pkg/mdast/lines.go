package mdast

import "sort"

// LineInfo holds metadata for a single line of UTF-16 text.
type LineInfo struct {
	// StartOffset is the unit index of the line start.
	StartOffset int

	// NewlineStart is the unit index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the unit index just after the newline (or end of text).
	EndOffset int
}

// LineIndex converts between unit offsets and 1-based line/column positions.
type LineIndex struct {
	lines  []LineInfo
	length int
}

// BuildLines constructs line metadata from UTF-16 content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(units []uint16) *LineIndex {
	index := &LineIndex{length: len(units)}
	if len(units) == 0 {
		return index
	}

	lineStart := 0
	for idx, unit := range units {
		if unit == '\n' {
			newlineStart := idx
			if idx > 0 && units[idx-1] == '\r' {
				newlineStart = idx - 1
			}

			index.lines = append(index.lines, LineInfo{
				StartOffset:  lineStart,
				NewlineStart: newlineStart,
				EndOffset:    idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// Last line (may not have a trailing newline).
	index.lines = append(index.lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(units),
		EndOffset:    len(units),
	})

	return index
}

// LineCount returns the number of lines.
func (li *LineIndex) LineCount() int {
	return len(li.lines)
}

// Line returns metadata for a 1-based line number.
func (li *LineIndex) Line(line int) (LineInfo, bool) {
	if line < 1 || line > len(li.lines) {
		return LineInfo{}, false
	}
	return li.lines[line-1], true
}

// LineAt converts a unit offset to 1-based line and column numbers.
// Returns (0, 0) if the offset is out of range.
func (li *LineIndex) LineAt(offset int) (int, int) {
	if offset < 0 || offset > li.length || len(li.lines) == 0 {
		return 0, 0
	}

	lineIdx := sort.Search(len(li.lines), func(i int) bool {
		return li.lines[i].EndOffset > offset
	})
	if lineIdx >= len(li.lines) {
		lineIdx = len(li.lines) - 1
	}

	return lineIdx + 1, offset - li.lines[lineIdx].StartOffset + 1
}
