// Package analysis aggregates the study material extracted from many notes
// into per-note and per-hashtag views for reporting.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/commonplace/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// RelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func RelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// Analyze transforms a runner.Result into a Report.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}
	if result == nil {
		return report
	}

	tags := make(map[string]*TagAnalysis)
	for _, file := range result.Files {
		report.Totals.Notes++
		path := RelativePath(file.Path, opts.WorkingDir)

		if file.Error != nil {
			report.Totals.Errored++
			report.Errors = append(report.Errors, NoteError{Path: path, Message: file.Error.Error()})
			continue
		}
		note := file.Note
		if note == nil {
			continue
		}
		if note.Degraded {
			report.Totals.Degraded++
		}

		na := NoteAnalysis{
			Path:     path,
			Title:    note.Title,
			Cards:    len(note.Cards),
			Clozes:   len(note.Clozes),
			Tags:     note.Hashtags,
			Degraded: note.Degraded,
		}
		report.Totals.Cards += na.Cards
		report.Totals.Clozes += na.Clozes
		if na.Items() == 0 {
			continue
		}
		report.Totals.NotesWithMaterial++
		if opts.IncludeByNote {
			report.ByNote = append(report.ByNote, na)
		}

		for _, tag := range note.Hashtags {
			ta, ok := tags[tag]
			if !ok {
				ta = &TagAnalysis{Tag: tag}
				tags[tag] = ta
			}
			ta.Cards += na.Cards
			ta.Clozes += na.Clozes
			ta.Notes = append(ta.Notes, path)
		}
	}
	report.Totals.Tags = len(tags)

	if opts.IncludeByNote {
		sortNotes(report.ByNote, opts.SortBy, opts.SortDesc)
	}
	if opts.IncludeByTag {
		report.ByTag = make([]TagAnalysis, 0, len(tags))
		for _, ta := range tags {
			slices.Sort(ta.Notes)
			report.ByTag = append(report.ByTag, *ta)
		}
		sortTags(report.ByTag, opts.SortBy, opts.SortDesc)
	}
	return report
}

func sortNotes(notes []NoteAnalysis, sortBy SortField, desc bool) {
	slices.SortStableFunc(notes, func(left, right NoteAnalysis) int {
		if sortBy == SortByAlpha {
			return cmp.Compare(left.Path, right.Path)
		}
		return compareCount(left.Items(), right.Items(), desc, left.Path, right.Path)
	})
}

func sortTags(tags []TagAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(tags, func(left, right TagAnalysis) int {
		if sortBy == SortByAlpha {
			return cmp.Compare(left.Tag, right.Tag)
		}
		return compareCount(left.Items(), right.Items(), desc, left.Tag, right.Tag)
	})
}

// compareCount orders by count, breaking ties by name so output is stable.
func compareCount(left, right int, desc bool, leftName, rightName string) int {
	result := cmp.Compare(left, right)
	if desc {
		result = -result
	}
	if result == 0 {
		result = cmp.Compare(leftName, rightName)
	}
	return result
}
