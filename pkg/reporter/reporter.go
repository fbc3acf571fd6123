// Package reporter writes the study material extracted from a run of notes
// in one of several formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/commonplace/pkg/analysis"
	"github.com/yaklabco/commonplace/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes extraction results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of cards and clozes reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Items(), nil
}

func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.WorkingDir = opts.WorkingDir
	return &reporterFacade{renderer: renderer, analysisOpts: analysisOpts}
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatTSV:
		return NewTSVReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatSummary:
		return newRendererFacade(NewSummaryRenderer(opts), opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
