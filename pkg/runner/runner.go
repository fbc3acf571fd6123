package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/document"
	"github.com/yaklabco/commonplace/pkg/fsutil"
	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/packrat"
)

// Run discovers notes under opts.Paths and extracts them concurrently.
// Each worker owns the documents it opens; nothing is shared between
// goroutines except the outcome channel. Outcomes are ordered by path.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	start := time.Now()
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, workCh, outCh, cfg, logger)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	logger.Debug("run finished",
		logging.FieldJobs, jobs,
		"files", len(files),
		logging.FieldCards, result.Stats.Cards,
		logging.FieldClozes, result.Stats.Clozes,
		"elapsed", time.Since(start))

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	return result, nil
}

func worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	cfg *config.Config,
	logger *log.Logger,
) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := FileOutcome{Path: path}
		note, err := ExtractFile(ctx, path, cfg, logger)
		if err != nil {
			logger.Warn("note skipped", logging.FieldPath, path, logging.FieldError, err)
			outcome.Error = err
		} else {
			outcome.Note = note
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ExtractFile reads one note file and extracts it.
func ExtractFile(ctx context.Context, path string, cfg *config.Config, logger *log.Logger) (*Note, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	opts, err := document.OptionsFromConfig(cfg, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	doc, err := document.New(string(content), append(opts, document.WithLogger(logger.With(logging.FieldPath, path)))...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return Extract(doc), nil
}

// Extract collects the study material of an open document.
func Extract(doc *document.Document) *Note {
	root, source := doc.Tree(), doc.Source()

	note := &Note{
		Hashtags: markdown.Hashtags(root, source),
		Cards:    markdown.QuestionAnswers(root, source),
		Clozes:   markdown.Clozes(root, source),
		Degraded: errors.Is(doc.ParseErr(), packrat.ErrGrammarConsistency),
	}
	note.Title, _ = markdown.Title(root, source)
	note.Summary, _ = markdown.SummaryText(root, source)
	return note
}
