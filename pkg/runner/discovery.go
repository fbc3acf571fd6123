package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Discover finds note files matching opts. Hidden files and directories are
// skipped. It returns a sorted, duplicate-free list of absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	walker := &walker{ctx: ctx, workDir: workDir, opts: opts, extensions: opts.effectiveExtensions()}
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := input
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			// Files named explicitly are taken even when hidden.
			if walker.matches(absPath) {
				add(absPath)
			}
			continue
		}

		found, err := walker.walk(absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

type walker struct {
	ctx        context.Context //nolint:containedctx // Scoped to one Discover call.
	workDir    string
	opts       Options
	extensions []string
}

func (w *walker) walk(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || w.excluded(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(p)
			if err != nil {
				return nil //nolint:nilerr // Broken links are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !w.opts.FollowSymlinks {
					return nil
				}
				// Walk the target; WalkDir does not descend into links.
				sub, err := w.walk(target)
				files = append(files, sub...)
				return err
			}
		}

		if w.matches(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}
	return files, nil
}

func (w *walker) matches(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	ok := slices.ContainsFunc(w.extensions, func(e string) bool { return strings.ToLower(e) == ext })
	return ok && !w.excluded(p)
}

func (w *walker) excluded(p string) bool {
	rel, err := filepath.Rel(w.workDir, p)
	if err != nil {
		rel = p
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.opts.ExcludeGlobs {
		if matchGlob(rel, filepath.ToSlash(pattern)) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path. A pattern without a
// slash matches any single path element ("drafts", "*.tmp.md"); "**"
// matches any number of elements ("archive/**", "**/old/*.md").
func matchGlob(rel, pattern string) bool {
	if !strings.Contains(pattern, "/") {
		return slices.ContainsFunc(strings.Split(rel, "/"), func(elem string) bool {
			ok, _ := path.Match(pattern, elem)
			return ok
		})
	}
	return matchElems(strings.Split(rel, "/"), strings.Split(pattern, "/"))
}

func matchElems(elems, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for i := 0; i <= len(elems); i++ {
				if matchElems(elems[i:], pattern[1:]) {
					return true
				}
			}
			return false
		}
		if len(elems) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], elems[0]); !ok {
			return false
		}
		elems, pattern = elems[1:], pattern[1:]
	}
	return len(elems) == 0
}
