// Package notestore persists notes as files. Documents only exchange raw
// text with the store; parsing and projection stay in package document.
package notestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/fsutil"
	"github.com/yaklabco/commonplace/pkg/runner"
)

// ErrOutsideStore is returned for a note path that escapes the store.
var ErrOutsideStore = errors.New("path is outside the note store")

// Note is a stored note. ID is its slash-separated path relative to the
// store root.
type Note struct {
	ID   string
	Text string

	snapshot *fsutil.Snapshot
}

// Path returns the note's file path, or "" for a note not read from disk.
func (n *Note) Path() string {
	if n.snapshot == nil {
		return ""
	}
	return n.snapshot.Path
}

// Entry describes a note found by List.
type Entry struct {
	ID      string
	Path    string
	ModTime time.Time
	Size    int64
}

// Store loads and saves notes.
type Store interface {
	Load(ctx context.Context, id string) (*Note, error)
	Save(ctx context.Context, note *Note) error
	List(ctx context.Context) ([]Entry, error)
	Create(ctx context.Context, title string) (*Note, error)
}

// FileStore keeps notes as files under a directory.
type FileStore struct {
	root       string
	extensions []string
	ignore     []string
	logger     *log.Logger
}

var _ Store = (*FileStore)(nil)

// Option configures a FileStore.
type Option func(*FileStore)

// WithExtensions sets which file extensions are notes. The first one is
// used for new notes.
func WithExtensions(extensions ...string) Option {
	return func(s *FileStore) {
		if len(extensions) > 0 {
			s.extensions = extensions
		}
	}
}

// WithIgnore sets glob patterns that List skips.
func WithIgnore(patterns ...string) Option {
	return func(s *FileStore) {
		s.ignore = patterns
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore opens a store rooted at dir.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}
	store := &FileStore{
		root:       root,
		extensions: runner.DefaultExtensions(),
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Root returns the absolute store directory.
func (s *FileStore) Root() string {
	return s.root
}

// Load reads the note with the given ID.
func (s *FileStore) Load(ctx context.Context, id string) (*Note, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load note %s: %w", id, err)
	}
	return &Note{ID: id, Text: string(content), snapshot: snap}, nil
}

// Save writes the note back. It fails with fsutil.ErrModified when the
// file changed since the note was loaded. Notes built by hand are created
// if the file does not exist yet.
func (s *FileStore) Save(ctx context.Context, note *Note) error {
	if note.snapshot == nil {
		path, err := s.path(note.ID)
		if err != nil {
			return err
		}
		snap, err := fsutil.CreateExclusive(ctx, path, []byte(note.Text))
		if err != nil {
			return fmt.Errorf("save note %s: %w", note.ID, err)
		}
		note.snapshot = snap
		return nil
	}

	snap, err := fsutil.Save(ctx, note.snapshot, []byte(note.Text))
	if err != nil {
		return fmt.Errorf("save note %s: %w", note.ID, err)
	}
	note.snapshot = snap
	s.logger.Debug("note saved", logging.FieldPath, snap.Path, logging.FieldLength, snap.Size)
	return nil
}

// List returns every note under the store root, sorted by ID.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	files, err := runner.Discover(ctx, runner.Options{
		WorkingDir:   s.root,
		Extensions:   s.extensions,
		ExcludeGlobs: s.ignore,
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	entries := make([]Entry, 0, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			s.logger.Warn("note vanished while listing", logging.FieldPath, path, logging.FieldError, err)
			continue
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		entries = append(entries, Entry{
			ID:      filepath.ToSlash(rel),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return entries, nil
}

// Create writes a new note headed by title. Its ID is the slug of the
// title; a short random suffix keeps it unique, and untitled notes get a
// random name.
func (s *FileStore) Create(ctx context.Context, title string) (*Note, error) {
	text := ""
	if title = strings.TrimSpace(title); title != "" {
		text = "# " + title + "\n\n"
	}

	base := slug.Make(title)
	if base == "" {
		base = "note-" + shortID()
	}

	for attempt := 0; ; attempt++ {
		name := base
		if attempt > 0 {
			name += "-" + shortID()
		}
		note := &Note{ID: name + s.extensions[0], Text: text}
		err := s.Save(ctx, note)
		if err == nil {
			s.logger.Info("note created", logging.FieldPath, note.Path())
			return note, nil
		}
		if !errors.Is(err, os.ErrExist) || attempt >= 3 {
			return nil, err
		}
	}
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || filepath.IsAbs(id) {
		return "", fmt.Errorf("%w: %q", ErrOutsideStore, id)
	}
	path := filepath.Join(s.root, filepath.FromSlash(id))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideStore, id)
	}
	return path, nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
