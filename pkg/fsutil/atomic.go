package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly created notes.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic writes content to a temp file beside path, syncs it and
// renames it over path. On error the original file is untouched. A zero
// mode means DefaultFileMode.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	committed = true
	return nil
}

// Save writes content over the file described by snap, keeping its mode. It
// returns ErrModified, without writing, when the file changed since snap
// was taken. The returned snapshot describes the new content.
func Save(ctx context.Context, snap *Snapshot, content []byte) (*Snapshot, error) {
	modified, err := snap.Modified(ctx)
	if err != nil {
		return nil, err
	}
	if modified {
		return nil, fmt.Errorf("%w: %s", ErrModified, snap.Path)
	}
	if err := WriteAtomic(ctx, snap.Path, content, snap.Mode.Perm()); err != nil {
		return nil, err
	}
	_, fresh, err := ReadFile(ctx, snap.Path)
	return fresh, err
}

// CreateExclusive writes a new file, failing if path already exists.
func CreateExclusive(ctx context.Context, path string, content []byte) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, DefaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}
	_, snap, err := ReadFile(ctx, path)
	return snap, err
}
