// Package runner processes many notes concurrently: it discovers note
// files, opens each in its own document and extracts its study material.
package runner

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/commonplace/pkg/config"
)

// Options controls a multi-note run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot)
	// considered notes. Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Config supplies the parse and render settings for each document.
	Config *config.Config

	// Logger receives per-note diagnostics. Defaults to logging.Default().
	Logger *log.Logger
}

// DefaultExtensions returns the default set of note file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// OptionsFromConfig fills the discovery settings from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:        paths,
		Extensions:   cfg.Notes.Extensions,
		ExcludeGlobs: cfg.Notes.Ignore,
		Jobs:         cfg.Jobs,
		Config:       cfg,
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
