// Package config defines the configuration types for commonplace. They are
// plain data with YAML tags; loading and merging live in
// internal/configloader.
package config

import "github.com/yaklabco/commonplace/pkg/markdown"

// OutputFormat selects how commands print results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatTSV     OutputFormat = "tsv"
	FormatSummary OutputFormat = "summary"
)

// ColorMode controls terminal styling.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// MemoPolicy names a memo invalidation policy.
type MemoPolicy string

const (
	MemoPrecise      MemoPolicy = "precise"
	MemoConservative MemoPolicy = "conservative"
)

// RenderConfig controls the visible text. Pointer fields distinguish
// "unset" from false so that a later source can switch a setting off.
type RenderConfig struct {
	HideDelimiters *bool `yaml:"hide_delimiters,omitempty"`
	SubstituteTabs *bool `yaml:"substitute_tabs,omitempty"`
	ShowImages     *bool `yaml:"show_images,omitempty"`
	// HideCloze quizzes on one cloze; -1 shows every answer.
	HideCloze *int `yaml:"hide_cloze,omitempty"`
	// ImageDir is where image link targets are resolved, relative to the
	// note when not absolute.
	ImageDir string `yaml:"image_dir,omitempty"`
}

// ParseConfig controls the parser.
type ParseConfig struct {
	MemoPolicy MemoPolicy `yaml:"memo_policy,omitempty"`
	// Verify checks each incremental parse against a full one.
	Verify *bool `yaml:"verify,omitempty"`
	// Extensions lists grammar extensions; nil means all of them.
	Extensions []string `yaml:"extensions,omitempty"`
}

// NotesConfig describes where notes live.
type NotesConfig struct {
	// Dir is the note directory used by the store.
	Dir string `yaml:"dir,omitempty"`
	// Extensions are the file extensions treated as notes.
	Extensions []string `yaml:"extensions,omitempty"`
	// Ignore holds glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`
}

// Config is the root configuration.
type Config struct {
	Render   RenderConfig `yaml:"render"`
	Parse    ParseConfig  `yaml:"parse"`
	Notes    NotesConfig  `yaml:"notes"`
	LogLevel string       `yaml:"log_level,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format selects the output format.
	Format OutputFormat `yaml:"-"`

	// Color controls terminal styling.
	Color ColorMode `yaml:"-"`

	// Jobs is the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int `yaml:"-"`
}

// NewConfig returns a Config with defaults filled in.
func NewConfig() *Config {
	return &Config{
		Render: RenderConfig{
			HideDelimiters: ptr(false),
			SubstituteTabs: ptr(false),
			ShowImages:     ptr(false),
			HideCloze:      ptr(-1),
		},
		Parse: ParseConfig{
			MemoPolicy: MemoPrecise,
			Verify:     ptr(false),
		},
		Notes: NotesConfig{
			Dir:        ".",
			Extensions: []string{".md", ".markdown"},
		},
		LogLevel: "info",
		Format:   FormatText,
		Color:    ColorAuto,
	}
}

// RenderOptions converts the render settings for the markdown package.
func (r RenderConfig) RenderOptions() markdown.RenderOptions {
	opts := markdown.RenderOptions{
		HideDelimiters: deref(r.HideDelimiters, false),
		SubstituteTabs: deref(r.SubstituteTabs, false),
		ShowImages:     deref(r.ShowImages, false),
		HideCloze:      deref(r.HideCloze, -1),
	}
	return opts
}

// VerifyEnabled reports whether parse verification is on.
func (p ParseConfig) VerifyEnabled() bool {
	return deref(p.Verify, false)
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
