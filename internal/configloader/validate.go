package configloader

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/config"
	"github.com/yaklabco/commonplace/pkg/markdown"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "render.hide_cloze").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatJSON:    true,
	config.FormatTSV:     true,
	config.FormatSummary: true,
}

// knownColorModes lists valid color values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[config.ColorMode]bool{
	config.ColorAuto:   true,
	config.ColorAlways: true,
	config.ColorNever:  true,
}

// knownMemoPolicies lists valid memo policy values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownMemoPolicies = map[config.MemoPolicy]bool{
	config.MemoPrecise:      true,
	config.MemoConservative: true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}
	fail := func(field string, value any, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		fail("format", cfg.Format, "invalid format %q; must be one of: text, json, tsv, summary", cfg.Format)
	}
	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		fail("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}
	if cfg.Jobs < 0 {
		fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if cfg.LogLevel != "" && !logging.ValidLevel(cfg.LogLevel) {
		fail("log_level", cfg.LogLevel, "invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Render.HideCloze != nil && *cfg.Render.HideCloze < -1 {
		fail("render.hide_cloze", *cfg.Render.HideCloze, "hide_cloze must be >= -1 (-1 shows every answer)")
	}

	if cfg.Parse.MemoPolicy != "" && !knownMemoPolicies[cfg.Parse.MemoPolicy] {
		fail("parse.memo_policy", cfg.Parse.MemoPolicy,
			"invalid memo policy %q; must be one of: precise, conservative", cfg.Parse.MemoPolicy)
	}
	known := markdown.ExtensionNames()
	for i, name := range cfg.Parse.Extensions {
		if !slices.Contains(known, name) {
			fail(fmt.Sprintf("parse.extensions[%d]", i), name,
				"unknown grammar extension %q; must be one of: %s", name, strings.Join(known, ", "))
		}
	}

	for i, ext := range cfg.Notes.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("notes.extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("extension %q does not start with a dot and will never match", ext),
			})
		}
	}
	validateIgnorePatterns(cfg, result)

	return result
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Notes.Ignore {
		// filepath.Match returns an error only for malformed patterns
		_, err := filepath.Match(pattern, "")
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("notes.ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}

// IsValidColorMode returns true if the color mode is valid.
func IsValidColorMode(c config.ColorMode) bool {
	return knownColorModes[c]
}
