// Package logging wraps charmbracelet/log with the project's defaults and
// field names.
package logging

// Field names for structured logging.
const (
	// Common fields.
	FieldError = "error"
	FieldPath  = "path"
	FieldPaths = "paths"
	FieldNote  = "note"
	FieldNotes = "notes"

	// Parse and projection fields.
	FieldNodeType = "node_type"
	FieldRange    = "range"
	FieldRule     = "rule"
	FieldPolicy   = "policy"
	FieldLength   = "length"
	FieldHits     = "memo_hits"
	FieldMisses   = "memo_misses"
	FieldSkipped  = "choice_skipped"
	FieldBlocks   = "blocks"
	FieldReused   = "blocks_reused"
	FieldChanged  = "changed"
	FieldState    = "state"

	// Command fields.
	FieldCards    = "cards"
	FieldClozes   = "clozes"
	FieldJobs     = "jobs"
	FieldFormat   = "format"
	FieldLanguage = "language"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
