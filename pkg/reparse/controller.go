// Package reparse keeps a syntax tree in step with a piece table. Every edit
// is applied to the buffer and the memo table together, and the document is
// parsed again from the start; memoized results make the untouched regions
// cheap and come back as the very same nodes.
package reparse

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/packrat"
	"github.com/yaklabco/commonplace/pkg/piecetable"
)

// State is the parse state of a Controller.
type State int

// Controller states.
const (
	Unparsed State = iota
	Parsing
	Parsed
	ParseFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unparsed:
		return "unparsed"
	case Parsing:
		return "parsing"
	case Parsed:
		return "parsed"
	case ParseFailed:
		return "parse_failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Edit replaces the units in [Lo, Hi) of the buffer with Units.
type Edit struct {
	Lo, Hi int
	Units  []uint16
}

// Update describes the outcome of one edit or batch of edits.
type Update struct {
	// Old and New are the trees before and after.
	Old, New *mdast.Node
	// Edited is the union of the replaced ranges, in new raw coordinates.
	Edited mdast.Range
	// Delta is the change in buffer length.
	Delta int
	// Changes lists the top-level regions whose nodes are not reused.
	Changes []mdast.Change
}

// Controller owns the parser for one buffer.
type Controller struct {
	buffer  *piecetable.Table
	grammar packrat.Rule
	parser  *packrat.Parser
	policy  packrat.Policy
	logger  *log.Logger
	verify  bool

	tree  *mdast.Node
	state State
	err   error
	busy  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the memo invalidation policy.
func WithPolicy(policy packrat.Policy) Option {
	return func(c *Controller) {
		c.policy = policy
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithVerify makes every incremental parse be checked against a fresh parse.
// On a mismatch the fresh tree wins and the discrepancy is logged.
func WithVerify(verify bool) Option {
	return func(c *Controller) {
		c.verify = verify
	}
}

// New creates a controller for buffer. Nothing is parsed until Parse or the
// first edit.
func New(buffer *piecetable.Table, grammar packrat.Rule, opts ...Option) *Controller {
	c := &Controller{
		buffer:  buffer,
		grammar: grammar,
		policy:  packrat.PolicyPrecise,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	c.parser = packrat.NewParser(buffer, packrat.WithPolicy(c.policy))
	return c
}

// Buffer returns the underlying buffer.
func (c *Controller) Buffer() *piecetable.Table {
	return c.buffer
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Err returns the error from the last parse, if it failed.
func (c *Controller) Err() error {
	return c.err
}

// Stats returns the parser's memo statistics.
func (c *Controller) Stats() packrat.Stats {
	return c.parser.Stats()
}

// Tree returns the current tree, parsing first if needed. After a failed
// parse it is the degraded tree, which still covers the whole buffer.
func (c *Controller) Tree() *mdast.Node {
	if c.tree == nil {
		c.Parse()
	}
	return c.tree
}

// Parse parses the buffer and returns the tree.
func (c *Controller) Parse() *mdast.Node {
	c.parse()
	return c.tree
}

// Replace replaces [lo, hi) of the buffer with units and reparses.
func (c *Controller) Replace(lo, hi int, units []uint16) (*Update, error) {
	return c.Apply(Edit{Lo: lo, Hi: hi, Units: units})
}

// ReplaceString is Replace with a Go string.
func (c *Controller) ReplaceString(lo, hi int, s string) (*Update, error) {
	return c.Replace(lo, hi, piecetable.Encode(s))
}

// Apply applies edits, given in descending offset order and not
// overlapping, then reparses once. Offsets are in the coordinates of the
// buffer before any of the edits. On error nothing is changed.
func (c *Controller) Apply(edits ...Edit) (*Update, error) {
	if c.busy {
		return nil, ErrReentrantEdit
	}
	if err := c.check(edits); err != nil {
		return nil, err
	}
	c.busy = true
	defer func() { c.busy = false }()

	old := c.Tree()
	delta := 0
	edited := mdast.Range{}
	for i, edit := range edits {
		if err := c.buffer.Replace(edit.Lo, edit.Hi, edit.Units); err != nil {
			// check has validated the ranges, so this cannot leave the
			// buffer half edited.
			return nil, fmt.Errorf("replace [%d,%d): %w", edit.Lo, edit.Hi, err)
		}
		c.parser.ApplyEdit(edit.Lo, edit.Hi, len(edit.Units))

		change := len(edit.Units) - (edit.Hi - edit.Lo)
		// Earlier edits in the slice sit later in the buffer, so the union
		// so far moves by this edit's delta.
		here := mdast.Range{Start: edit.Lo, End: edit.Lo + len(edit.Units)}
		if i == 0 {
			edited = here
		} else {
			edited = here.Union(edited.Shift(change))
		}
		delta += change
	}

	c.parse()
	update := &Update{
		Old:     old,
		New:     c.tree,
		Edited:  edited,
		Delta:   delta,
		Changes: mdast.Diff(old, c.tree),
	}
	c.logger.Debug("reparsed",
		logging.FieldRange, edited.String(),
		logging.FieldChanged, len(update.Changes),
		logging.FieldState, c.state.String())
	return update, nil
}

// Reset replaces the whole buffer, as when a note is loaded, and drops every
// memoized result.
func (c *Controller) Reset(units []uint16) (*Update, error) {
	if c.busy {
		return nil, ErrReentrantEdit
	}
	c.busy = true
	defer func() { c.busy = false }()

	old := c.tree
	oldLen := c.buffer.Len()
	if err := c.buffer.Replace(0, oldLen, units); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	c.parser.Memo().Reset()
	c.parse()
	return &Update{
		Old:     old,
		New:     c.tree,
		Edited:  mdast.Range{Start: 0, End: len(units)},
		Delta:   len(units) - oldLen,
		Changes: mdast.Diff(old, c.tree),
	}, nil
}

func (c *Controller) check(edits []Edit) error {
	length := c.buffer.Len()
	for i, edit := range edits {
		if edit.Lo < 0 || edit.Lo > edit.Hi || edit.Hi > length {
			return &piecetable.RangeError{Lo: edit.Lo, Hi: edit.Hi, Length: length}
		}
		if i > 0 && edit.Hi > edits[i-1].Lo {
			return ErrUnsortedEdits
		}
	}
	return nil
}

func (c *Controller) parse() {
	c.state = Parsing
	c.parser.ResetStats()

	tree, err := c.parser.Parse(c.grammar)
	stats := c.parser.Stats()
	c.logger.Debug("parsed",
		logging.FieldLength, c.buffer.Len(),
		logging.FieldPolicy, c.policy.String(),
		logging.FieldHits, stats.Hits,
		logging.FieldMisses, stats.Misses,
		logging.FieldSkipped, stats.Skipped)

	if c.verify && c.tree != nil {
		tree = c.verified(tree)
	}

	c.tree = tree
	c.err = err
	if err == nil {
		c.state = Parsed
		return
	}

	c.state = ParseFailed
	var consistency *packrat.GrammarConsistencyError
	if errors.As(err, &consistency) {
		c.logger.Warn("grammar did not consume the whole note; showing the rest as text",
			logging.FieldRule, consistency.Rule,
			logging.FieldRange, mdast.Range{Start: consistency.Consumed, End: consistency.Length}.String(),
			logging.FieldError, err)
		return
	}
	c.logger.Error("parse failed", logging.FieldError, err)
}

func (c *Controller) verified(tree *mdast.Node) *mdast.Node {
	fresh, _ := packrat.NewParser(c.buffer).Parse(c.grammar)
	if mdast.Equal(tree, fresh) {
		return tree
	}
	c.logger.Error("incremental parse mismatch",
		logging.FieldError, ErrIncrementalMismatch,
		logging.FieldPolicy, c.policy.String())
	c.parser.Memo().Reset()
	return fresh
}
