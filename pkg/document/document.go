// Package document is the editable front end of a note. It ties a piece
// table, an incremental parser and a visible projection together, applies
// edits given in visible or raw coordinates, and tells observers what
// changed.
package document

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/commonplace/internal/logging"
	"github.com/yaklabco/commonplace/pkg/fix"
	"github.com/yaklabco/commonplace/pkg/markdown"
	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/packrat"
	"github.com/yaklabco/commonplace/pkg/piecetable"
	"github.com/yaklabco/commonplace/pkg/projection"
	"github.com/yaklabco/commonplace/pkg/reparse"
)

// Document is an editable note. It is not safe for concurrent use; one
// goroutine owns it.
type Document struct {
	buffer     *piecetable.Table
	controller *reparse.Controller
	projection *projection.Projection
	logger     *log.Logger

	observers []observerEntry
	nextID    int
	anchors   []*Anchor
	editing   bool
}

type settings struct {
	grammar      packrat.Rule
	policy       packrat.Policy
	verify       bool
	formatters   projection.FormattingTable
	replacements projection.ReplacementTable
	resolver     projection.ImageResolver
	logger       *log.Logger
}

// Option configures a Document.
type Option func(*settings)

// WithGrammar sets the grammar. The default is markdown.Grammar().
func WithGrammar(grammar packrat.Rule) Option {
	return func(s *settings) {
		s.grammar = grammar
	}
}

// WithMemoPolicy sets the parser's memo invalidation policy.
func WithMemoPolicy(policy packrat.Policy) Option {
	return func(s *settings) {
		s.policy = policy
	}
}

// WithVerify checks every incremental parse against a full parse.
func WithVerify(verify bool) Option {
	return func(s *settings) {
		s.verify = verify
	}
}

// WithFormatters sets the formatting table. The default is
// markdown.DefaultFormatters().
func WithFormatters(table projection.FormattingTable) Option {
	return func(s *settings) {
		s.formatters = table
	}
}

// WithReplacements sets the replacement table. The default shows the raw
// text unchanged.
func WithReplacements(table projection.ReplacementTable) Option {
	return func(s *settings) {
		s.replacements = table
	}
}

// WithImageResolver sets the callback used to load images.
func WithImageResolver(resolver projection.ImageResolver) Option {
	return func(s *settings) {
		s.resolver = resolver
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// New creates a document holding text.
func New(text string, opts ...Option) (*Document, error) {
	cfg := settings{policy: packrat.PolicyPrecise}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.grammar == nil {
		cfg.grammar = markdown.Grammar()
	}
	if cfg.formatters == nil {
		cfg.formatters = markdown.DefaultFormatters()
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}

	buffer := piecetable.New(text)
	doc := &Document{
		buffer: buffer,
		controller: reparse.New(buffer, cfg.grammar,
			reparse.WithPolicy(cfg.policy),
			reparse.WithVerify(cfg.verify),
			reparse.WithLogger(cfg.logger)),
		projection: projection.New(
			projection.WithFormatters(cfg.formatters),
			projection.WithReplacements(cfg.replacements),
			projection.WithImageResolver(cfg.resolver),
			projection.WithLogger(cfg.logger)),
		logger: cfg.logger,
	}
	if err := doc.projection.Update(doc.controller.Parse(), buffer); err != nil {
		return nil, fmt.Errorf("project note: %w", err)
	}
	return doc, nil
}

// RawString returns the raw text.
func (d *Document) RawString() string {
	return d.buffer.String()
}

// RawLen returns the raw length in UTF-16 code units.
func (d *Document) RawLen() int {
	return d.buffer.Len()
}

// Source returns the raw text for read-only helpers such as
// markdown.Clozes.
func (d *Document) Source() projection.Source {
	return d.buffer
}

// VisibleString returns the visible text.
func (d *Document) VisibleString() string {
	return piecetable.Decode(d.projection.VisibleUnits())
}

// VisibleLen returns the visible length in UTF-16 code units.
func (d *Document) VisibleLen() int {
	return d.projection.VisibleLen()
}

// Tree returns the current syntax tree.
func (d *Document) Tree() *mdast.Node {
	return d.controller.Tree()
}

// ParseErr returns the error of the last parse, if the grammar failed to
// consume the whole note.
func (d *Document) ParseErr() error {
	return d.controller.Err()
}

// Projection returns the visible projection. Callers must not update it.
func (d *Document) Projection() *projection.Projection {
	return d.projection
}

// Runs returns the visible text as runs of equal attributes.
func (d *Document) Runs() []projection.Run {
	return d.projection.Runs()
}

// Attributes returns the attributes at a raw offset and the raw range over
// which they hold.
func (d *Document) Attributes(raw int) (projection.Attributes, mdast.Range, error) {
	return d.projection.Attributes(raw)
}

// VisibleAttributes returns the attributes at a visible offset and the
// visible run they belong to.
func (d *Document) VisibleAttributes(visible int) (projection.Attributes, mdast.Range, error) {
	runs := d.projection.Runs()
	i := sort.Search(len(runs), func(i int) bool { return runs[i].Visible.End > visible })
	if visible < 0 || i == len(runs) || !runs[i].Visible.Contains(visible) {
		return projection.Attributes{}, mdast.Range{}, &projection.CoordinateMappingError{
			Space: "visible", Offset: visible, Length: d.projection.VisibleLen(),
		}
	}
	return runs[i].Attributes, runs[i].Visible, nil
}

// AddObserver registers o and returns a function that removes it.
func (d *Document) AddObserver(o Observer) (remove func()) {
	id := d.nextID
	d.nextID++
	d.observers = append(d.observers, observerEntry{id: id, observer: o})
	return func() {
		for i, entry := range d.observers {
			if entry.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// ReplaceCharacters replaces the visible range r with s. Hidden markup at
// the edges of r is kept; replaced spans touched by r are replaced whole.
func (d *Document) ReplaceCharacters(r mdast.Range, s string) error {
	if d.editing {
		return reparse.ErrReentrantEdit
	}
	raw, err := d.projection.RawRange(r)
	if err != nil {
		return err
	}
	return d.apply([]reparse.Edit{{Lo: raw.Start, Hi: raw.End, Units: piecetable.Encode(s)}})
}

// ReplaceRaw replaces the raw range r with s.
func (d *Document) ReplaceRaw(r mdast.Range, s string) error {
	if d.editing {
		return reparse.ErrReentrantEdit
	}
	if err := d.checkRaw(r); err != nil {
		return err
	}
	return d.apply([]reparse.Edit{{Lo: r.Start, Hi: r.End, Units: piecetable.Encode(s)}})
}

// ApplyEdits applies a batch of raw edits at once: one reparse and one pair
// of notifications. Offsets refer to the text before any of the edits.
func (d *Document) ApplyEdits(edits []fix.TextEdit) error {
	if d.editing {
		return reparse.ErrReentrantEdit
	}
	prepared, err := fix.PrepareEdits(edits, d.buffer.Len())
	if err != nil {
		return err
	}
	if len(prepared) == 0 {
		return nil
	}
	descending := fix.Descending(prepared)
	batch := make([]reparse.Edit, len(descending))
	for i, edit := range descending {
		batch[i] = reparse.Edit{Lo: edit.StartOffset, Hi: edit.EndOffset, Units: edit.Units()}
	}
	return d.apply(batch)
}

// ReplaceVisible applies a batch of edits given in visible coordinates.
// Every range is mapped through the projection as it stands before the
// batch, so an edit that changes what is hidden cannot move the others.
// The batch is then applied like ApplyEdits.
func (d *Document) ReplaceVisible(edits []fix.TextEdit) error {
	if d.editing {
		return reparse.ErrReentrantEdit
	}
	prepared, err := fix.PrepareEdits(edits, d.projection.VisibleLen())
	if err != nil {
		return err
	}
	raw := make([]fix.TextEdit, len(prepared))
	for i, edit := range prepared {
		r, err := d.projection.RawRange(mdast.Range{Start: edit.StartOffset, End: edit.EndOffset})
		if err != nil {
			return err
		}
		raw[i] = edit
		raw[i].StartOffset, raw[i].EndOffset = r.Start, r.End
	}
	return d.ApplyEdits(raw)
}

// SetRawString replaces the whole note, as when it is loaded from storage.
func (d *Document) SetRawString(text string) error {
	if d.editing {
		return reparse.ErrReentrantEdit
	}
	d.editing = true
	defer func() { d.editing = false }()

	whole := mdast.Range{Start: 0, End: d.buffer.Len()}
	oldVisible := d.projection.VisibleLen()
	d.willChange(Pending{Visible: mdast.Range{Start: 0, End: oldVisible}, Raw: whole})

	units := piecetable.Encode(text)
	if _, err := d.controller.Reset(units); err != nil {
		return err
	}
	d.moveAnchors([]reparse.Edit{{Lo: 0, Hi: whole.End, Units: units}})
	if err := d.projection.Update(d.controller.Tree(), d.buffer); err != nil {
		return fmt.Errorf("project note: %w", err)
	}

	full := mdast.Range{Start: 0, End: d.projection.VisibleLen()}
	d.didChange(Change{EditedRange: full, ChangeInLength: full.End - oldVisible, EditedAttributesRange: full})
	return nil
}

// SetReplacements swaps the replacement table, for example to quiz a
// different cloze, and reprojects the whole note.
func (d *Document) SetReplacements(table projection.ReplacementTable) error {
	if d.editing {
		return reparse.ErrReentrantEdit
	}
	d.editing = true
	defer func() { d.editing = false }()

	oldVisible := append([]uint16(nil), d.projection.VisibleUnits()...)
	d.willChange(Pending{
		Visible: mdast.Range{Start: 0, End: len(oldVisible)},
		Raw:     mdast.Range{Start: 0, End: d.buffer.Len()},
	})

	d.projection.Configure(projection.WithReplacements(table))
	if err := d.projection.Update(d.controller.Tree(), d.buffer); err != nil {
		return fmt.Errorf("project note: %w", err)
	}

	change := diffVisible(oldVisible, d.projection.VisibleUnits())
	change.EditedAttributesRange = mdast.Range{Start: 0, End: d.projection.VisibleLen()}
	d.didChange(change)
	return nil
}

func (d *Document) apply(edits []reparse.Edit) error {
	d.editing = true
	defer func() { d.editing = false }()

	pending, err := d.pending(edits)
	if err != nil {
		return err
	}
	d.willChange(pending)
	oldVisible := append([]uint16(nil), d.projection.VisibleUnits()...)

	update, err := d.controller.Apply(edits...)
	if err != nil {
		return err
	}
	d.moveAnchors(edits)
	if err := d.projection.Update(update.New, d.buffer); err != nil {
		return fmt.Errorf("project note: %w", err)
	}

	change := diffVisible(oldVisible, d.projection.VisibleUnits())
	change.EditedAttributesRange = change.EditedRange
	for _, c := range update.Changes {
		if visible, err := d.projection.VisibleRange(c.New); err == nil {
			change.EditedAttributesRange = change.EditedAttributesRange.Union(visible)
		}
	}

	stats := d.projection.Stats()
	d.logger.Debug("edited note",
		logging.FieldRange, update.Edited.String(),
		logging.FieldBlocks, stats.Blocks,
		logging.FieldReused, stats.CachedBlocks)

	d.didChange(change)
	return nil
}

// pending describes edits, given in descending order, in the coordinates
// before the edit.
func (d *Document) pending(edits []reparse.Edit) (Pending, error) {
	var p Pending
	for i, edit := range edits {
		raw := mdast.Range{Start: edit.Lo, End: edit.Hi}
		if err := d.checkRaw(raw); err != nil {
			return Pending{}, err
		}
		visible, err := d.projection.VisibleRange(raw)
		if err != nil {
			return Pending{}, err
		}
		if i == 0 {
			p = Pending{Visible: visible, Raw: raw}
			continue
		}
		p.Raw = p.Raw.Union(raw)
		p.Visible = p.Visible.Union(visible)
	}
	return p, nil
}

func (d *Document) checkRaw(r mdast.Range) error {
	if r.Start < 0 || r.Start > r.End || r.End > d.buffer.Len() {
		return &piecetable.RangeError{Lo: r.Start, Hi: r.End, Length: d.buffer.Len()}
	}
	for _, offset := range []int{r.Start, r.End} {
		if d.splitsSurrogate(offset) {
			return &SurrogateSplitError{Offset: offset}
		}
	}
	return nil
}

func (d *Document) willChange(p Pending) {
	for _, entry := range d.observers {
		entry.observer.WillChange(d, p)
	}
}

func (d *Document) didChange(c Change) {
	for _, entry := range d.observers {
		entry.observer.DidChange(d, c)
	}
}

// diffVisible trims the common prefix and suffix of two texts and reports
// what is left, in the coordinates of after.
func diffVisible(before, after []uint16) Change {
	limit := min(len(before), len(after))
	prefix := 0
	for prefix < limit && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < limit-prefix && before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}
	edited := mdast.Range{Start: prefix, End: len(after) - suffix}
	return Change{EditedRange: edited, ChangeInLength: len(after) - len(before)}
}
