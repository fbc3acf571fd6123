package document

import "github.com/yaklabco/commonplace/pkg/mdast"

// Pending describes an edit that is about to happen, in the coordinates of
// the text before the edit.
type Pending struct {
	// Visible is the visible range being replaced.
	Visible mdast.Range
	// Raw is the raw range being replaced.
	Raw mdast.Range
}

// Change describes an edit that has happened, in visible coordinates of the
// text after the edit.
type Change struct {
	// EditedRange is the visible text that differs from before.
	EditedRange mdast.Range
	// ChangeInLength is the change in visible length.
	ChangeInLength int
	// EditedAttributesRange covers every visible unit whose attributes may
	// have changed. It always contains EditedRange.
	EditedAttributesRange mdast.Range
}

// Observer is told about every mutation of a Document, once before and
// once after. Observers must not edit the document from either callback.
type Observer interface {
	WillChange(doc *Document, pending Pending)
	DidChange(doc *Document, change Change)
}

// ObserverFuncs adapts a pair of functions to Observer. Either may be nil.
type ObserverFuncs struct {
	WillChangeFunc func(doc *Document, pending Pending)
	DidChangeFunc  func(doc *Document, change Change)
}

// WillChange calls WillChangeFunc if set.
func (o ObserverFuncs) WillChange(doc *Document, pending Pending) {
	if o.WillChangeFunc != nil {
		o.WillChangeFunc(doc, pending)
	}
}

// DidChange calls DidChangeFunc if set.
func (o ObserverFuncs) DidChange(doc *Document, change Change) {
	if o.DidChangeFunc != nil {
		o.DidChangeFunc(doc, change)
	}
}

type observerEntry struct {
	id       int
	observer Observer
}
