package packrat

import (
	"fmt"
	"strconv"
	"unicode/utf16"
)

type literalRule struct {
	text  string
	units []uint16
}

// Literal matches the exact text s.
func Literal(s string) Rule {
	return &literalRule{text: s, units: utf16.Encode([]rune(s))}
}

func (r *literalRule) Match(p *Parser, at int) Result {
	for i, want := range r.units {
		got, ok := p.unit(at + i)
		if !ok || got != want {
			return failure(i + 1)
		}
	}
	return Result{
		Succeeded: true,
		Length:    len(r.units),
		Examined:  len(r.units),
		Spans:     []Span{{Length: len(r.units)}},
	}
}

func (r *literalRule) OpeningChars() (CharSet, bool) {
	if len(r.units) == 0 {
		return CharSet{}, false
	}
	var set CharSet
	set.add(r.units[0])
	return set, true
}

func (r *literalRule) Nullable() bool { return len(r.units) == 0 }

func (r *literalRule) String() string { return strconv.Quote(r.text) }

type setRule struct {
	set    CharSet
	negate bool
}

// OneOf matches a single unit from set.
func OneOf(set CharSet) Rule {
	return &setRule{set: set}
}

// NoneOf matches a single unit that is not in set. It fails at end of input.
func NoneOf(set CharSet) Rule {
	return &setRule{set: set, negate: true}
}

func (r *setRule) Match(p *Parser, at int) Result {
	u, ok := p.unit(at)
	if !ok || r.set.Contains(u) == r.negate {
		return failure(1)
	}
	return Result{Succeeded: true, Length: 1, Examined: 1, Spans: []Span{{Length: 1}}}
}

func (r *setRule) OpeningChars() (CharSet, bool) {
	if r.negate {
		return CharSet{}, false
	}
	return r.set, true
}

func (r *setRule) Nullable() bool { return false }

func (r *setRule) String() string {
	if r.negate {
		return "[^" + r.set.String()[1:]
	}
	return r.set.String()
}

type satisfyRule struct {
	name string
	pred func(uint16) bool
}

// Satisfy matches a single unit accepted by pred.
func Satisfy(name string, pred func(uint16) bool) Rule {
	return &satisfyRule{name: name, pred: pred}
}

func (r *satisfyRule) Match(p *Parser, at int) Result {
	u, ok := p.unit(at)
	if !ok || !r.pred(u) {
		return failure(1)
	}
	return Result{Succeeded: true, Length: 1, Examined: 1, Spans: []Span{{Length: 1}}}
}

func (r *satisfyRule) OpeningChars() (CharSet, bool) { return CharSet{}, false }

func (r *satisfyRule) Nullable() bool { return false }

func (r *satisfyRule) String() string { return "<" + r.name + ">" }

// Any matches any single unit.
func Any() Rule {
	return Satisfy("any", func(uint16) bool { return true })
}

type runRule struct {
	set    CharSet
	negate bool
	min    int
}

// Run greedily matches at least minLen units from set.
func Run(set CharSet, minLen int) Rule {
	return &runRule{set: set, min: minLen}
}

// RunNot greedily matches at least minLen units that are not in set.
func RunNot(set CharSet, minLen int) Rule {
	return &runRule{set: set, negate: true, min: minLen}
}

func (r *runRule) Match(p *Parser, at int) Result {
	n := 0
	for {
		u, ok := p.unit(at + n)
		if !ok || r.set.Contains(u) == r.negate {
			break
		}
		n++
	}
	// The unit (or end of input) that stopped the run was inspected too.
	if n < r.min {
		return failure(n + 1)
	}
	res := Result{Succeeded: true, Length: n, Examined: n + 1}
	if n > 0 {
		res.Spans = []Span{{Length: n}}
	}
	return res
}

func (r *runRule) OpeningChars() (CharSet, bool) {
	if r.negate {
		return CharSet{}, false
	}
	return r.set, true
}

func (r *runRule) Nullable() bool { return r.min == 0 }

func (r *runRule) String() string {
	op := r.set.String()
	if r.negate {
		op = "[^" + op[1:]
	}
	return fmt.Sprintf("%s{%d,}", op, r.min)
}

type endRule struct{}

// EndOfInput succeeds, consuming nothing, only at the end of the input.
func EndOfInput() Rule {
	return endRule{}
}

func (endRule) Match(p *Parser, at int) Result {
	if _, ok := p.unit(at); ok {
		return failure(1)
	}
	return Result{Succeeded: true, Examined: 1}
}

func (endRule) OpeningChars() (CharSet, bool) { return CharSet{}, true }

func (endRule) Nullable() bool { return true }

func (endRule) String() string { return "EOF" }
