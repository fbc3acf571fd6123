package packrat

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/yaklabco/commonplace/pkg/mdast"
)

type seqRule struct {
	rules []Rule
}

// Seq matches each rule in order. It is atomic: if any rule fails, the whole
// sequence fails and consumes nothing.
func Seq(rules ...Rule) Rule {
	return &seqRule{rules: rules}
}

func (r *seqRule) Match(p *Parser, at int) Result {
	pos := at
	examined := 0
	var spans []Span
	for _, child := range r.rules {
		res := child.Match(p, pos)
		examined = max(examined, pos-at+res.Examined)
		if !res.Succeeded {
			return failure(examined)
		}
		spans = appendSpans(spans, res.Spans)
		pos += res.Length
	}
	return Result{Succeeded: true, Length: pos - at, Examined: examined, Spans: spans}
}

func (r *seqRule) OpeningChars() (CharSet, bool) {
	var set CharSet
	for _, child := range r.rules {
		childSet, ok := child.OpeningChars()
		if !ok {
			return CharSet{}, false
		}
		set = set.Union(childSet)
		if !child.Nullable() {
			break
		}
	}
	return set, true
}

func (r *seqRule) Nullable() bool {
	for _, child := range r.rules {
		if !child.Nullable() {
			return false
		}
	}
	return true
}

func (r *seqRule) String() string {
	return "(" + joinRules(r.rules, " ") + ")"
}

type choiceRule struct {
	rules []Rule

	once     sync.Once
	dispatch []alternative
}

type alternative struct {
	set       CharSet
	skippable bool
}

// Choice is ordered choice: the first alternative that succeeds wins and the
// rest are never tried. Alternatives that cannot start with the next unit
// are skipped without being evaluated.
func Choice(rules ...Rule) Rule {
	return &choiceRule{rules: rules}
}

func (r *choiceRule) buildDispatch() {
	r.dispatch = make([]alternative, len(r.rules))
	for i, alt := range r.rules {
		set, ok := alt.OpeningChars()
		r.dispatch[i] = alternative{set: set, skippable: ok && !alt.Nullable()}
	}
}

func (r *choiceRule) Match(p *Parser, at int) Result {
	r.once.Do(r.buildDispatch)

	u, ok := p.unit(at)
	examined := 1
	for i, alt := range r.rules {
		if d := r.dispatch[i]; d.skippable && (!ok || !d.set.Contains(u)) {
			p.stats.Skipped++
			continue
		}
		res := alt.Match(p, at)
		examined = max(examined, res.Examined)
		if res.Succeeded {
			res.Examined = examined
			return res
		}
	}
	return failure(examined)
}

func (r *choiceRule) OpeningChars() (CharSet, bool) {
	var set CharSet
	for _, alt := range r.rules {
		altSet, ok := alt.OpeningChars()
		if !ok {
			return CharSet{}, false
		}
		set = set.Union(altSet)
	}
	return set, true
}

func (r *choiceRule) Nullable() bool {
	for _, alt := range r.rules {
		if alt.Nullable() {
			return true
		}
	}
	return false
}

func (r *choiceRule) String() string {
	return "(" + joinRules(r.rules, " / ") + ")"
}

type repeatRule struct {
	rule     Rule
	min, max int
}

// Repeat greedily matches rule between minCount and maxCount times. A
// negative maxCount means unbounded. Repetition stops at the first match
// that consumes nothing.
func Repeat(rule Rule, minCount, maxCount int) Rule {
	return &repeatRule{rule: rule, min: minCount, max: maxCount}
}

// ZeroOrMore is Repeat(rule, 0, -1).
func ZeroOrMore(rule Rule) Rule { return Repeat(rule, 0, -1) }

// OneOrMore is Repeat(rule, 1, -1).
func OneOrMore(rule Rule) Rule { return Repeat(rule, 1, -1) }

// Optional is Repeat(rule, 0, 1).
func Optional(rule Rule) Rule { return Repeat(rule, 0, 1) }

func (r *repeatRule) Match(p *Parser, at int) Result {
	pos := at
	count := 0
	examined := 0
	var spans []Span
	for r.max < 0 || count < r.max {
		res := r.rule.Match(p, pos)
		examined = max(examined, pos-at+res.Examined)
		if !res.Succeeded {
			break
		}
		count++
		spans = appendSpans(spans, res.Spans)
		pos += res.Length
		if res.Length == 0 {
			break
		}
	}
	if count < r.min {
		return failure(examined)
	}
	return Result{Succeeded: true, Length: pos - at, Examined: examined, Spans: spans}
}

func (r *repeatRule) OpeningChars() (CharSet, bool) { return r.rule.OpeningChars() }

func (r *repeatRule) Nullable() bool { return r.min == 0 || r.rule.Nullable() }

func (r *repeatRule) String() string {
	switch {
	case r.min == 0 && r.max == 1:
		return r.rule.String() + "?"
	case r.min == 0 && r.max < 0:
		return r.rule.String() + "*"
	case r.min == 1 && r.max < 0:
		return r.rule.String() + "+"
	case r.max < 0:
		return fmt.Sprintf("%s{%d,}", r.rule, r.min)
	}
	return fmt.Sprintf("%s{%d,%d}", r.rule, r.min, r.max)
}

type assertRule struct {
	rule   Rule
	negate bool
}

// Assert is positive lookahead: it succeeds, consuming nothing, where rule
// would succeed.
func Assert(rule Rule) Rule {
	return &assertRule{rule: rule}
}

// Not is negative lookahead: it succeeds, consuming nothing, where rule
// would fail.
func Not(rule Rule) Rule {
	return &assertRule{rule: rule, negate: true}
}

func (r *assertRule) Match(p *Parser, at int) Result {
	res := r.rule.Match(p, at)
	if res.Succeeded == r.negate {
		return failure(res.Examined)
	}
	return Result{Succeeded: true, Examined: res.Examined}
}

func (r *assertRule) OpeningChars() (CharSet, bool) {
	if r.negate {
		return CharSet{}, false
	}
	return r.rule.OpeningChars()
}

func (r *assertRule) Nullable() bool { return true }

func (r *assertRule) String() string {
	if r.negate {
		return "!" + r.rule.String()
	}
	return "&" + r.rule.String()
}

type asRule struct {
	rule     Rule
	nodeType mdast.NodeType
}

// As labels whatever rule matches as a single leaf of nodeType, discarding
// any structure rule produced. Empty matches produce no node.
func As(rule Rule, nodeType mdast.NodeType) Rule {
	return &asRule{rule: rule, nodeType: nodeType}
}

func (r *asRule) Match(p *Parser, at int) Result {
	res := r.rule.Match(p, at)
	if !res.Succeeded {
		return res
	}
	res.Spans = nil
	if res.Length > 0 {
		res.Spans = []Span{{Node: mdast.NewLeaf(r.nodeType, res.Length), Length: res.Length}}
	}
	return res
}

func (r *asRule) OpeningChars() (CharSet, bool) { return r.rule.OpeningChars() }

func (r *asRule) Nullable() bool { return r.rule.Nullable() }

func (r *asRule) String() string { return r.rule.String() + "@" + r.nodeType.String() }

type wrapRule struct {
	rule     Rule
	nodeType mdast.NodeType
}

// Wrap makes the match of rule into an interior node of nodeType. Labeled
// children are kept, unlabeled gaps become text leaves, and adjacent leaves
// of the same type are coalesced.
func Wrap(rule Rule, nodeType mdast.NodeType) Rule {
	return &wrapRule{rule: rule, nodeType: nodeType}
}

func (r *wrapRule) Match(p *Parser, at int) Result {
	res := r.rule.Match(p, at)
	if !res.Succeeded {
		return res
	}
	node := mdast.NewParent(r.nodeType, assemble(p.textType, res.Spans))
	res.Spans = []Span{{Node: node, Length: res.Length}}
	return res
}

func (r *wrapRule) OpeningChars() (CharSet, bool) { return r.rule.OpeningChars() }

func (r *wrapRule) Nullable() bool { return r.rule.Nullable() }

func (r *wrapRule) String() string { return r.nodeType.String() + "{" + r.rule.String() + "}" }

//nolint:gochecknoglobals // Rule identity counter shared by all grammars.
var nextRuleID atomic.Int64

type memoRule struct {
	id   int
	rule Rule
}

// Memoize caches the results of rule per position in the parser's memo
// table. Only memoized rules are reused across edits, so grammars memoize
// the rules whose nodes should keep their identity (typically blocks).
func Memoize(rule Rule) Rule {
	return &memoRule{id: int(nextRuleID.Add(1)), rule: rule}
}

func (r *memoRule) Match(p *Parser, at int) Result {
	if res, ok := p.memo.lookup(r.id, at); ok {
		p.stats.Hits++
		return res
	}
	p.stats.Misses++
	res := r.rule.Match(p, at)
	p.memo.store(r.id, at, res)
	return res
}

func (r *memoRule) OpeningChars() (CharSet, bool) { return r.rule.OpeningChars() }

func (r *memoRule) Nullable() bool { return r.rule.Nullable() }

func (r *memoRule) String() string { return r.rule.String() }

// ForwardRule is a placeholder that is bound to its definition later, for
// recursive grammars.
type ForwardRule struct {
	name     string
	rule     Rule
	visiting atomic.Bool
}

// Forward returns an unbound rule named name. Bind it with Set before use.
func Forward(name string) *ForwardRule {
	return &ForwardRule{name: name}
}

// Set binds the rule's definition.
func (f *ForwardRule) Set(rule Rule) {
	f.rule = rule
}

func (f *ForwardRule) Match(p *Parser, at int) Result {
	if f.rule == nil {
		panic(fmt.Sprintf("packrat: forward rule %q used before Set", f.name))
	}
	return f.rule.Match(p, at)
}

// OpeningChars answers "any" while already being computed, which only
// happens for left-recursive definitions.
func (f *ForwardRule) OpeningChars() (CharSet, bool) {
	if f.rule == nil || !f.visiting.CompareAndSwap(false, true) {
		return CharSet{}, false
	}
	defer f.visiting.Store(false)
	return f.rule.OpeningChars()
}

func (f *ForwardRule) Nullable() bool {
	if f.rule == nil || !f.visiting.CompareAndSwap(false, true) {
		return true
	}
	defer f.visiting.Store(false)
	return f.rule.Nullable()
}

func (f *ForwardRule) String() string { return f.name }

type namedRule struct {
	name string
	Rule
}

// Named gives rule a name for String, without changing how it matches.
func Named(name string, rule Rule) Rule {
	return &namedRule{name: name, Rule: rule}
}

func (r *namedRule) String() string { return r.name }

func joinRules(rules []Rule, sep string) string {
	parts := make([]string, len(rules))
	for i, rule := range rules {
		parts[i] = rule.String()
	}
	return strings.Join(parts, sep)
}
