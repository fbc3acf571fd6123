package packrat

import "fmt"

// Policy selects how the memo table is invalidated when the input changes.
type Policy int

const (
	// PolicyPrecise keeps every entry whose examined region does not touch
	// the edit, and shifts entries that start after the edit.
	PolicyPrecise Policy = iota

	// PolicyConservative drops every entry starting at or after the edit,
	// plus earlier entries whose examined region reaches it.
	PolicyConservative
)

func (p Policy) String() string {
	switch p {
	case PolicyPrecise:
		return "precise"
	case PolicyConservative:
		return "conservative"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "precise", "":
		return PolicyPrecise, nil
	case "conservative":
		return PolicyConservative, nil
	}
	return PolicyPrecise, fmt.Errorf("unknown memo policy %q", name)
}

type memoEntry struct {
	rule   int
	result Result
}

// MemoTable holds memoized results indexed by position, then rule. Each
// position holds a short list since only a handful of rules are memoized.
type MemoTable struct {
	policy  Policy
	columns [][]memoEntry
}

// NewMemoTable creates an empty table using policy.
func NewMemoTable(policy Policy) *MemoTable {
	return &MemoTable{policy: policy}
}

// Policy returns the invalidation policy.
func (m *MemoTable) Policy() Policy {
	return m.policy
}

func (m *MemoTable) lookup(rule, at int) (Result, bool) {
	if at >= len(m.columns) {
		return Result{}, false
	}
	for _, entry := range m.columns[at] {
		if entry.rule == rule {
			return entry.result, true
		}
	}
	return Result{}, false
}

func (m *MemoTable) store(rule, at int, res Result) {
	if at >= len(m.columns) {
		grown := make([][]memoEntry, at+1, max(at+1, 2*len(m.columns)))
		copy(grown, m.columns)
		m.columns = grown
	}
	column := m.columns[at]
	for i := range column {
		if column[i].rule == rule {
			column[i].result = res
			return
		}
	}
	m.columns[at] = append(column, memoEntry{rule: rule, result: res})
}

// ApplyEdit updates the table for the replacement of the units in [lo, hi)
// (old coordinates) by newLength units.
func (m *MemoTable) ApplyEdit(lo, hi, newLength int) {
	if lo < 0 || hi < lo {
		m.Reset()
		return
	}

	// Entries before the edit survive only if they never looked at it.
	for at := 0; at < min(lo, len(m.columns)); at++ {
		column := m.columns[at]
		kept := column[:0:0]
		for _, entry := range column {
			if at+entry.result.Examined <= lo {
				kept = append(kept, entry)
			}
		}
		m.columns[at] = kept
	}

	if m.policy == PolicyConservative || lo >= len(m.columns) {
		if lo < len(m.columns) {
			clear(m.columns[lo:])
			m.columns = m.columns[:lo]
		}
		return
	}

	var tail [][]memoEntry
	if hi < len(m.columns) {
		tail = m.columns[hi:]
	}
	columns := make([][]memoEntry, 0, lo+newLength+len(tail))
	columns = append(columns, m.columns[:lo]...)
	columns = append(columns, make([][]memoEntry, newLength)...)
	columns = append(columns, tail...)
	m.columns = columns
}

// Reset drops every entry.
func (m *MemoTable) Reset() {
	m.columns = nil
}

// Len returns the number of memoized results.
func (m *MemoTable) Len() int {
	n := 0
	for _, column := range m.columns {
		n += len(column)
	}
	return n
}
