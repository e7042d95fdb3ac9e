package xlsheet

import (
	"math"
	"sort"
	"strings"
)

// Operator is a filter comparison.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpBetween     Operator = "between"
)

// FilterCondition keeps rows whose value in Column satisfies Operator.
// Value2 is only read by OpBetween.
type FilterCondition struct {
	Column   int      `yaml:"column"`
	Operator Operator `yaml:"operator"`
	Value1   any      `yaml:"value1"`
	Value2   any      `yaml:"value2,omitempty"`
}

// IndexSet is a set of row indexes.
type IndexSet map[int]struct{}

// Has reports whether i is in the set.
func (s IndexSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// Sorted returns the members in ascending order.
func (s IndexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// FilterResult is the outcome of ApplyFilters.
type FilterResult struct {
	// Retained rows in their original order.
	Retained []Row
	// Hidden holds the original (pre-filter) indexes of rejected rows.
	Hidden IndexSet
	// FailedBy maps each hidden row to the index of the first filter it failed.
	FailedBy map[int]int
}

// HiddenRows returns the hidden row indexes in ascending order.
func (r FilterResult) HiddenRows() []int {
	return r.Hidden.Sorted()
}

// ApplyFilters keeps the rows that satisfy every filter. Filters run in list
// order and evaluation of a row stops at the first failing one. The input rows
// are not modified; retained rows are shared with the input.
func ApplyFilters(rows []Row, filters []FilterCondition) FilterResult {
	res := FilterResult{
		Retained: make([]Row, 0, len(rows)),
		Hidden:   make(IndexSet),
		FailedBy: make(map[int]int),
	}
	for i, row := range rows {
		failed := -1
		for fi, f := range filters {
			if !Matches(row.Value(f.Column), f) {
				failed = fi
				break
			}
		}
		if failed >= 0 {
			res.Hidden[i] = struct{}{}
			res.FailedBy[i] = failed
			continue
		}
		res.Retained = append(res.Retained, row)
	}
	return res
}

// Matches reports whether a single value satisfies the filter. A nil value is
// "" for text operators and NaN for numeric ones, so it never passes a numeric
// comparison. Unknown operators match everything.
func Matches(v any, f FilterCondition) bool {
	switch f.Operator {
	case OpEquals:
		return strictEqual(v, f.Value1)
	case OpContains:
		return strings.Contains(ToText(v), ToText(f.Value1))
	case OpGreaterThan:
		return ToNumber(v) > ToNumber(f.Value1)
	case OpLessThan:
		return ToNumber(v) < ToNumber(f.Value1)
	case OpBetween:
		upper := f.Value2
		if upper == nil {
			upper = f.Value1
		}
		n := ToNumber(v)
		if math.IsNaN(n) {
			return false
		}
		return n >= ToNumber(f.Value1) && n <= ToNumber(upper)
	default:
		return true
	}
}
