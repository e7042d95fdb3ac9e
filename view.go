package xlsheet

import "sync"

// View holds the filter and sort state applied to a sheet and remembers the
// sheet as it was before the first Apply so it can be restored.
type View struct {
	mu       sync.Mutex
	filters  []FilterCondition
	sorts    []SortCondition
	hidden   IndexSet
	original *Sheet
}

// NewView creates an empty View.
func NewView() *View {
	return &View{hidden: make(IndexSet)}
}

// AddFilter appends a filter. Several filters may target the same column.
func (v *View) AddFilter(f FilterCondition) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = append(v.filters, f)
}

// RemoveFilter drops every filter on column.
func (v *View) RemoveFilter(column int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = removeByColumn(v.filters, column, func(f FilterCondition) int { return f.Column })
}

// AddSort sets the sort on a column. An existing condition on the same column
// is dropped and the new one goes to the end, at the lowest priority.
func (v *View) AddSort(s SortCondition) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sorts = removeByColumn(v.sorts, s.Column, func(c SortCondition) int { return c.Column })
	v.sorts = append(v.sorts, s)
}

// RemoveSort drops the sort on column.
func (v *View) RemoveSort(column int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sorts = removeByColumn(v.sorts, column, func(c SortCondition) int { return c.Column })
}

// Filters returns a copy of the current filters.
func (v *View) Filters() []FilterCondition {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]FilterCondition(nil), v.filters...)
}

// Sorts returns a copy of the current sort conditions.
func (v *View) Sorts() []SortCondition {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]SortCondition(nil), v.sorts...)
}

// HiddenRows returns the rows hidden by the last Apply, ascending.
func (v *View) HiddenRows() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hidden.Sorted()
}

// ClearAll removes all filters, sorts and hidden rows. The remembered
// original sheet is kept.
func (v *View) ClearAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters = nil
	v.sorts = nil
	v.hidden = make(IndexSet)
}

// Apply filters then sorts a copy of s. The input sheet is never modified.
// A nil sheet yields nil.
func (v *View) Apply(s *Sheet) *Sheet {
	if s == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.original == nil {
		v.original = s.Clone()
	}
	out := s.Clone()
	res := ApplyFilters(out.Grid, v.filters)
	v.hidden = res.Hidden
	out.Grid = SortRows(res.Retained, v.sorts)
	return out
}

// ResetToOriginal returns a copy of the sheet captured by the first Apply,
// or nil if Apply has not run.
func (v *View) ResetToOriginal() *Sheet {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.original.Clone()
}

// Forget drops the remembered original, e.g. when a new file is opened.
func (v *View) Forget() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.original = nil
}

func removeByColumn[T any](items []T, column int, colOf func(T) int) []T {
	out := items[:0:0]
	for _, it := range items {
		if colOf(it) != column {
			out = append(out, it)
		}
	}
	return out
}
