package xlsheet

import "fmt"

// Workbook is an open spreadsheet file: an ordered list of sheets with one active.
type Workbook struct {
	Name   string
	Sheets []*Sheet
	Active int
}

// NewWorkbook creates a workbook holding a single empty "Sheet1".
func NewWorkbook(name string) *Workbook {
	return &Workbook{
		Name:   name,
		Sheets: []*Sheet{NewSheet("Sheet1")},
	}
}

// ActiveSheet returns the active sheet, or nil when the workbook has none.
func (w *Workbook) ActiveSheet() *Sheet {
	if w == nil || w.Active < 0 || w.Active >= len(w.Sheets) {
		return nil
	}
	return w.Sheets[w.Active]
}

// SheetByName returns the sheet with the given name.
func (w *Workbook) SheetByName(name string) (*Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// AddSheet appends a new empty sheet named "SheetN" and makes it active.
func (w *Workbook) AddSheet() *Sheet {
	n := len(w.Sheets) + 1
	name := fmt.Sprintf("Sheet%d", n)
	for _, taken := w.SheetByName(name); taken; _, taken = w.SheetByName(name) {
		n++
		name = fmt.Sprintf("Sheet%d", n)
	}
	s := NewSheet(name)
	w.Sheets = append(w.Sheets, s)
	w.Active = len(w.Sheets) - 1
	return s
}

// DeleteSheet removes the sheet at index i. The last remaining sheet cannot be
// deleted; it reports false in that case or when i is out of range.
func (w *Workbook) DeleteSheet(i int) bool {
	if len(w.Sheets) <= 1 || i < 0 || i >= len(w.Sheets) {
		return false
	}
	w.Sheets = append(w.Sheets[:i], w.Sheets[i+1:]...)
	if w.Active >= len(w.Sheets) || w.Active > i {
		w.Active--
	}
	if w.Active < 0 {
		w.Active = 0
	}
	return true
}

// SwitchSheet makes sheet i active. Out-of-range indexes are ignored.
func (w *Workbook) SwitchSheet(i int) bool {
	if i < 0 || i >= len(w.Sheets) {
		return false
	}
	w.Active = i
	return true
}

// Clone returns a deep copy of the workbook.
func (w *Workbook) Clone() *Workbook {
	out := &Workbook{Name: w.Name, Active: w.Active, Sheets: make([]*Sheet, len(w.Sheets))}
	for i, s := range w.Sheets {
		out.Sheets[i] = s.Clone()
	}
	return out
}
