package xlsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.alis.build/alog"
)

var (
	// ErrNoWorkbook is returned by operations that need an open workbook.
	ErrNoWorkbook = errors.New("no workbook open")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a value rejected by a validation rule.
type ValidationError struct {
	Address CellAddress
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Address, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Editor is one editing session: the open workbook plus its history, view,
// pivots and validation rules. Each method maps to one user action.
// Mutating actions snapshot the active sheet into the history first.
type Editor struct {
	mu        sync.Mutex
	opts      *Options
	wb        *Workbook
	history   *History
	view      *View
	pivots    *PivotSet
	validator *Validator
	monitor   *Monitor
}

// NewEditor creates an Editor with no workbook open.
func NewEditor(opts ...Option) (*Editor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	mon := o.monitor
	if mon == nil {
		mon = NewMonitor()
	}
	e := &Editor{
		opts:      o,
		history:   NewHistory(o.historySize),
		view:      NewView(),
		pivots:    NewPivotSet(),
		validator: NewValidator(o.evaluator),
		monitor:   mon,
	}
	for _, rule := range o.rules {
		if _, err := e.validator.AddRule(rule); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// New opens a fresh workbook with one empty sheet.
func (e *Editor) New(ctx context.Context, name string) *Workbook {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open(NewWorkbook(name))
	alog.Infof(ctx, "created workbook %q", name)
	return e.wb
}

// Load opens an xlsx file from disk.
func (e *Editor) Load(ctx context.Context, path string) error {
	defer e.monitor.Track(ctx, "load")()
	wb, err := OpenWorkbook(path)
	if err != nil {
		alog.Errorf(ctx, "load %q: %v", path, err)
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open(wb)
	alog.Infof(ctx, "loaded workbook %q with %d sheets", wb.Name, len(wb.Sheets))
	return nil
}

// LoadReader opens an xlsx document from r.
func (e *Editor) LoadReader(ctx context.Context, r io.Reader, name string) error {
	wb, err := ReadWorkbook(r, name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open(wb)
	alog.Infof(ctx, "loaded workbook %q with %d sheets", wb.Name, len(wb.Sheets))
	return nil
}

func (e *Editor) open(wb *Workbook) {
	e.wb = wb
	e.history.Clear()
	e.view.ClearAll()
	e.view.Forget()
	e.pivots = NewPivotSet()
}

// Close discards the open workbook and all session state.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wb = nil
	e.history.Clear()
	e.view.ClearAll()
	e.view.Forget()
	e.pivots = NewPivotSet()
}

// Export writes the workbook as xlsx.
func (e *Editor) Export(ctx context.Context, w io.Writer) error {
	e.mu.Lock()
	wb := e.wb
	e.mu.Unlock()
	if wb == nil {
		return ErrNoWorkbook
	}
	defer e.monitor.Track(ctx, "export")()
	if err := wb.Write(w); err != nil {
		alog.Errorf(ctx, "export %q: %v", wb.Name, err)
		return fmt.Errorf("export %q: %w", wb.Name, err)
	}
	return nil
}

// Workbook returns the open workbook, or nil.
func (e *Editor) Workbook() *Workbook {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wb
}

// ActiveSheet returns the active sheet of the open workbook, or nil.
func (e *Editor) ActiveSheet() *Sheet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wb.ActiveSheet()
}

func (e *Editor) active() (*Sheet, error) {
	s := e.wb.ActiveSheet()
	if s == nil {
		return nil, ErrNoWorkbook
	}
	return s, nil
}

// SetCell validates value and writes it to the active sheet.
// A rejected value returns a *ValidationError and leaves the sheet and
// history untouched.
func (e *Editor) SetCell(ctx context.Context, row, col int, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.active()
	if err != nil {
		return err
	}
	cell, _ := s.Cell(row, col)
	cell.Value = value
	if msg, ok := e.validator.ValidateCell(cell, row, col); !ok {
		verr := &ValidationError{Address: NewCellAddress(row, col), Message: msg}
		alog.Warnf(ctx, "rejected value for %s: %s", verr.Address, msg)
		return verr
	}
	e.history.SaveState(s)
	s.SetValue(row, col, value)
	return nil
}

// InsertRow inserts an empty row before at in the active sheet.
func (e *Editor) InsertRow(ctx context.Context, at int) error {
	return e.mutate(ctx, "insert row", func(s *Sheet) { s.InsertRow(at) })
}

// InsertColumn inserts an empty column before at in the active sheet.
func (e *Editor) InsertColumn(ctx context.Context, at int) error {
	return e.mutate(ctx, "insert column", func(s *Sheet) { s.InsertColumn(at) })
}

func (e *Editor) mutate(ctx context.Context, action string, fn func(*Sheet)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.active()
	if err != nil {
		return err
	}
	e.history.SaveState(s)
	fn(s)
	alog.Debugf(ctx, "%s on %q", action, s.Name)
	return nil
}

// Undo restores the previous state of the sheet edited last and makes that
// sheet active. It reports false when there was nothing to undo.
func (e *Editor) Undo(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.active(); err != nil {
		return false, err
	}
	name, ok := e.history.NextUndo()
	if !ok {
		return false, nil
	}
	i := e.sheetIndex(name)
	if i < 0 {
		alog.Warnf(ctx, "undo: sheet %q is gone, dropping history", name)
		e.history.Clear()
		return false, nil
	}
	e.restore(i, e.history.Undo(e.wb.Sheets[i]))
	alog.Debugf(ctx, "undo on %q", name)
	return true, nil
}

// Redo reapplies the last undone state and makes its sheet active. It
// reports false when there was nothing to redo.
func (e *Editor) Redo(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.active(); err != nil {
		return false, err
	}
	name, ok := e.history.NextRedo()
	if !ok {
		return false, nil
	}
	i := e.sheetIndex(name)
	if i < 0 {
		alog.Warnf(ctx, "redo: sheet %q is gone, dropping history", name)
		e.history.Clear()
		return false, nil
	}
	e.restore(i, e.history.Redo(e.wb.Sheets[i]))
	alog.Debugf(ctx, "redo on %q", name)
	return true, nil
}

func (e *Editor) sheetIndex(name string) int {
	for i, s := range e.wb.Sheets {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (e *Editor) restore(i int, s *Sheet) {
	e.wb.Sheets[i] = s
	e.wb.Active = i
}

// AddSheet appends a sheet and makes it active.
func (e *Editor) AddSheet() (*Sheet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wb == nil {
		return nil, ErrNoWorkbook
	}
	return e.wb.AddSheet(), nil
}

// DeleteSheet removes sheet i; the last sheet cannot be removed.
// Deleting a sheet cannot be undone and clears the history.
func (e *Editor) DeleteSheet(i int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wb == nil {
		return false, ErrNoWorkbook
	}
	if !e.wb.DeleteSheet(i) {
		return false, nil
	}
	e.history.Clear()
	return true, nil
}

// SwitchSheet makes sheet i active.
func (e *Editor) SwitchSheet(i int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wb == nil {
		return false, ErrNoWorkbook
	}
	return e.wb.SwitchSheet(i), nil
}

// ApplyView returns the active sheet filtered and sorted by the current view.
// The workbook is not changed.
func (e *Editor) ApplyView(ctx context.Context) (*Sheet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.active()
	if err != nil {
		return nil, err
	}
	defer e.monitor.Track(ctx, "view")()
	out := e.view.Apply(s)
	alog.Debugf(ctx, "view on %q hides %d rows", s.Name, len(e.view.HiddenRows()))
	return out, nil
}

// CommitView replaces the active sheet with its filtered and sorted view,
// recording the previous state for undo.
func (e *Editor) CommitView(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.active()
	if err != nil {
		return err
	}
	e.history.SaveState(s)
	e.wb.Sheets[e.wb.Active] = e.view.Apply(s)
	return nil
}

// CreatePivot builds a pivot over the active sheet and stores it.
func (e *Editor) CreatePivot(ctx context.Context, cfg PivotConfig) (*PivotTable, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.active()
	if err != nil {
		return nil, err
	}
	defer e.monitor.Track(ctx, "pivot")()
	pt := e.pivots.Create(cfg, s)
	alog.Debugf(ctx, "pivot %s over %s: %d rows x %d cols", pt.Config.ID, cfg.DataRange, len(pt.RowHeaders), len(pt.ColumnHeaders))
	return pt, nil
}

// RefreshPivots regenerates every stored pivot from the active sheet.
func (e *Editor) RefreshPivots(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.active()
	if err != nil {
		return err
	}
	defer e.monitor.Track(ctx, "pivot-refresh")()
	e.pivots.Refresh(s)
	return nil
}

// History returns the undo/redo history.
func (e *Editor) History() *History { return e.history }

// View returns the filter/sort state.
func (e *Editor) View() *View { return e.view }

// Pivots returns the stored pivot tables.
func (e *Editor) Pivots() *PivotSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pivots
}

// Validator returns the validation rules.
func (e *Editor) Validator() *Validator { return e.validator }

// Monitor returns the performance monitor.
func (e *Editor) Monitor() *Monitor { return e.monitor }
