package xlsheet

// Dimensions is the cached upper bound of populated rows and columns.
type Dimensions struct {
	Rows int
	Cols int
}

// Row is one row of cells. Missing trailing cells are simply absent.
type Row []Cell

// Value returns the value at col, or nil when the cell is absent.
func (r Row) Value(col int) any {
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col].Value
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for i, c := range r {
		out[i] = c.Clone()
	}
	return out
}

// RowOf builds a Row from raw values.
func RowOf(values ...any) Row {
	r := make(Row, len(values))
	for i, v := range values {
		r[i] = Cell{Value: v}
	}
	return r
}

// Sheet is a named, sparse 2D grid of cells (rows outer, columns inner).
//
// Dims must satisfy Dims.Rows >= last populated row + 1 and the same for
// columns. Every mutating method keeps it current; code writing Grid directly
// must call Recompute afterwards.
type Sheet struct {
	Name string
	Grid []Row
	Dims Dimensions
}

// NewSheet creates an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{Name: name}
}

// SheetFromValues creates a sheet whose grid holds the given raw values.
func SheetFromValues(name string, values [][]any) *Sheet {
	s := &Sheet{Name: name, Grid: make([]Row, len(values))}
	for i, vals := range values {
		s.Grid[i] = RowOf(vals...)
	}
	s.Recompute()
	return s
}

// Recompute derives Dims from the grid.
func (s *Sheet) Recompute() {
	s.Dims = Dimensions{Rows: len(s.Grid)}
	for _, r := range s.Grid {
		if len(r) > s.Dims.Cols {
			s.Dims.Cols = len(r)
		}
	}
}

// Cell returns the cell at (row, col) and whether it exists.
func (s *Sheet) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= len(s.Grid) || col < 0 || col >= len(s.Grid[row]) {
		return Cell{}, false
	}
	return s.Grid[row][col], true
}

// Value returns the value at (row, col), nil for absent cells.
func (s *Sheet) Value(row, col int) any {
	c, _ := s.Cell(row, col)
	return c.Value
}

// SetValue writes a value, growing the grid as needed. Formula and style of an
// existing cell are kept.
func (s *Sheet) SetValue(row, col int, value any) {
	s.ensure(row, col)
	s.Grid[row][col].Value = value
}

// SetCell replaces the whole cell at (row, col).
func (s *Sheet) SetCell(row, col int, cell Cell) {
	s.ensure(row, col)
	s.Grid[row][col] = cell
}

func (s *Sheet) ensure(row, col int) {
	for len(s.Grid) <= row {
		s.Grid = append(s.Grid, nil)
	}
	for len(s.Grid[row]) <= col {
		s.Grid[row] = append(s.Grid[row], Cell{Value: ""})
	}
	s.Dims.Rows = max(s.Dims.Rows, row+1)
	s.Dims.Cols = max(s.Dims.Cols, col+1)
}

// AppendRow adds a row at the bottom of the grid.
func (s *Sheet) AppendRow(r Row) {
	s.Grid = append(s.Grid, r)
	s.Dims.Rows = max(s.Dims.Rows, len(s.Grid))
	s.Dims.Cols = max(s.Dims.Cols, len(r))
}

// InsertRow inserts an empty row before index at, shifting later rows down.
// Formula references into the moved rows are rewritten to follow them.
func (s *Sheet) InsertRow(at int) {
	if at < 0 {
		at = 0
	}
	for len(s.Grid) < at {
		s.Grid = append(s.Grid, nil)
	}
	s.Grid = append(s.Grid, nil)
	copy(s.Grid[at+1:], s.Grid[at:])
	s.Grid[at] = nil
	if at < s.Dims.Rows {
		s.Dims.Rows++
	}
	s.Dims.Rows = max(s.Dims.Rows, len(s.Grid))
	s.shiftFormulas(at, 1, 0, 0)
}

// InsertColumn inserts an empty column before index at in every row that
// reaches it, shifting later cells right. Formula references follow the cells.
func (s *Sheet) InsertColumn(at int) {
	if at < 0 {
		at = 0
	}
	widest := 0
	for i, r := range s.Grid {
		if len(r) > at {
			r = append(r, Cell{})
			copy(r[at+1:], r[at:])
			r[at] = Cell{Value: ""}
			s.Grid[i] = r
		}
		widest = max(widest, len(r))
	}
	if at < s.Dims.Cols {
		s.Dims.Cols++
	}
	s.Dims.Cols = max(s.Dims.Cols, widest)
	s.shiftFormulas(0, 0, at, 1)
}

// Rows returns the grid rows. The slice is shared with the sheet.
func (s *Sheet) Rows() []Row {
	return s.Grid
}

// Clone returns a structural deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	if s == nil {
		return nil
	}
	out := &Sheet{Name: s.Name, Dims: s.Dims}
	if s.Grid != nil {
		out.Grid = make([]Row, len(s.Grid))
		for i, r := range s.Grid {
			out.Grid[i] = r.Clone()
		}
	}
	return out
}
