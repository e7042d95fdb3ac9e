package xlsheet

// CellType represents the type of data in a cell.
type CellType int

const (
	CellBlank CellType = iota
	CellString
	CellNumber
	CellBoolean
	CellFormula
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellBlank:
		return "Blank"
	case CellString:
		return "String"
	case CellNumber:
		return "Number"
	case CellBoolean:
		return "Boolean"
	case CellFormula:
		return "Formula"
	default:
		return "Unknown"
	}
}

// HAlign is a horizontal alignment.
type HAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"
)

// VAlign is a vertical alignment.
type VAlign string

const (
	AlignTop    VAlign = "top"
	AlignMiddle VAlign = "middle"
	AlignBottom VAlign = "bottom"
)

// Font describes text styling of a cell.
type Font struct {
	Bold   bool
	Italic bool
	Color  string
	Size   float64
}

// Style is the presentation attached to a cell. Engines never read it.
type Style struct {
	Font            *Font
	Horizontal      HAlign
	Vertical        VAlign
	BackgroundColor string
}

// Clone returns an independent copy of the style.
func (s *Style) Clone() *Style {
	if s == nil {
		return nil
	}
	c := *s
	if s.Font != nil {
		f := *s.Font
		c.Font = &f
	}
	return &c
}

// Cell holds a single spreadsheet entry.
// Value is nil, a string, a bool or a number; Formula is optional source text.
type Cell struct {
	Value   any
	Formula string
	Style   *Style
}

// NewCell creates a Cell holding value.
func NewCell(value any) Cell {
	return Cell{Value: value}
}

// Type infers the CellType from the cell's contents.
func (c Cell) Type() CellType {
	if c.Formula != "" {
		return CellFormula
	}
	return inferCellType(c.Value)
}

// Clone returns a copy of the cell that shares nothing with the original.
func (c Cell) Clone() Cell {
	return Cell{Value: c.Value, Formula: c.Formula, Style: c.Style.Clone()}
}

// inferCellType determines the CellType from a Go value.
func inferCellType(v any) CellType {
	if v == nil {
		return CellBlank
	}
	switch v.(type) {
	case bool:
		return CellBoolean
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return CellNumber
	default:
		return CellString
	}
}
