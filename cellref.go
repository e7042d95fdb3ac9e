package xlsheet

import (
	"fmt"
	"strconv"
	"strings"
)

// CellAddress is a zero-based (row, col) position in a sheet.
// A column of -1 marks an address whose column letters could not be read.
type CellAddress struct {
	Row int // 0-based row index (displayed as Row+1)
	Col int // 0-based column index (A=0)
}

// NewCellAddress creates a CellAddress from zero-based coordinates.
func NewCellAddress(row, col int) CellAddress {
	return CellAddress{Row: row, Col: col}
}

// Valid reports whether both coordinates are non-negative.
func (c CellAddress) Valid() bool {
	return c.Row >= 0 && c.Col >= 0
}

// String formats the address as "B12".
func (c CellAddress) String() string {
	return FormatAddress(c)
}

// ParseAddress converts an address like "B12" into zero-based coordinates.
//
// It never fails: the first run of upper-case letters is read as the column and
// the first run of digits as the row. A missing column decodes to -1 and a
// missing row defaults to "1", so callers must treat Col == -1 as malformed input.
func ParseAddress(address string) CellAddress {
	letters := firstRun(address, isUpper)
	digits := firstRun(address, isDigit)
	if digits == "" {
		digits = "1"
	}
	return CellAddress{
		Row: decodeRow(digits) - 1,
		Col: decodeColumn(letters),
	}
}

// FormatAddress converts zero-based coordinates into an address like "B12".
func FormatAddress(c CellAddress) string {
	return ColToName(c.Col) + strconv.Itoa(c.Row+1)
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 701→"ZZ", 702→"AAA". Negative indexes yield "".
func ColToName(col int) string {
	var b []byte
	for n := col; n >= 0; n = n/26 - 1 {
		b = append(b, byte('A'+n%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// NameToCol converts a column name to a 0-based column index.
// Unlike ParseAddress it rejects anything that is not a column name.
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	for i := 0; i < len(name); i++ {
		if !isUpper(name[i]) {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
	}
	return decodeColumn(name), nil
}

// decodeColumn reads letters as a base-26 numeral without a zero digit (A=1..Z=26)
// and returns the zero-based result; "" decodes to -1.
func decodeColumn(letters string) int {
	result := 0
	for i := 0; i < len(letters); i++ {
		result = result*26 + int(letters[i]-'A') + 1
	}
	return result - 1
}

func decodeRow(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	return n
}

func firstRun(s string, match func(byte) bool) string {
	start := -1
	for i := 0; i < len(s); i++ {
		if match(s[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start < 0 {
		return ""
	}
	return s[start:]
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Range is a rectangular span of cells. Start is expected to be the top-left
// corner and End the bottom-right; reversed ranges are not normalized.
type Range struct {
	Start CellAddress
	End   CellAddress
}

// NewRange creates a Range from two addresses.
func NewRange(start, end CellAddress) Range {
	return Range{Start: start, End: end}
}

// ParseRange parses "A1:C10". A single address yields a one-cell range.
func ParseRange(s string) Range {
	s = strings.TrimSpace(s)
	first, last, found := strings.Cut(s, ":")
	start := ParseAddress(first)
	if !found {
		return Range{Start: start, End: start}
	}
	return Range{Start: start, End: ParseAddress(last)}
}

// String formats the range as "A1:C10".
func (r Range) String() string {
	return r.Start.String() + ":" + r.End.String()
}

// Size returns the dimensions of the range.
func (r Range) Size() Size {
	return Size{
		Width:  r.End.Col - r.Start.Col + 1,
		Height: r.End.Row - r.Start.Row + 1,
	}
}

// Contains reports whether the address lies inside the range.
func (r Range) Contains(c CellAddress) bool {
	return c.Row >= r.Start.Row && c.Row <= r.End.Row &&
		c.Col >= r.Start.Col && c.Col <= r.End.Col
}

// Size represents width (columns) and height (rows).
type Size struct {
	Width  int
	Height int
}

// String formats the Size as "(WxH)".
func (s Size) String() string {
	return fmt.Sprintf("(%dx%d)", s.Width, s.Height)
}
