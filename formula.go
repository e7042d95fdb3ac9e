package xlsheet

import (
	"regexp"
	"strconv"
	"strings"
)

// formulaRef matches a cell reference with an optional sheet prefix and
// absolute markers: A1, $B$2, Sheet2!C3, 'My Sheet'!D4.
var formulaRef = regexp.MustCompile(`(?:('[^']+'|[A-Za-z_][A-Za-z0-9_.]*)!)?(\$?)([A-Z]{1,3})(\$?)(\d+)`)

// ShiftReferences rewrites the references in formula that point into sheet.
// Rows at or after fromRow move by dRows and columns at or after fromCol move
// by dCols. Unprefixed references belong to sheet. Text inside string literals
// and references to other sheets are left alone. Absolute references move too,
// as they do when a spreadsheet inserts rows.
func ShiftReferences(formula, sheet string, fromRow, dRows, fromCol, dCols int) string {
	if dRows == 0 && dCols == 0 {
		return formula
	}
	sh := shifter{sheet: sheet, fromRow: fromRow, dRows: dRows, fromCol: fromCol, dCols: dCols}

	var b strings.Builder
	inString := false
	start := 0
	for i := 0; i <= len(formula); i++ {
		if i < len(formula) && formula[i] != '"' {
			continue
		}
		seg := formula[start:i]
		if inString {
			b.WriteString(seg)
		} else {
			b.WriteString(sh.segment(seg))
		}
		if i < len(formula) {
			b.WriteByte('"')
		}
		inString = !inString
		start = i + 1
	}
	return b.String()
}

type shifter struct {
	sheet          string
	fromRow, dRows int
	fromCol, dCols int
}

// segment shifts the references in a run of formula text outside quotes.
func (sh shifter) segment(seg string) string {
	matches := formulaRef.FindAllStringSubmatchIndex(seg, -1)
	// right to left so earlier indexes stay valid
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if m[0] > 0 && isNameChar(seg[m[0]-1]) {
			continue
		}
		if m[1] < len(seg) && (isNameChar(seg[m[1]]) || seg[m[1]] == '(') {
			continue // function name such as LOG10(
		}
		if m[2] >= 0 && strings.Trim(seg[m[2]:m[3]], "'") != sh.sheet {
			continue
		}
		col := decodeColumn(seg[m[6]:m[7]])
		row, err := strconv.Atoi(seg[m[10]:m[11]])
		if err != nil {
			continue
		}
		row--
		if sh.dRows != 0 && row >= sh.fromRow {
			row += sh.dRows
		}
		if sh.dCols != 0 && col >= sh.fromCol {
			col += sh.dCols
		}
		repl := seg[m[0]:m[5]] + ColToName(col) + seg[m[8]:m[9]] + strconv.Itoa(row+1)
		seg = seg[:m[0]] + repl + seg[m[1]:]
	}
	return seg
}

func isNameChar(b byte) bool {
	return b == '_' || b == '.' || isDigit(b) || isUpper(b) || (b >= 'a' && b <= 'z')
}

// shiftFormulas applies ShiftReferences to every formula cell of s.
func (s *Sheet) shiftFormulas(fromRow, dRows, fromCol, dCols int) {
	for _, r := range s.Grid {
		for j := range r {
			if r[j].Formula != "" {
				r[j].Formula = ShiftReferences(r[j].Formula, s.Name, fromRow, dRows, fromCol, dCols)
			}
		}
	}
}
