package xlsheet

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable tree of the workbook: each sheet with
// its used range and a count of formula cells.
func Describe(wb *Workbook) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workbook: %s\n", wb.Name)
	for i, s := range wb.Sheets {
		marker := " "
		if i == wb.Active {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s", marker, s.Name)
		if s.Dims.Rows == 0 || s.Dims.Cols == 0 {
			b.WriteString(" (empty)\n")
			continue
		}
		used := NewRange(NewCellAddress(0, 0), NewCellAddress(s.Dims.Rows-1, s.Dims.Cols-1))
		fmt.Fprintf(&b, " %s %s", used, used.Size())
		if n := countFormulas(s); n > 0 {
			fmt.Fprintf(&b, " formulas=%d", n)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func countFormulas(s *Sheet) int {
	n := 0
	for _, r := range s.Grid {
		for _, c := range r {
			if c.Formula != "" {
				n++
			}
		}
	}
	return n
}

// DescribePivot summarizes a pivot's configuration in one line, e.g.
// "sum of C by A x B over A1:C10 (3 rows, 2 cols)".
func DescribePivot(pt *PivotTable) string {
	cfg := pt.Config
	return fmt.Sprintf("%s of %s by %s x %s over %s (%d rows, %d cols)",
		cfg.Aggregation,
		columnNames(cfg.DataRange, cfg.Values),
		columnNames(cfg.DataRange, cfg.Rows),
		columnNames(cfg.DataRange, cfg.Columns),
		cfg.DataRange,
		len(pt.RowHeaders), len(pt.ColumnHeaders))
}

// columnNames maps range-relative indexes to sheet column letters.
func columnNames(rng Range, cols []int) string {
	if len(cols) == 0 {
		return "-"
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = ColToName(rng.Start.Col + c)
	}
	return strings.Join(names, ",")
}
