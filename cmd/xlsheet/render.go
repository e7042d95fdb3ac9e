package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/javajack/xlsheet"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	totalStyle  = numberStyle.Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// renderSheet draws every row of s under headers.
func renderSheet(headers []string, s *xlsheet.Sheet) string {
	width := max(len(headers), s.Dims.Cols)
	rows := make([][]string, len(s.Grid))
	numeric := make([][]bool, len(s.Grid))
	for i, r := range s.Grid {
		rows[i] = make([]string, width)
		numeric[i] = make([]bool, width)
		for j := 0; j < width; j++ {
			v := r.Value(j)
			rows[i][j] = xlsheet.ToText(v)
			numeric[i][j] = xlsheet.NewCell(v).Type() == xlsheet.CellNumber
		}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(numeric) && col < len(numeric[row]) && numeric[row][col] {
				return numberStyle
			}
			return cellStyle
		}).
		String()
}

// renderPivot draws a pivot grid with its totals row in bold.
func renderPivot(pt *xlsheet.PivotTable) string {
	if len(pt.Grid) == 0 {
		return ""
	}
	last := len(pt.Grid) - 2 // data row index of the totals line
	hasTotals := pt.Totals != nil
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(pt.Grid[0]...).
		Rows(pt.Grid[1:]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case hasTotals && row == last:
				if col == 0 {
					return headerStyle
				}
				return totalStyle
			case col == 0:
				return cellStyle
			}
			return numberStyle
		}).
		String()
}
