package xlsheet

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// OpenWorkbook reads an xlsx file from disk.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()
	return decodeWorkbook(f, filepath.Base(path))
}

// ReadWorkbook reads an xlsx document from r and names the workbook name.
func ReadWorkbook(r io.Reader, name string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook reader: %w", err)
	}
	defer f.Close()
	return decodeWorkbook(f, name)
}

func decodeWorkbook(f *excelize.File, name string) (*Workbook, error) {
	wb := &Workbook{Name: name}
	for _, sheetName := range f.GetSheetList() {
		s, err := decodeSheet(f, sheetName)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, s)
	}
	if len(wb.Sheets) == 0 {
		wb.Sheets = []*Sheet{NewSheet("Sheet1")}
	}
	if idx := f.GetActiveSheetIndex(); idx >= 0 && idx < len(wb.Sheets) {
		wb.Active = idx
	}
	return wb, nil
}

func decodeSheet(f *excelize.File, sheetName string) (*Sheet, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheetName, err)
	}
	s := NewSheet(sheetName)
	s.Grid = make([]Row, len(rows))
	for rowIdx, raw := range rows {
		r := make(Row, len(raw))
		for colIdx, val := range raw {
			cellName := FormatAddress(NewCellAddress(rowIdx, colIdx))
			cell := Cell{Value: val}
			if val != "" {
				ct, err := f.GetCellType(sheetName, cellName)
				if err == nil {
					cell.Value = typedValue(val, ct)
				}
			}
			if formula, err := f.GetCellFormula(sheetName, cellName); err == nil && formula != "" {
				cell.Formula = formula
			}
			if styleID, err := f.GetCellStyle(sheetName, cellName); err == nil && styleID > 0 {
				if st, err := f.GetStyle(styleID); err == nil {
					cell.Style = fromExcelizeStyle(st)
				}
			}
			r[colIdx] = cell
		}
		s.Grid[rowIdx] = r
	}
	s.Recompute()
	return s, nil
}

// typedValue turns a raw cell string into a bool, a number or leaves it as text.
func typedValue(raw string, ct excelize.CellType) any {
	switch ct {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return raw
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func fromExcelizeStyle(st *excelize.Style) *Style {
	out := &Style{}
	empty := true
	if st.Font != nil {
		out.Font = &Font{Bold: st.Font.Bold, Italic: st.Font.Italic, Color: st.Font.Color, Size: st.Font.Size}
		empty = false
	}
	if st.Alignment != nil {
		out.Horizontal = HAlign(st.Alignment.Horizontal)
		out.Vertical = VAlign(st.Alignment.Vertical)
		empty = false
	}
	if len(st.Fill.Color) > 0 {
		out.BackgroundColor = st.Fill.Color[0]
		empty = false
	}
	if empty {
		return nil
	}
	return out
}

func toExcelizeStyle(st *Style) *excelize.Style {
	out := &excelize.Style{}
	if st.Font != nil {
		out.Font = &excelize.Font{Bold: st.Font.Bold, Italic: st.Font.Italic, Color: st.Font.Color, Size: st.Font.Size}
	}
	if st.Horizontal != "" || st.Vertical != "" {
		out.Alignment = &excelize.Alignment{Horizontal: string(st.Horizontal), Vertical: string(st.Vertical)}
	}
	if st.BackgroundColor != "" {
		out.Fill = excelize.Fill{Type: "pattern", Color: []string{st.BackgroundColor}, Pattern: 1}
	}
	return out
}

// Write encodes the workbook as xlsx. Values and formulas round-trip;
// styles are written on a best-effort basis.
func (w *Workbook) Write(out io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	for i, s := range w.Sheets {
		if i == 0 {
			if s.Name != defaultSheet {
				if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
					return fmt.Errorf("rename sheet %q: %w", s.Name, err)
				}
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", s.Name, err)
		}
		if err := encodeSheet(f, s); err != nil {
			return err
		}
	}
	if w.Active > 0 && w.Active < len(w.Sheets) {
		f.SetActiveSheet(w.Active)
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func encodeSheet(f *excelize.File, s *Sheet) error {
	styles := make(map[*Style]int)
	for rowIdx, r := range s.Grid {
		for colIdx, cell := range r {
			name := FormatAddress(NewCellAddress(rowIdx, colIdx))
			switch {
			case cell.Formula != "":
				if err := f.SetCellFormula(s.Name, name, cell.Formula); err != nil {
					return fmt.Errorf("set formula %s!%s: %w", s.Name, name, err)
				}
			case cell.Value != nil && cell.Value != "":
				if err := f.SetCellValue(s.Name, name, cell.Value); err != nil {
					return fmt.Errorf("set value %s!%s: %w", s.Name, name, err)
				}
			}
			if cell.Style == nil {
				continue
			}
			id, ok := styles[cell.Style]
			if !ok {
				var err error
				id, err = f.NewStyle(toExcelizeStyle(cell.Style))
				if err != nil {
					return fmt.Errorf("create style for %s!%s: %w", s.Name, name, err)
				}
				styles[cell.Style] = id
			}
			if err := f.SetCellStyle(s.Name, name, name, id); err != nil {
				return fmt.Errorf("set style %s!%s: %w", s.Name, name, err)
			}
		}
	}
	return nil
}

// Bytes encodes the workbook as xlsx in memory.
func (w *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path, removing a partial file on failure.
func (w *Workbook) SaveAs(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	if err := w.Write(out); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}
