package xlsheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// testdataDir returns the path to the testdata directory, creating it if needed.
func testdataDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("testdata")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

// createSalesFile writes a small sales workbook and returns its path.
// Layout of "Sales":
//
//	A1: "Region" (bold)  B1: "Product"  C1: "Amount"
//	A2: "North"          B2: "Apple"    C2: 10
//	A3: "South"          B3: "Pear"     C3: 5
//	A4: "North"          B4: "Pear"     C4: 20
//	C5: =SUM(C2:C4)
//
// A second sheet "Notes" holds a single string in A1.
func createSalesFile(t *testing.T, name string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Sales"))
	f.SetCellValue("Sales", "A1", "Region")
	f.SetCellValue("Sales", "B1", "Product")
	f.SetCellValue("Sales", "C1", "Amount")
	f.SetCellValue("Sales", "A2", "North")
	f.SetCellValue("Sales", "B2", "Apple")
	f.SetCellValue("Sales", "C2", 10)
	f.SetCellValue("Sales", "A3", "South")
	f.SetCellValue("Sales", "B3", "Pear")
	f.SetCellValue("Sales", "C3", 5)
	f.SetCellValue("Sales", "A4", "North")
	f.SetCellValue("Sales", "B4", "Pear")
	f.SetCellValue("Sales", "C4", 20)
	require.NoError(t, f.SetCellFormula("Sales", "C5", "SUM(C2:C4)"))

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sales", "A1", "A1", bold))

	_, err = f.NewSheet("Notes")
	require.NoError(t, err)
	f.SetCellValue("Notes", "A1", "hello")

	path := filepath.Join(testdataDir(t), name)
	require.NoError(t, f.SaveAs(path))
	t.Cleanup(func() { os.Remove(path) })
	return path
}

// salesSheet is the in-memory equivalent of the "Sales" sheet without the
// formula row.
func salesSheet() *Sheet {
	return SheetFromValues("Sales", [][]any{
		{"Region", "Product", "Amount"},
		{"North", "Apple", 10},
		{"South", "Pear", 5},
		{"North", "Pear", 20},
	})
}
