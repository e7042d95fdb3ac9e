package xlsheet_test

import (
	"context"
	"fmt"

	"github.com/javajack/xlsheet"
)

func ExampleParseAddress() {
	a := xlsheet.ParseAddress("AA10")
	fmt.Println(a.Row, a.Col, xlsheet.FormatAddress(a))
	// Output: 9 26 AA10
}

func ExampleApplyFilters() {
	rows := []xlsheet.Row{xlsheet.RowOf(1), xlsheet.RowOf(5), xlsheet.RowOf(10)}
	res := xlsheet.ApplyFilters(rows, []xlsheet.FilterCondition{
		{Column: 0, Operator: xlsheet.OpGreaterThan, Value1: 2},
	})
	fmt.Println(len(res.Retained), res.HiddenRows())
	// Output: 2 [0]
}

func ExampleGeneratePivot() {
	s := xlsheet.SheetFromValues("Data", [][]any{
		{"X", 10},
		{"X", 20},
		{"Y", 5},
	})
	pt := xlsheet.GeneratePivot(s, xlsheet.PivotConfig{
		DataRange:   xlsheet.ParseRange("A1:B3"),
		Rows:        []int{0},
		Values:      []int{1},
		Aggregation: xlsheet.AggSum,
	})
	for _, line := range pt.Grid[1:] {
		fmt.Println(line[0], line[1])
	}
	// Output:
	// X 30
	// Y 5
	// Total 35
}

func ExampleEditor() {
	ctx := context.Background()
	e, err := xlsheet.NewEditor(xlsheet.WithHistorySize(10))
	if err != nil {
		panic(err)
	}
	e.New(ctx, "budget")
	_ = e.SetCell(ctx, 0, 0, "rent")
	_ = e.SetCell(ctx, 0, 0, "food")
	_, _ = e.Undo(ctx)
	fmt.Println(e.ActiveSheet().Value(0, 0))
	// Output: rent
}
