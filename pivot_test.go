package xlsheet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePivot_SumByRow(t *testing.T) {
	s := SheetFromValues("S", [][]any{
		{"X", 10},
		{"X", 20},
		{"Y", 5},
	})

	pt := GeneratePivot(s, PivotConfig{
		DataRange:   ParseRange("A1:B3"),
		Rows:        []int{0},
		Values:      []int{1},
		Aggregation: AggSum,
	})

	assert.Equal(t, []string{"X", "Y"}, pt.RowHeaders)
	assert.Equal(t, []string{""}, pt.ColumnHeaders)
	assert.Equal(t, [][]float64{{30}, {5}}, pt.Values)
	assert.Equal(t, []float64{35}, pt.Totals)
	assert.Equal(t, [][]string{
		{"", ""},
		{"X", "30"},
		{"Y", "5"},
		{"Total", "35"},
	}, pt.Grid)
}

func TestGeneratePivot_RowsAndColumns(t *testing.T) {
	pt := GeneratePivot(salesSheet(), PivotConfig{
		DataRange:   ParseRange("A2:C4"),
		Rows:        []int{0},
		Columns:     []int{1},
		Values:      []int{2},
		Aggregation: AggSum,
	})

	assert.Equal(t, []string{"North", "South"}, pt.RowHeaders)
	assert.Equal(t, []string{"Apple", "Pear"}, pt.ColumnHeaders)
	assert.Equal(t, [][]float64{{10, 20}, {0, 5}}, pt.Values, "missing combinations are 0")
	assert.Equal(t, []float64{10, 25}, pt.Totals)
	assert.Equal(t, []string{"", "Apple", "Pear"}, pt.Grid[0])
	assert.Equal(t, []string{"Total", "10", "25"}, pt.Grid[len(pt.Grid)-1])
}

func TestGeneratePivot_ColumnHeaderOrderIsFirstSeen(t *testing.T) {
	s := SheetFromValues("S", [][]any{
		{"r1", "c2", 1},
		{"r2", "c1", 1},
		{"r1", "c3", 1},
	})
	pt := GeneratePivot(s, PivotConfig{
		DataRange:   ParseRange("A1:C3"),
		Rows:        []int{0},
		Columns:     []int{1},
		Values:      []int{2},
		Aggregation: AggCount,
	})
	// r1's columns come first, then columns first seen under r2
	assert.Equal(t, []string{"c2", "c3", "c1"}, pt.ColumnHeaders)
}

func TestGeneratePivot_CompositeRowKey(t *testing.T) {
	s := SheetFromValues("S", [][]any{
		{"a", "x", 1},
		{"a", "y", 2},
		{"a", "x", 3},
	})
	pt := GeneratePivot(s, PivotConfig{
		DataRange:   ParseRange("A1:C3"),
		Rows:        []int{0, 1},
		Values:      []int{2},
		Aggregation: AggSum,
	})
	assert.Equal(t, []string{"a|x", "a|y"}, pt.RowHeaders)
	assert.Equal(t, [][]float64{{4}, {2}}, pt.Values)
}

func TestGeneratePivot_KeyCollision(t *testing.T) {
	// "a|b"+"c" and "a"+"b|c" serialize to the same composite key; the
	// first pair seen owns the group.
	s := SheetFromValues("S", [][]any{
		{"a|b", "c", 1},
		{"a", "b|c", 2},
	})
	pt := GeneratePivot(s, PivotConfig{
		DataRange:   ParseRange("A1:C2"),
		Rows:        []int{0},
		Columns:     []int{1},
		Values:      []int{2},
		Aggregation: AggSum,
	})
	assert.Equal(t, []string{"a|b"}, pt.RowHeaders)
	assert.Equal(t, []string{"c"}, pt.ColumnHeaders)
	assert.Equal(t, [][]float64{{3}}, pt.Values)
}

func TestGeneratePivot_NonNumericCountsAsZero(t *testing.T) {
	s := SheetFromValues("S", [][]any{
		{"k", "n/a"},
		{"k", 5},
		{"k", "3kg"},
	})
	cfg := PivotConfig{
		DataRange: ParseRange("A1:B3"),
		Rows:      []int{0},
		Values:    []int{1},
	}

	cfg.Aggregation = AggSum
	assert.Equal(t, [][]float64{{8}}, GeneratePivot(s, cfg).Values)

	cfg.Aggregation = AggAverage
	pt := GeneratePivot(s, cfg)
	assert.InDelta(t, 8.0/3.0, pt.Values[0][0], 1e-9)
	assert.Equal(t, "2.67", pt.Grid[1][1])

	cfg.Aggregation = AggMin
	assert.Equal(t, [][]float64{{0}}, GeneratePivot(s, cfg).Values)

	cfg.Aggregation = AggMax
	assert.Equal(t, [][]float64{{5}}, GeneratePivot(s, cfg).Values)

	cfg.Aggregation = AggCount
	pt = GeneratePivot(s, cfg)
	assert.Equal(t, [][]float64{{3}}, pt.Values)
	assert.Equal(t, "3", pt.Grid[1][1])
}

func TestGeneratePivot_OnlyFirstValueColumnIsProjected(t *testing.T) {
	s := SheetFromValues("S", [][]any{
		{"k", 1, 100},
		{"k", 2, 200},
	})
	pt := GeneratePivot(s, PivotConfig{
		DataRange:   ParseRange("A1:C2"),
		Rows:        []int{0},
		Values:      []int{1, 2},
		Aggregation: AggSum,
	})
	assert.Equal(t, [][]float64{{3}}, pt.Values)
}

func TestGeneratePivot_EmptyRange(t *testing.T) {
	pt := GeneratePivot(NewSheet("S"), PivotConfig{
		DataRange:   ParseRange("C3:A1"),
		Rows:        []int{0},
		Values:      []int{1},
		Aggregation: AggSum,
	})
	assert.Empty(t, pt.RowHeaders)
	assert.Empty(t, pt.ColumnHeaders)
	assert.Nil(t, pt.Totals)
	assert.Equal(t, [][]string{{""}}, pt.Grid)
}

func TestGeneratePivot_BlankCellsGroupUnderEmptyKey(t *testing.T) {
	s := SheetFromValues("S", [][]any{{"x", 1}, {nil, 2}})
	pt := GeneratePivot(s, PivotConfig{
		DataRange:   ParseRange("A1:B3"),
		Rows:        []int{0},
		Values:      []int{1},
		Aggregation: AggSum,
	})
	// row 3 is outside the sheet and joins the nil row under ""
	require.Equal(t, []string{"x", ""}, pt.RowHeaders)
	assert.Equal(t, [][]float64{{1}, {2}}, pt.Values)
}

func TestAggregate(t *testing.T) {
	vals := []float64{4, -1, 3}
	assert.Equal(t, 6.0, Aggregate(vals, AggSum))
	assert.Equal(t, 2.0, Aggregate(vals, AggAverage))
	assert.Equal(t, 3.0, Aggregate(vals, AggCount))
	assert.Equal(t, 4.0, Aggregate(vals, AggMax))
	assert.Equal(t, -1.0, Aggregate(vals, AggMin))

	for _, a := range []Aggregation{AggSum, AggAverage, AggCount, AggMax, AggMin, "median"} {
		assert.Equal(t, 0.0, Aggregate(nil, a), "empty %s", a)
	}
	assert.Equal(t, 0.0, Aggregate(vals, "median"))
}

func TestFormatAggregate(t *testing.T) {
	assert.Equal(t, "30", FormatAggregate(30, AggSum))
	assert.Equal(t, "2.50", FormatAggregate(2.5, AggSum))
	assert.Equal(t, "2.00", FormatAggregate(2, AggAverage))
	assert.Equal(t, "0.33", FormatAggregate(1.0/3.0, AggAverage))
	assert.Equal(t, "7", FormatAggregate(7, AggCount))
	assert.Equal(t, "-4", FormatAggregate(-4, AggMin))
	assert.Equal(t, "10", FormatAggregate(10, AggMax))
}

func TestFormatAggregate_NonFinite(t *testing.T) {
	assert.Equal(t, "Infinity", FormatAggregate(math.Inf(1), AggSum))
	assert.Equal(t, "-Infinity", FormatAggregate(math.Inf(-1), AggMin))
	assert.Equal(t, "Infinity", FormatAggregate(math.Inf(1), AggAverage))
	assert.Equal(t, "NaN", FormatAggregate(math.NaN(), AggMax))

	s := SheetFromValues("S", [][]any{{"a", "Infinity"}, {"a", 1}})
	pt := GeneratePivot(s, PivotConfig{DataRange: ParseRange("A1:B2"), Rows: []int{0}, Values: []int{1}, Aggregation: AggSum})
	assert.Equal(t, []string{"a", "Infinity"}, pt.Grid[1])
}

func TestParseAggregation(t *testing.T) {
	a, err := ParseAggregation(" Average ")
	require.NoError(t, err)
	assert.Equal(t, AggAverage, a)

	_, err = ParseAggregation("median")
	assert.Error(t, err)
}
