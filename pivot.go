package xlsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Aggregation is the reduction applied to each pivot group.
type Aggregation string

const (
	AggSum     Aggregation = "sum"
	AggAverage Aggregation = "average"
	AggCount   Aggregation = "count"
	AggMax     Aggregation = "max"
	AggMin     Aggregation = "min"
)

// ParseAggregation validates an aggregation name.
func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(strings.ToLower(strings.TrimSpace(s))); a {
	case AggSum, AggAverage, AggCount, AggMax, AggMin:
		return a, nil
	}
	return "", fmt.Errorf("unknown aggregation %q", s)
}

// keySep joins grouping values. It is not escaped inside values, so distinct
// key tuples can serialize to the same key.
const keySep = "|"

// TotalLabel heads the synthesized totals row.
const TotalLabel = "Total"

// PivotConfig describes a pivot table over a range of a sheet.
// Rows, Columns and Values are column indexes relative to DataRange.
type PivotConfig struct {
	ID          string
	Name        string
	DataRange   Range
	Rows        []int
	Columns     []int
	Values      []int
	Aggregation Aggregation
}

// PivotTable is a generated, read-only pivot. Regenerate it instead of editing.
type PivotTable struct {
	Config        PivotConfig
	Grid          [][]string // header row, one row per row header, totals row
	RowHeaders    []string
	ColumnHeaders []string
	Values        [][]float64 // [row header][column header], first value column only
	Totals        []float64   // column sums over Values; nil when there are no rows
}

// GeneratePivot runs extract, group, aggregate and project over s.
// Every stage is total: bad numbers count as 0 and nothing can fail.
func GeneratePivot(s *Sheet, cfg PivotConfig) *PivotTable {
	raw := Extract(s, cfg.DataRange)
	groups := groupRows(raw, cfg)
	agg := aggregateGroups(groups, cfg)
	return project(agg, cfg)
}

// group is the set of rows sharing one composite key. rowKey and colKey are
// those of the first row that created it.
type group struct {
	rowKey string
	colKey string
	rows   [][]any
}

func groupKey(row []any, cols []int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		if c >= 0 && c < len(row) {
			parts[i] = ToText(row[c])
		}
	}
	return strings.Join(parts, keySep)
}

func groupRows(raw [][]any, cfg PivotConfig) []*group {
	var order []*group
	byKey := make(map[string]*group)
	for _, row := range raw {
		rk := groupKey(row, cfg.Rows)
		ck := groupKey(row, cfg.Columns)
		composite := rk + keySep + ck
		g, ok := byKey[composite]
		if !ok {
			g = &group{rowKey: rk, colKey: ck}
			byKey[composite] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, row)
	}
	return order
}

// aggregates is rowKey → colKey → value column → aggregate. Each level is
// created on first write and remembers its first-seen key order.
type aggregates struct {
	rowOrder []string
	rows     map[string]*rowAggregates
}

type rowAggregates struct {
	colOrder []string
	cols     map[string]map[int]float64
}

func (a *aggregates) set(rk, ck string, valueCol int, v float64) {
	if a.rows == nil {
		a.rows = make(map[string]*rowAggregates)
	}
	r, ok := a.rows[rk]
	if !ok {
		r = &rowAggregates{cols: make(map[string]map[int]float64)}
		a.rows[rk] = r
		a.rowOrder = append(a.rowOrder, rk)
	}
	c, ok := r.cols[ck]
	if !ok {
		c = make(map[int]float64)
		r.cols[ck] = c
		r.colOrder = append(r.colOrder, ck)
	}
	c[valueCol] = v
}

func (a *aggregates) get(rk, ck string, valueCol int) float64 {
	r, ok := a.rows[rk]
	if !ok {
		return 0
	}
	return r.cols[ck][valueCol]
}

func aggregateGroups(groups []*group, cfg PivotConfig) *aggregates {
	agg := &aggregates{}
	for _, g := range groups {
		for _, vc := range cfg.Values {
			nums := make([]float64, len(g.rows))
			for i, row := range g.rows {
				if vc >= 0 && vc < len(row) {
					nums[i] = numberOrZero(row[vc])
				}
			}
			agg.set(g.rowKey, g.colKey, vc, Aggregate(nums, cfg.Aggregation))
		}
	}
	return agg
}

// Aggregate reduces values. Empty input yields 0 for every aggregation.
func Aggregate(values []float64, a Aggregation) float64 {
	if len(values) == 0 {
		return 0
	}
	switch a {
	case AggSum:
		return sum(values)
	case AggAverage:
		return sum(values) / float64(len(values))
	case AggCount:
		return float64(len(values))
	case AggMax:
		m := math.Inf(-1)
		for _, v := range values {
			m = math.Max(m, v)
		}
		return m
	case AggMin:
		m := math.Inf(1)
		for _, v := range values {
			m = math.Min(m, v)
		}
		return m
	default:
		return 0
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func project(agg *aggregates, cfg PivotConfig) *PivotTable {
	pt := &PivotTable{
		Config:     cfg,
		RowHeaders: append([]string{}, agg.rowOrder...),
	}

	seen := make(map[string]bool)
	pt.ColumnHeaders = []string{}
	for _, rk := range agg.rowOrder {
		for _, ck := range agg.rows[rk].colOrder {
			if !seen[ck] {
				seen[ck] = true
				pt.ColumnHeaders = append(pt.ColumnHeaders, ck)
			}
		}
	}

	header := append([]string{""}, pt.ColumnHeaders...)
	pt.Grid = append(pt.Grid, header)
	pt.Values = [][]float64{}

	for _, rk := range pt.RowHeaders {
		line := []string{rk}
		vals := make([]float64, 0, len(pt.ColumnHeaders))
		for _, ck := range pt.ColumnHeaders {
			v := 0.0
			if len(cfg.Values) > 0 {
				v = agg.get(rk, ck, cfg.Values[0])
			}
			line = append(line, FormatAggregate(v, cfg.Aggregation))
			vals = append(vals, v)
		}
		pt.Grid = append(pt.Grid, line)
		pt.Values = append(pt.Values, vals)
	}

	if len(pt.RowHeaders) > 0 {
		line := []string{TotalLabel}
		pt.Totals = make([]float64, len(pt.ColumnHeaders))
		for i := range pt.ColumnHeaders {
			for _, vals := range pt.Values {
				pt.Totals[i] += vals[i]
			}
			line = append(line, FormatAggregate(pt.Totals[i], cfg.Aggregation))
		}
		pt.Grid = append(pt.Grid, line)
	}
	return pt
}

// FormatAggregate renders a pivot value: averages with two decimals, counts
// as integers, and sum/max/min as integers when integral. Non-finite values
// render as NaN, Infinity or -Infinity.
func FormatAggregate(v float64, a Aggregation) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return formatNumber(v)
	}
	switch a {
	case AggAverage:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case AggSum, AggMax, AggMin:
		if v == math.Trunc(v) {
			return strconv.FormatFloat(v, 'f', 0, 64)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
