package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/javajack/xlsheet"
	"gopkg.in/yaml.v3"
)

// Job is a YAML description of a filter, sort or pivot run.
//
//	sheet: Sales
//	range: A1:C20
//	header: true
//	filters:
//	  - {column: A, operator: equals, value1: North}
//	sorts:
//	  - {column: C, direction: desc}
//	pivot:
//	  rows: [A]
//	  columns: [B]
//	  values: [C]
//	  aggregation: sum
//
// Columns are letters or zero-based indexes, both relative to the range.
type Job struct {
	Sheet   string      `yaml:"sheet"`
	Range   string      `yaml:"range"`
	Header  bool        `yaml:"header"`
	Locale  string      `yaml:"locale"`
	Filters []jobFilter `yaml:"filters"`
	Sorts   []jobSort   `yaml:"sorts"`
	Pivot   *jobPivot   `yaml:"pivot"`
}

type jobFilter struct {
	Column   column `yaml:"column"`
	Operator string `yaml:"operator"`
	Value1   any    `yaml:"value1"`
	Value2   any    `yaml:"value2"`
}

type jobSort struct {
	Column    column `yaml:"column"`
	Direction string `yaml:"direction"`
}

type jobPivot struct {
	Name        string   `yaml:"name"`
	Rows        []column `yaml:"rows"`
	Columns     []column `yaml:"columns"`
	Values      []column `yaml:"values"`
	Aggregation string   `yaml:"aggregation"`
}

// column is a column index that may be written as a letter name in YAML.
type column int

func (c *column) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: column must be a scalar", n.Line)
	}
	v, err := parseColumn(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = v
	return nil
}

func parseColumn(s string) (column, error) {
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 {
			return 0, fmt.Errorf("negative column %d", i)
		}
		return column(i), nil
	}
	i, err := xlsheet.NameToCol(s)
	if err != nil {
		return 0, err
	}
	return column(i), nil
}

func columnsOf(cols []column) []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = int(c)
	}
	return out
}

// LoadJob reads a job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job %q: %w", path, err)
	}
	job, err := ParseJob(data)
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", path, err)
	}
	return job, nil
}

// ParseJob decodes and checks a job. Unknown keys are rejected.
func ParseJob(data []byte) (*Job, error) {
	var job Job
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := job.check(); err != nil {
		return nil, err
	}
	return &job, nil
}

var operators = []xlsheet.Operator{
	xlsheet.OpEquals, xlsheet.OpContains, xlsheet.OpGreaterThan, xlsheet.OpLessThan, xlsheet.OpBetween,
}

func (j *Job) check() error {
	if j.Range != "" {
		rng := xlsheet.ParseRange(j.Range)
		if !rng.Start.Valid() || !rng.End.Valid() {
			return fmt.Errorf("invalid range %q", j.Range)
		}
	}
	for i, f := range j.Filters {
		known := false
		for _, op := range operators {
			if string(op) == f.Operator {
				known = true
			}
		}
		if !known {
			return fmt.Errorf("filter %d: unknown operator %q", i, f.Operator)
		}
	}
	for i, s := range j.Sorts {
		if _, err := parseDirection(s.Direction); err != nil {
			return fmt.Errorf("sort %d: %w", i, err)
		}
	}
	if j.Pivot != nil {
		if _, err := xlsheet.ParseAggregation(j.Pivot.Aggregation); err != nil {
			return fmt.Errorf("pivot: %w", err)
		}
		if len(j.Pivot.Values) == 0 {
			return fmt.Errorf("pivot: at least one value column is required")
		}
	}
	return nil
}

func parseDirection(s string) (xlsheet.Direction, error) {
	switch strings.ToLower(s) {
	case "", "asc":
		return xlsheet.Asc, nil
	case "desc":
		return xlsheet.Desc, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// FilterConditions converts the job's filters.
func (j *Job) FilterConditions() []xlsheet.FilterCondition {
	out := make([]xlsheet.FilterCondition, len(j.Filters))
	for i, f := range j.Filters {
		out[i] = xlsheet.FilterCondition{
			Column:   int(f.Column),
			Operator: xlsheet.Operator(f.Operator),
			Value1:   f.Value1,
			Value2:   f.Value2,
		}
	}
	return out
}

// SortConditions converts the job's sorts.
func (j *Job) SortConditions() []xlsheet.SortCondition {
	out := make([]xlsheet.SortCondition, len(j.Sorts))
	for i, s := range j.Sorts {
		dir, _ := parseDirection(s.Direction)
		out[i] = xlsheet.SortCondition{Column: int(s.Column), Direction: dir}
	}
	return out
}

// PivotConfig converts the job's pivot over the data range rng.
func (j *Job) PivotConfig(rng xlsheet.Range) xlsheet.PivotConfig {
	agg, _ := xlsheet.ParseAggregation(j.Pivot.Aggregation)
	return xlsheet.PivotConfig{
		Name:        j.Pivot.Name,
		DataRange:   rng,
		Rows:        columnsOf(j.Pivot.Rows),
		Columns:     columnsOf(j.Pivot.Columns),
		Values:      columnsOf(j.Pivot.Values),
		Aggregation: agg,
	}
}

// parseSortKey reads a --by key such as "C", "C:desc" or "2:asc".
func parseSortKey(key string) (xlsheet.SortCondition, error) {
	name, dir, _ := strings.Cut(key, ":")
	c, err := parseColumn(strings.TrimSpace(name))
	if err != nil {
		return xlsheet.SortCondition{}, fmt.Errorf("sort key %q: %w", key, err)
	}
	d, err := parseDirection(strings.TrimSpace(dir))
	if err != nil {
		return xlsheet.SortCondition{}, fmt.Errorf("sort key %q: %w", key, err)
	}
	return xlsheet.SortCondition{Column: int(c), Direction: d}, nil
}
