package xlsheet

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortCondition orders rows by the value in Column.
type SortCondition struct {
	Column    int       `yaml:"column"`
	Direction Direction `yaml:"direction"`
}

// SortRows returns a new slice holding rows ordered by conds. Earlier
// conditions take priority; rows that tie on every key keep their relative
// order. Text is compared with the root collation.
func SortRows(rows []Row, conds []SortCondition) []Row {
	return SortRowsLocale(rows, conds, language.Und)
}

// SortRowsLocale is SortRows with locale-aware ordering for tag.
func SortRowsLocale(rows []Row, conds []SortCondition, tag language.Tag) []Row {
	out := slices.Clone(rows)
	if out == nil {
		out = []Row{}
	}
	if len(conds) == 0 {
		return out
	}
	// a Collator is not safe for concurrent use; one per call
	col := collate.New(tag)
	slices.SortStableFunc(out, func(a, b Row) int {
		for _, c := range conds {
			n := compareValues(col, a.Value(c.Column), b.Value(c.Column))
			if n == 0 {
				continue
			}
			if c.Direction == Desc {
				return -n
			}
			return n
		}
		return 0
	})
	return out
}

// compareValues compares numerically when both values are numbers and by
// collation of their text otherwise.
func compareValues(col *collate.Collator, a, b any) int {
	na, aNum := asNumber(a)
	nb, bNum := asNumber(b)
	if aNum && bNum {
		return cmp.Compare(na, nb)
	}
	return col.CompareString(ToText(a), ToText(b))
}
