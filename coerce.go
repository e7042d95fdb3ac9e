package xlsheet

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPrefix matches the longest leading number in a string, the way
// spreadsheet front ends read "12px" as 12.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// asNumber reports whether v is a Go numeric type and returns it as float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// ToNumber coerces a cell value to a number. Numbers pass through, strings are
// read up to the end of their leading numeric prefix, and everything else
// (nil, bools, text without a prefix) is NaN.
func ToNumber(v any) float64 {
	if n, ok := asNumber(v); ok {
		return n
	}
	return parseLeadingFloat(ToText(v))
}

// numberOrZero is ToNumber with NaN mapped to 0; aggregation uses it.
func numberOrZero(v any) float64 {
	if v == nil {
		return 0
	}
	n := ToNumber(v)
	if math.IsNaN(n) {
		return 0
	}
	return n
}

func parseLeadingFloat(s string) float64 {
	m := numericPrefix.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == "" {
		return math.NaN()
	}
	switch m {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// ParseFloat yields ±Inf on overflow, which is what we want
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

// ToText coerces a cell value to its display string; nil becomes "".
func ToText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	}
	if n, ok := asNumber(v); ok {
		return formatNumber(n)
	}
	return fmt.Sprint(v)
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.Abs(n) >= 1e21:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// strictEqual compares two values without type coercion. Numbers of any Go
// numeric type are equal when their values are; other values must share both
// type and value.
func strictEqual(a, b any) bool {
	na, aNum := asNumber(a)
	nb, bNum := asNumber(b)
	if aNum || bNum {
		return aNum && bNum && na == nb
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	return false
}
