package xlsheet

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// RuleType selects how a ValidationRule checks a value.
type RuleType string

const (
	RuleNumber RuleType = "number"
	RuleText   RuleType = "text"
	RuleDate   RuleType = "date"
	RuleList   RuleType = "list"
	RuleCustom RuleType = "custom"
)

// Text rule conditions.
const (
	CondNotEmpty = "notEmpty"
	CondLength   = "length"
)

// DefaultValidationMessage is reported when a failing rule has no message.
const DefaultValidationMessage = "validation failed"

// ValidationRule constrains the values of every cell in Range.
//
// Min and Max bound numbers, text length (Min only, with the "length"
// condition) and dates (as Excel serial day numbers). For RuleCustom,
// Condition is an expression over value, row, col and address that must
// evaluate to true.
type ValidationRule struct {
	ID           string   `yaml:"id,omitempty"`
	Type         RuleType `yaml:"type"`
	Range        string   `yaml:"range"`
	Condition    string   `yaml:"condition,omitempty"`
	ErrorMessage string   `yaml:"message,omitempty"`
	ListValues   []string `yaml:"list,omitempty"`
	Min          *float64 `yaml:"min,omitempty"`
	Max          *float64 `yaml:"max,omitempty"`
}

// Validator holds validation rules and checks cell values against them.
type Validator struct {
	mu        sync.Mutex
	rules     []ValidationRule
	evaluator ConditionEvaluator
}

// NewValidator creates a Validator. A nil evaluator selects the expr-backed one.
func NewValidator(ev ConditionEvaluator) *Validator {
	if ev == nil {
		ev = NewConditionEvaluator()
	}
	return &Validator{evaluator: ev}
}

// AddRule registers a rule and returns its ID, generating one if empty.
// Custom conditions are syntax-checked up front.
func (v *Validator) AddRule(rule ValidationRule) (string, error) {
	if rule.Type == RuleCustom {
		if err := CheckCondition(rule.Condition); err != nil {
			return "", fmt.Errorf("rule %q: invalid condition %q: %w", rule.ID, rule.Condition, err)
		}
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rules = append(v.rules, rule)
	return rule.ID, nil
}

// RemoveRule deletes the rule with the given ID.
func (v *Validator) RemoveRule(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rules = slices.DeleteFunc(v.rules, func(r ValidationRule) bool { return r.ID == id })
}

// Rules returns a copy of the registered rules.
func (v *Validator) Rules() []ValidationRule {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.rules)
}

// ValidateCell checks the cell at (row, col) against every rule whose range
// contains it. It returns the message of the first failing rule and false, or
// "" and true when the value is acceptable.
func (v *Validator) ValidateCell(cell Cell, row, col int) (string, bool) {
	addr := NewCellAddress(row, col)
	for _, rule := range v.Rules() {
		if !ParseRange(rule.Range).Contains(addr) {
			continue
		}
		if !v.validateByRule(cell.Value, addr, rule) {
			if rule.ErrorMessage != "" {
				return rule.ErrorMessage, false
			}
			return DefaultValidationMessage, false
		}
	}
	return "", true
}

func (v *Validator) validateByRule(value any, addr CellAddress, rule ValidationRule) bool {
	switch rule.Type {
	case RuleNumber:
		return validateNumber(value, rule)
	case RuleText:
		return validateText(value, rule)
	case RuleDate:
		return validateDate(value, rule)
	case RuleList:
		return slices.Contains(rule.ListValues, ToText(value))
	case RuleCustom:
		ok, err := v.evaluator.IsConditionTrue(rule.Condition, map[string]any{
			"value":   value,
			"row":     addr.Row,
			"col":     addr.Col,
			"address": addr.String(),
		})
		return err == nil && ok
	default:
		return true
	}
}

func validateNumber(value any, rule ValidationRule) bool {
	n := ToNumber(value)
	if math.IsNaN(n) {
		return false
	}
	if rule.Min != nil && n < *rule.Min {
		return false
	}
	if rule.Max != nil && n > *rule.Max {
		return false
	}
	return true
}

func validateText(value any, rule ValidationRule) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	switch rule.Condition {
	case CondNotEmpty:
		return strings.TrimSpace(s) != ""
	case CondLength:
		if rule.Min != nil && float64(utf8.RuneCountInString(s)) < *rule.Min {
			return false
		}
	}
	return true
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "2006/01/02", "01/02/2006"}

// parseDate reads ISO-like date strings and Excel serial day numbers.
func parseDate(value any) (time.Time, bool) {
	if n, ok := asNumber(value); ok {
		t, err := excelize.ExcelDateToTime(n, false)
		return t, err == nil
	}
	if t, ok := value.(time.Time); ok {
		return t, true
	}
	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validateDate(value any, rule ValidationRule) bool {
	t, ok := parseDate(value)
	if !ok {
		return false
	}
	if rule.Min != nil {
		if lo, err := excelize.ExcelDateToTime(*rule.Min, false); err == nil && t.Before(lo) {
			return false
		}
	}
	if rule.Max != nil {
		if hi, err := excelize.ExcelDateToTime(*rule.Max, false); err == nil && t.After(hi) {
			return false
		}
	}
	return true
}
