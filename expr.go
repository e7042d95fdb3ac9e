package xlsheet

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ConditionEvaluator evaluates boolean conditions such as custom validation rules.
type ConditionEvaluator interface {
	IsConditionTrue(condition string, env map[string]any) (bool, error)
}

// exprEvaluator implements ConditionEvaluator using expr-lang/expr.
type exprEvaluator struct {
	cache sync.Map // condition string → compiled *vm.Program
}

// NewConditionEvaluator creates an evaluator backed by expr-lang/expr.
// Compiled programs are cached per condition string.
func NewConditionEvaluator() ConditionEvaluator {
	return &exprEvaluator{}
}

func (e *exprEvaluator) IsConditionTrue(condition string, env map[string]any) (bool, error) {
	if condition == "" {
		return false, fmt.Errorf("empty condition")
	}
	program, err := e.compile(condition)
	if err != nil {
		return false, fmt.Errorf("compile condition %q: %w", condition, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", condition, err)
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q evaluated to %T, expected bool", condition, result)
	}
	return b, nil
}

func (e *exprEvaluator) compile(condition string) (*vm.Program, error) {
	if cached, ok := e.cache.Load(condition); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(condition, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.cache.Store(condition, program)
	return program, nil
}

// CheckCondition compiles a condition for syntax checking only.
func CheckCondition(condition string) error {
	_, err := expr.Compile(condition, expr.AllowUndefinedVariables())
	return err
}
