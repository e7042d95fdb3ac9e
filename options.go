package xlsheet

// Options holds configuration for the Editor.
type Options struct {
	historySize int
	monitor     *Monitor
	evaluator   ConditionEvaluator
	rules       []ValidationRule
}

func defaultOptions() *Options {
	return &Options{
		historySize: DefaultHistorySize,
	}
}

// Option configures the Editor.
type Option func(*Options)

// WithHistorySize sets the undo depth (default: 50).
func WithHistorySize(n int) Option {
	return func(o *Options) { o.historySize = n }
}

// WithMonitor sets the performance monitor used to time filters and pivots.
// Without one the editor creates its own.
func WithMonitor(m *Monitor) Option {
	return func(o *Options) { o.monitor = m }
}

// WithConditionEvaluator sets the evaluator for custom validation rules.
func WithConditionEvaluator(ev ConditionEvaluator) Option {
	return func(o *Options) { o.evaluator = ev }
}

// WithValidationRule registers a validation rule at construction time.
func WithValidationRule(rule ValidationRule) Option {
	return func(o *Options) { o.rules = append(o.rules, rule) }
}
