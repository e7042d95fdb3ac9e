package xlsheet

import (
	"context"
	"sync"
	"time"

	"go.alis.build/alog"
)

// Monitor records named timestamps and the durations measured between them.
// Create one at program start and pass it to whatever needs timing; it keeps
// no global state.
type Monitor struct {
	mu       sync.Mutex
	now      func() time.Time
	marks    map[string]time.Time
	measures map[string]time.Duration
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) { m.now = now }
}

// NewMonitor creates an empty Monitor.
func NewMonitor(opts ...MonitorOption) *Monitor {
	m := &Monitor{
		now:      time.Now,
		marks:    make(map[string]time.Time),
		measures: make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mark records the current time under name.
func (m *Monitor) Mark(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks[name] = m.now()
}

// Measure stores and logs the time between two marks. It reports false when
// either mark is missing.
func (m *Monitor) Measure(ctx context.Context, name, startMark, endMark string) (time.Duration, bool) {
	m.mu.Lock()
	start, okStart := m.marks[startMark]
	end, okEnd := m.marks[endMark]
	if !okStart || !okEnd {
		m.mu.Unlock()
		return 0, false
	}
	d := end.Sub(start)
	m.measures[name] = d
	m.mu.Unlock()

	alog.Debugf(ctx, "%s: %.2fms", name, float64(d)/float64(time.Millisecond))
	return d, true
}

// Duration returns a stored measure.
func (m *Monitor) Duration(name string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.measures[name]
	return d, ok
}

// Track marks the start of name and returns a func that marks its end and
// measures it. Use with defer: defer mon.Track(ctx, "pivot")().
func (m *Monitor) Track(ctx context.Context, name string) func() {
	start, end := name+":start", name+":end"
	m.Mark(start)
	return func() {
		m.Mark(end)
		m.Measure(ctx, name, start, end)
	}
}

// Clear drops all marks and measures.
func (m *Monitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks = make(map[string]time.Time)
	m.measures = make(map[string]time.Duration)
}
