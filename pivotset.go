package xlsheet

import (
	"sync"

	"github.com/google/uuid"
)

// PivotSet holds the pivot tables generated for a workbook and tracks the
// active one.
type PivotSet struct {
	mu     sync.Mutex
	tables []*PivotTable
	active *PivotTable
}

// NewPivotSet creates an empty PivotSet.
func NewPivotSet() *PivotSet {
	return &PivotSet{}
}

// Create generates a pivot from s, stores it and makes it active.
// A config without an ID gets a fresh UUID.
func (p *PivotSet) Create(cfg PivotConfig, s *Sheet) *PivotTable {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	pt := GeneratePivot(s, cfg)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables = append(p.tables, pt)
	p.active = pt
	return pt
}

// Update regenerates the pivot with the given id from scratch.
// It reports false when no such pivot exists.
func (p *PivotSet) Update(id string, cfg PivotConfig, s *Sheet) (*PivotTable, bool) {
	cfg.ID = id
	pt := GeneratePivot(s, cfg)

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, t := range p.tables {
		if t.Config.ID != id {
			continue
		}
		p.tables[i] = pt
		if p.active != nil && p.active.Config.ID == id {
			p.active = pt
		}
		return pt, true
	}
	return nil, false
}

// Delete removes the pivot with the given id.
func (p *PivotSet) Delete(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.tables[:0]
	for _, t := range p.tables {
		if t.Config.ID != id {
			kept = append(kept, t)
		}
	}
	p.tables = kept
	if p.active != nil && p.active.Config.ID == id {
		p.active = nil
	}
}

// Get returns the pivot with the given id.
func (p *PivotSet) Get(id string) (*PivotTable, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.tables {
		if t.Config.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Active returns the most recently created or selected pivot, or nil.
func (p *PivotSet) Active() *PivotTable {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// List returns the stored pivots in creation order.
func (p *PivotSet) List() []*PivotTable {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*PivotTable(nil), p.tables...)
}

// Refresh regenerates every pivot against s, e.g. after the source changed.
func (p *PivotSet) Refresh(s *Sheet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, t := range p.tables {
		pt := GeneratePivot(s, t.Config)
		if p.active == t {
			p.active = pt
		}
		p.tables[i] = pt
	}
}
