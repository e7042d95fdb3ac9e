package xlsheet

import "sync"

// DefaultHistorySize is the undo depth used when none is configured.
const DefaultHistorySize = 50

// History keeps undo and redo stacks of sheet snapshots. Snapshots are cloned
// on the way in and belong to the stack until popped.
//
// Only SaveState enforces the size bound. Redo pushes onto the undo stack
// without evicting.
type History struct {
	mu      sync.Mutex
	undo    []*Sheet
	redo    []*Sheet
	maxSize int
}

// NewHistory creates a History bounded to maxSize undo entries.
// A non-positive maxSize selects DefaultHistorySize.
func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &History{maxSize: maxSize}
}

// SaveState records current as the state to return to on the next Undo.
// Call it before applying a mutation. It evicts the oldest entry when the
// stack is full and always clears the redo stack.
func (h *History) SaveState(current *Sheet) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undo = append(h.undo, current.Clone())
	if len(h.undo) > h.maxSize {
		h.undo[0] = nil
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo returns the previous state and pushes current onto the redo stack.
// It returns nil, leaving both stacks untouched, when there is nothing to undo.
func (h *History) Undo(current *Sheet) *Sheet {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undo) == 0 {
		return nil
	}
	h.redo = append(h.redo, current.Clone())
	return pop(&h.undo)
}

// Redo returns the state undone last and pushes current onto the undo stack.
// It returns nil when there is nothing to redo.
func (h *History) Redo(current *Sheet) *Sheet {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return nil
	}
	h.undo = append(h.undo, current.Clone())
	return pop(&h.redo)
}

// NextUndo returns the sheet name of the state Undo would return.
func (h *History) NextUndo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return topName(h.undo)
}

// NextRedo returns the sheet name of the state Redo would return.
func (h *History) NextRedo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return topName(h.redo)
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
}

// CanUndo reports whether Undo would return a state.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether Redo would return a state.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// UndoLen returns the number of undo entries.
func (h *History) UndoLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoLen returns the number of redo entries.
func (h *History) RedoLen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// MaxSize returns the undo bound.
func (h *History) MaxSize() int {
	return h.maxSize
}

func topName(stack []*Sheet) (string, bool) {
	if len(stack) == 0 {
		return "", false
	}
	return stack[len(stack)-1].Name, true
}

func pop(stack *[]*Sheet) *Sheet {
	s := *stack
	top := s[len(s)-1]
	s[len(s)-1] = nil
	*stack = s[:len(s)-1]
	return top
}
