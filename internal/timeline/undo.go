package timeline

// History is a bounded undo/redo stack of Timeline snapshots. Every
// user-initiated mutation (reorder, label edit, soft delete) should call
// Push with the *prior* state before applying the mutation; loading a
// project and reconciliation must not call Push.
type History struct {
	cap    int
	past   []*Timeline
	future []*Timeline
}

// DefaultHistoryCap is the default undo depth.
const DefaultHistoryCap = 50

// NewHistory creates an empty history bounded to cap entries (DefaultHistoryCap
// if cap <= 0).
func NewHistory(cap int) *History {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &History{cap: cap}
}

// Push records prior as the state to return to on the next Undo, and
// clears the redo stack, the standard undo-tree invalidation on a new
// mutation.
func (h *History) Push(prior *Timeline) {
	h.past = append(h.past, prior.Clone())
	if len(h.past) > h.cap {
		h.past = h.past[len(h.past)-h.cap:]
	}
	h.future = nil
}

// Undo pops the most recent past snapshot, pushes current onto the future
// stack, and returns the snapshot to restore. ok is false if there is
// nothing to undo.
func (h *History) Undo(current *Timeline) (snapshot *Timeline, ok bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	n := len(h.past) - 1
	snapshot = h.past[n]
	h.past = h.past[:n]
	h.future = append(h.future, current.Clone())
	return snapshot, true
}

// Redo pops the most recent future snapshot, pushes current onto the past
// stack, and returns the snapshot to restore. ok is false if there is
// nothing to redo.
func (h *History) Redo(current *Timeline) (snapshot *Timeline, ok bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	n := len(h.future) - 1
	snapshot = h.future[n]
	h.future = h.future[:n]
	h.past = append(h.past, current.Clone())
	return snapshot, true
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.future) > 0 }
