package store

import "github.com/deckforge/deckforge/backend-go/internal/document"

// DefaultHistoryLimit bounds the undo stack; the oldest snapshot falls off
// when a gesture pushes past it.
const DefaultHistoryLimit = 50

type snapshot struct {
	description string
	state       *document.Presentation
}

// History is a bounded undo/redo stack of deep-copied presentation states.
// A snapshot is recorded once per gesture, before the gesture's first
// mutation, so undo restores the pre-gesture state.
type History struct {
	mem   *Memory
	limit int
	undo  []snapshot
	redo  []snapshot
}

// NewHistory builds a history over the given store. limit <= 0 uses the
// default.
func NewHistory(mem *Memory, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{mem: mem, limit: limit}
}

// RecordSnapshot pushes the current state onto the undo stack and clears the
// redo stack; a new gesture invalidates any redo branch.
func (h *History) RecordSnapshot(description string) {
	h.undo = append(h.undo, snapshot{description: description, state: h.mem.Snapshot()})
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
}

// CanUndo reports whether an undo step exists.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step exists.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Undo restores the most recent snapshot and returns its description.
// Returns false when the stack is empty.
func (h *History) Undo() (string, bool) {
	if len(h.undo) == 0 {
		return "", false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, snapshot{description: top.description, state: h.mem.Snapshot()})
	h.mem.Replace(top.state)
	return top.description, true
}

// Redo re-applies the most recently undone snapshot.
func (h *History) Redo() (string, bool) {
	if len(h.redo) == 0 {
		return "", false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, snapshot{description: top.description, state: h.mem.Snapshot()})
	h.mem.Replace(top.state)
	return top.description, true
}
