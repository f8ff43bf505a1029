package interaction

import "github.com/deckforge/deckforge/backend-go/internal/geometry"

// EditorState is the ephemeral UI state shared between the machine, the
// renderer options and the host: selection, viewport, and the transient
// overlays of an in-progress gesture. It is injected, never a package
// global, so the machine stays testable without a UI harness.
type EditorState struct {
	Selection []string
	Viewport  geometry.Viewport
	Canvas    geometry.Size

	// Armed creation points, document space. The text and image tools set
	// these on click; a separate commit action (inline edit finish, asset
	// pick) consumes them outside the state machine.
	PendingTextAt  *geometry.Point
	PendingImageAt *geometry.Point

	// EditingElementID marks the element under inline text edit; the
	// renderer skips it so it is not painted under the edit overlay.
	EditingElementID string

	// Live gesture overlays for the host to paint. Nil outside the
	// corresponding mode.
	SelectionBox *geometry.Rect
	DrawDraft    *geometry.Rect
}

// NewEditorState returns editor state at 1:1 zoom over the given canvas.
func NewEditorState(canvas geometry.Size) *EditorState {
	return &EditorState{
		Viewport: geometry.DefaultViewport(),
		Canvas:   canvas,
	}
}

// Selected reports whether the element id is in the selection.
func (s *EditorState) Selected(id string) bool {
	for _, sel := range s.Selection {
		if sel == id {
			return true
		}
	}
	return false
}

// SetSelection replaces the selection.
func (s *EditorState) SetSelection(ids ...string) {
	s.Selection = append(s.Selection[:0:0], ids...)
}

// AddSelection appends an id unless already present.
func (s *EditorState) AddSelection(id string) {
	if !s.Selected(id) {
		s.Selection = append(s.Selection, id)
	}
}

// ToggleSelection flips membership of an id.
func (s *EditorState) ToggleSelection(id string) {
	for i, sel := range s.Selection {
		if sel == id {
			s.Selection = append(s.Selection[:i], s.Selection[i+1:]...)
			return
		}
	}
	s.Selection = append(s.Selection, id)
}

// ClearSelection empties the selection.
func (s *EditorState) ClearSelection() {
	s.Selection = s.Selection[:0]
}
