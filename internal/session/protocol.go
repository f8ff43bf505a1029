package session

import (
	"encoding/json"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

// Message is the wire envelope for both directions of an editor session.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound message types.
const (
	TypeToolSet        = "tool.set"
	TypePointerDown    = "pointer.down"
	TypePointerMove    = "pointer.move"
	TypePointerUp      = "pointer.up"
	TypePointerLeave   = "pointer.leave"
	TypeViewportUpdate = "viewport.update"
	TypeCanvasResize   = "canvas.resize"
	TypeSlideSet       = "slide.set"
	TypeUndo           = "undo"
	TypeRedo           = "redo"
	TypeSave           = "save"
)

// Outbound message types.
const (
	TypeWelcome         = "welcome"
	TypeDocSync         = "doc.sync"
	TypeElementPatch    = "el.patch"
	TypeElementAdd      = "el.add"
	TypeElementDelete   = "el.delete"
	TypeSelectionUpdate = "selection.update"
	TypeFrameInvalidate = "frame.invalidate"
	TypeError           = "error"
)

type ToolSetPayload struct {
	Tool      string `json:"tool"`
	ShapeKind string `json:"shapeKind,omitempty"`
}

type PointerPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shift bool    `json:"shift,omitempty"`
	Ctrl  bool    `json:"ctrl,omitempty"`
}

type ViewportPayload struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

type CanvasPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type SlideSetPayload struct {
	SlideID string `json:"slideId"`
}

type WelcomePayload struct {
	SessionID string                 `json:"sessionId"`
	Document  *document.Presentation `json:"document"`
	SlideID   string                 `json:"slideId"`
}

type DocSyncPayload struct {
	Document *document.Presentation `json:"document"`
}

type ElementPatchPayload struct {
	SlideID string                   `json:"slideId"`
	Updates []document.ElementUpdate `json:"updates"`
}

type ElementAddPayload struct {
	SlideID string           `json:"slideId"`
	Element document.Element `json:"element"`
}

type ElementDeletePayload struct {
	SlideID string   `json:"slideId"`
	IDs     []string `json:"ids"`
}

type SelectionPayload struct {
	IDs          []string       `json:"ids"`
	SelectionBox *geometry.Rect `json:"selectionBox,omitempty"`
	DrawDraft    *geometry.Rect `json:"drawDraft,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
