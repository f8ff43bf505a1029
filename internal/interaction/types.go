// Package interaction turns raw pointer events into document mutations and
// selection changes. A Machine owns a single gesture session at a time and
// drives it through idle, selecting, dragging, resizing, rotating and
// drawing; all deltas are computed against state frozen at gesture start so
// the result is independent of how many move events arrive in between.
package interaction

import (
	"fmt"

	"github.com/deckforge/deckforge/backend-go/internal/document"
)

// Tool is the active editing tool. It decides what a pointer-down means.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolText
	ToolImage
	ToolShape
)

var toolNames = map[Tool]string{
	ToolSelect: "select",
	ToolPan:    "pan",
	ToolText:   "text",
	ToolImage:  "image",
	ToolShape:  "shape",
}

func (t Tool) String() string { return toolNames[t] }

// ParseTool maps a wire name onto a Tool.
func ParseTool(name string) (Tool, error) {
	for t, n := range toolNames {
		if n == name {
			return t, nil
		}
	}
	return ToolSelect, fmt.Errorf("interaction: unknown tool %q", name)
}

// Mode is the state of the gesture in progress.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelecting
	ModeDragging
	ModeResizing
	ModeRotating
	ModeDrawing
)

var modeNames = map[Mode]string{
	ModeIdle:      "idle",
	ModeSelecting: "selecting",
	ModeDragging:  "dragging",
	ModeResizing:  "resizing",
	ModeRotating:  "rotating",
	ModeDrawing:   "drawing",
}

func (m Mode) String() string { return modeNames[m] }

// PointerKind distinguishes the four pointer events the machine consumes.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
)

var pointerKindNames = map[PointerKind]string{
	PointerDown:  "down",
	PointerMove:  "move",
	PointerUp:    "up",
	PointerLeave: "leave",
}

func (k PointerKind) String() string { return pointerKindNames[k] }

// ParsePointerKind maps a wire name onto a PointerKind.
func ParsePointerKind(name string) (PointerKind, error) {
	for k, n := range pointerKindNames {
		if n == name {
			return k, nil
		}
	}
	return PointerDown, fmt.Errorf("interaction: unknown pointer kind %q", name)
}

// PointerEvent is one raw input sample in screen space. The machine converts
// to document space itself so hosts never need the viewport math.
type PointerEvent struct {
	Kind  PointerKind `json:"kind"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Shift bool        `json:"shift"`
	Ctrl  bool        `json:"ctrl"`
}

// DocumentStore is the authoritative element data the machine mutates. All
// methods act on the slide currently being edited; the host rebinds the
// store when the user switches slides.
type DocumentStore interface {
	Slide() *document.Slide
	UpdateElement(id string, changes document.ElementPatch) error
	UpdateElements(updates []document.ElementUpdate) error
	AddElement(el document.Element) error
	DeleteElements(ids []string) error
}

// History records undo snapshots. The machine calls RecordSnapshot exactly
// once per gesture, before the gesture's first mutation.
type History interface {
	RecordSnapshot(description string)
}
