// Package hittest answers "what is under this screen point": the topmost
// unlocked element, or a resize/rotate handle of the current selection.
package hittest

import (
	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

// HandleHitRadius is the clickable radius around a handle in screen pixels.
// It is divided by zoom before testing in document space so the target size
// on screen never changes.
const HandleHitRadius = 6.0

// ElementAt returns the topmost unlocked element containing the screen
// point, or nil. Elements are tested front to back in paint order, so for
// overlapping elements the numerically greatest z-index wins, with later
// insertion winning exact ties. An empty slide is simply a miss.
func ElementAt(slide *document.Slide, v geometry.Viewport, canvas geometry.Size, screen geometry.Point) *document.Element {
	p := geometry.ToDocument(v, canvas, screen)

	order := document.ZOrder(slide)
	for i := len(order) - 1; i >= 0; i-- {
		el := &slide.Elements[order[i]]
		if el.Locked {
			continue
		}
		if geometry.PointInElement(p, el) {
			return el
		}
	}
	return nil
}

// HandleAt returns the handle of the primary (first) selected element under
// the screen point. Only single-element resize/rotate is supported, so the
// rest of the selection is ignored here. Empty selection is a miss, not an
// error.
func HandleAt(slide *document.Slide, selection []string, v geometry.Viewport, canvas geometry.Size, screen geometry.Point) geometry.Handle {
	if len(selection) == 0 {
		return geometry.HandleNone
	}
	el := slide.ElementByID(selection[0])
	if el == nil {
		return geometry.HandleNone
	}
	p := geometry.ToDocument(v, canvas, screen)
	return geometry.HandleAtPoint(el, p, HandleHitRadius/v.Zoom, v.Zoom)
}
