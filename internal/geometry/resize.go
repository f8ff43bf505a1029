package geometry

import "github.com/deckforge/deckforge/backend-go/internal/document"

// MinElementSize is the smallest width or height an element may have while
// being resized, in document units.
const MinElementSize = 20.0

// ApplyResize maps a handle plus a document-space delta onto the frozen
// start geometry of an element and returns the resulting bounds. Each handle
// edits a fixed subset of {x, y, width, height}: edge handles one axis,
// corner handles both. The delta is always measured against the gesture's
// frozen start, never the previous frame, so rounding error cannot compound.
//
// A result that would push width or height under MinElementSize is rejected
// outright (ok=false) rather than clamped; clamping flips signs at the
// boundary and makes the element jitter.
func ApplyResize(start *document.Element, h Handle, dx, dy float64) (Rect, bool) {
	box := BoundingBox(start)

	switch h {
	case HandleLeft:
		box.Left += dx
	case HandleRight:
		box.Right += dx
	case HandleTop:
		box.Top += dy
	case HandleBottom:
		box.Bottom += dy
	case HandleTopLeft:
		box.Left += dx
		box.Top += dy
	case HandleTopRight:
		box.Right += dx
		box.Top += dy
	case HandleBottomLeft:
		box.Left += dx
		box.Bottom += dy
	case HandleBottomRight:
		box.Right += dx
		box.Bottom += dy
	default:
		return box, false
	}

	if box.Width() < MinElementSize || box.Height() < MinElementSize {
		return Rect{}, false
	}
	return box, true
}
