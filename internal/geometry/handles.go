package geometry

import "github.com/deckforge/deckforge/backend-go/internal/document"

// Handle identifies one of the fixed control points on a selected element:
// eight compass-position resize handles plus the rotation handle floating
// above the top edge.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
	HandleRotate
)

var handleNames = map[Handle]string{
	HandleNone:        "none",
	HandleTopLeft:     "top-left",
	HandleTop:         "top",
	HandleTopRight:    "top-right",
	HandleRight:       "right",
	HandleBottomRight: "bottom-right",
	HandleBottom:      "bottom",
	HandleBottomLeft:  "bottom-left",
	HandleLeft:        "left",
	HandleRotate:      "rotate",
}

func (h Handle) String() string { return handleNames[h] }

// IsResize reports whether h is one of the eight compass handles.
func (h Handle) IsResize() bool {
	return h >= HandleTopLeft && h <= HandleLeft
}

// RotationHandleOffset is the screen-pixel distance between the rotation
// handle and the element's top-center. Divided by zoom when working in
// document units so the handle stays put visually at any zoom.
const RotationHandleOffset = 20.0

// HandlePlacement is a handle and its anchor point in unrotated document
// space. The renderer rotates these into the element's frame; the hit test
// un-rotates the query point instead.
type HandlePlacement struct {
	Handle Handle
	Point  Point
}

// HandlePlacements returns the nine handle anchors for an element in
// unrotated local space. zoom scales the rotation-handle offset so its
// screen distance stays constant.
func HandlePlacements(el *document.Element, zoom float64) []HandlePlacement {
	box := BoundingBox(el)
	cx := box.Center().X
	return []HandlePlacement{
		{HandleTopLeft, Point{box.Left, box.Top}},
		{HandleTop, Point{cx, box.Top}},
		{HandleTopRight, Point{box.Right, box.Top}},
		{HandleRight, Point{box.Right, box.Center().Y}},
		{HandleBottomRight, Point{box.Right, box.Bottom}},
		{HandleBottom, Point{cx, box.Bottom}},
		{HandleBottomLeft, Point{box.Left, box.Bottom}},
		{HandleLeft, Point{box.Left, box.Center().Y}},
		{HandleRotate, Point{cx, box.Top - RotationHandleOffset/zoom}},
	}
}

// HandleAtPoint returns the handle whose anchor lies within hitRadius
// (document units) of the query point, or HandleNone. The point is rotated
// into the element's unrotated space first, the same compensation rule as
// PointInElement. Callers derive hitRadius from a constant pixel radius
// divided by zoom so click targets keep a fixed screen size.
func HandleAtPoint(el *document.Element, p Point, hitRadius, zoom float64) Handle {
	if el.Rotation != 0 {
		p = RotatePoint(p, BoundingBox(el).Center(), -el.Rotation)
	}
	r2 := hitRadius * hitRadius
	for _, hp := range HandlePlacements(el, zoom) {
		dx := p.X - hp.Point.X
		dy := p.Y - hp.Point.Y
		if dx*dx+dy*dy <= r2 {
			return hp.Handle
		}
	}
	return HandleNone
}
