// Package geometry provides the pure coordinate math behind the editor:
// screen/document conversion, rotation-aware containment tests, and the
// resize/rotate handle layout for selected elements.
package geometry

import (
	"math"

	"github.com/deckforge/deckforge/backend-go/internal/document"
)

// Point is a location in either screen or document space; the function
// signatures say which.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair, typically the pixel size of the canvas.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned box in document space.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains reports whether p lies inside the rect, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Intersects reports open-interval overlap: rects that merely touch along an
// edge do not intersect. The marquee selection uses this rule.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right && r.Right > other.Left &&
		r.Top < other.Bottom && r.Bottom > other.Top
}

// Normalized returns the rect with corners swapped as needed so that
// Left <= Right and Top <= Bottom. Drag rectangles can be built in any
// direction.
func (r Rect) Normalized() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// RectFromCorners builds a normalized rect from two opposite corners.
func RectFromCorners(a, b Point) Rect {
	return Rect{Left: a.X, Top: a.Y, Right: b.X, Bottom: b.Y}.Normalized()
}

// BoundingBox returns the element's rotation-agnostic bounding box. Selection
// outlines and the marquee test use this box; rotation is compensated at the
// query point instead (see PointInElement).
func BoundingBox(el *document.Element) Rect {
	return Rect{
		Left:   el.Position.X,
		Top:    el.Position.Y,
		Right:  el.Position.X + el.Size.Width,
		Bottom: el.Position.Y + el.Size.Height,
	}
}

// RotatePoint rotates p by deg degrees about the given center.
func RotatePoint(p Point, center Point, deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// PointInElement reports whether a document-space point lies inside the
// element. For rotated elements the query point is rotated by -rotation
// about the element's center and tested against the unrotated box, so the
// test stays O(1) per element.
func PointInElement(p Point, el *document.Element) bool {
	box := BoundingBox(el)
	if el.Rotation != 0 {
		p = RotatePoint(p, box.Center(), -el.Rotation)
	}
	return box.Contains(p)
}
