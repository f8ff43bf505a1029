package render

import (
	"math"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

const ellipseSegments = 64

// shapePoints returns the outline polygon of a shape element in absolute
// document coordinates, before any rotation. Rotation is applied by the
// element transform so the same points serve fill, stroke and hit overlays.
func shapePoints(el *document.Element) []geometry.Point {
	x, y := el.Position.X, el.Position.Y
	w, h := el.Size.Width, el.Size.Height

	kind := document.ShapeRectangle
	radius := 0.0
	if el.Shape != nil {
		kind = el.Shape.Kind
		radius = el.Shape.CornerRadius
	}

	switch kind {
	case document.ShapeEllipse:
		pts := make([]geometry.Point, 0, ellipseSegments)
		cx, cy := x+w/2, y+h/2
		for i := 0; i < ellipseSegments; i++ {
			a := float64(i) / ellipseSegments * 2 * math.Pi
			pts = append(pts, geometry.Point{
				X: cx + w/2*math.Cos(a),
				Y: cy + h/2*math.Sin(a),
			})
		}
		return pts

	case document.ShapeTriangle:
		return []geometry.Point{
			{X: x + w/2, Y: y},
			{X: x + w, Y: y + h},
			{X: x, Y: y + h},
		}

	default:
		if radius <= 0 {
			return []geometry.Point{
				{X: x, Y: y},
				{X: x + w, Y: y},
				{X: x + w, Y: y + h},
				{X: x, Y: y + h},
			}
		}
		return roundedRectPoints(x, y, w, h, radius)
	}
}

// roundedRectPoints approximates each corner arc with fixed steps; at
// screen scale the difference from a true arc is under a pixel.
func roundedRectPoints(x, y, w, h, r float64) []geometry.Point {
	r = math.Min(r, math.Min(w/2, h/2))
	const steps = 8

	arc := func(cx, cy, from float64) []geometry.Point {
		pts := make([]geometry.Point, 0, steps+1)
		for i := 0; i <= steps; i++ {
			a := from + float64(i)/steps*math.Pi/2
			pts = append(pts, geometry.Point{
				X: cx + r*math.Cos(a),
				Y: cy + r*math.Sin(a),
			})
		}
		return pts
	}

	var pts []geometry.Point
	pts = append(pts, arc(x+w-r, y+r, -math.Pi/2)...) // top-right
	pts = append(pts, arc(x+w-r, y+h-r, 0)...)        // bottom-right
	pts = append(pts, arc(x+r, y+h-r, math.Pi/2)...)  // bottom-left
	pts = append(pts, arc(x+r, y+r, math.Pi)...)      // top-left
	return pts
}

// transformPoints maps document-space points to screen space.
func transformPoints(m geometry.Matrix2D, pts []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}
