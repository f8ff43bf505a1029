package geometry

// Zoom limits. Zoom outside this range is clamped, never rejected.
const (
	ZoomMin = 0.1
	ZoomMax = 4.0
)

// Viewport is the zoom/pan transform between document and screen space.
// Pan is expressed in document units so that panning feels the same at any
// zoom level; the scale is applied about the canvas center.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// DefaultViewport is the identity mapping at 1:1 zoom.
func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

// ClampZoom returns z limited to [ZoomMin, ZoomMax].
func ClampZoom(z float64) float64 {
	if z < ZoomMin {
		return ZoomMin
	}
	if z > ZoomMax {
		return ZoomMax
	}
	return z
}

// ToScreen maps a document-space point to screen pixels:
// translate by pan, then scale about the canvas center.
func ToScreen(v Viewport, canvas Size, p Point) Point {
	cx := canvas.Width / 2
	cy := canvas.Height / 2
	return Point{
		X: cx + (p.X+v.PanX-cx)*v.Zoom,
		Y: cy + (p.Y+v.PanY-cy)*v.Zoom,
	}
}

// ToDocument is the exact inverse of ToScreen.
func ToDocument(v Viewport, canvas Size, p Point) Point {
	cx := canvas.Width / 2
	cy := canvas.Height / 2
	return Point{
		X: cx + (p.X-cx)/v.Zoom - v.PanX,
		Y: cy + (p.Y-cy)/v.Zoom - v.PanY,
	}
}

// Matrix returns the viewport transform as an affine matrix for the
// renderer's transform stack.
func (v Viewport) Matrix(canvas Size) Matrix2D {
	cx := canvas.Width / 2
	cy := canvas.Height / 2
	return Translate(cx, cy).
		Multiply(Scale(v.Zoom, v.Zoom)).
		Multiply(Translate(v.PanX-cx, v.PanY-cy))
}
