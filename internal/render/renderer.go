package render

import (
	"image"
	"image/color"
	"math"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

// Options selects the per-frame decorations. The renderer itself holds no
// selection or hover state; the host passes in whatever this frame needs.
type Options struct {
	SelectedElementIDs   []string
	HoveredElementID     string
	ShowGrid             bool
	ShowSelectionHandles bool
	EditingElementID     string
}

// Decoration constants, in screen pixels regardless of zoom.
const (
	selectionLineWidth  = 2.0
	hoverLineWidth      = 1.5
	handleSize          = 8.0
	rotateHandleRadius  = 5.0
	rotateHandleOutline = 16
)

var (
	workspaceColor   = color.NRGBA{R: 0x2b, G: 0x2b, B: 0x31, A: 0xff}
	accentColor      = color.NRGBA{R: 0x2d, G: 0x8c, B: 0xeb, A: 0xff}
	handleFillColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	placeholderFill  = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	placeholderEdge  = color.NRGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	pendingImageFill = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
)

// Renderer owns a raster surface and paints complete frames onto it. It is
// safe to call Render repeatedly; each call repaints from scratch.
type Renderer struct {
	canvas  *Canvas
	size    geometry.Size
	docSize geometry.Size
	images  *ImageCache
}

// New creates a renderer with a surface of the given pixel dimensions.
// Surface acquisition failure is reported once here; there is no partially
// initialized renderer.
func New(width, height int, docSize geometry.Size, images *ImageCache) (*Renderer, error) {
	c, err := NewCanvas(width, height)
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = NewImageCache(func(string) (image.Image, error) {
			return nil, errNoImageLoader
		}, nil)
	}
	return &Renderer{
		canvas:  c,
		size:    geometry.Size{Width: float64(width), Height: float64(height)},
		docSize: docSize,
		images:  images,
	}, nil
}

// CanvasSize returns the surface size in pixels, as needed by the
// coordinate converters.
func (r *Renderer) CanvasSize() geometry.Size { return r.size }

// Render paints one complete frame and returns the surface. The element
// being edited inline (opts.EditingElementID) is skipped so it is not
// double-rendered under the host's edit overlay; locked elements still
// render and are only excluded from hit-testing.
func (r *Renderer) Render(slide *document.Slide, v geometry.Viewport, opts Options) *image.RGBA {
	r.canvas.Clear(workspaceColor)
	view := v.Matrix(r.size)
	r.paintScene(r.canvas, view, v.Zoom, slide, opts)
	return r.canvas.Image()
}

// Snapshot renders the slide alone at the given pixel width: no grid, no
// decorations. Used by the export endpoint.
func (r *Renderer) Snapshot(slide *document.Slide, pxWidth int) (*image.RGBA, error) {
	if pxWidth <= 0 {
		return nil, ErrInvalidSurface
	}
	scale := float64(pxWidth) / r.docSize.Width
	pxHeight := int(math.Round(r.docSize.Height * scale))

	c, err := NewCanvas(pxWidth, pxHeight)
	if err != nil {
		return nil, err
	}
	r.paintScene(c, geometry.Scale(scale, scale), scale, slide, Options{})
	return c.Image(), nil
}

func (r *Renderer) paintScene(c *Canvas, view geometry.Matrix2D, zoom float64, slide *document.Slide, opts Options) {
	r.paintBackground(c, view, slide)

	if opts.ShowGrid {
		r.paintGrid(c, view, slide.GridSize)
	}

	selected := make(map[string]bool, len(opts.SelectedElementIDs))
	for _, id := range opts.SelectedElementIDs {
		selected[id] = true
	}

	for _, idx := range document.ZOrder(slide) {
		el := &slide.Elements[idx]
		if el.ID == opts.EditingElementID {
			continue
		}
		r.paintElement(c, view, zoom, el)
	}

	if opts.HoveredElementID != "" && !selected[opts.HoveredElementID] {
		if el := slide.ElementByID(opts.HoveredElementID); el != nil {
			m := elementMatrix(view, el)
			box := geometry.BoundingBox(el)
			c.StrokePolygon(transformPoints(m, boxCorners(box)), true, accentColor, hoverLineWidth)
		}
	}

	for _, id := range opts.SelectedElementIDs {
		el := slide.ElementByID(id)
		if el == nil {
			continue
		}
		r.paintSelection(c, view, zoom, el, opts.ShowSelectionHandles)
	}
}

// elementMatrix composes the viewport transform with the element's own
// rotation about its center.
func elementMatrix(view geometry.Matrix2D, el *document.Element) geometry.Matrix2D {
	if el.Rotation == 0 {
		return view
	}
	cx, cy := el.Center()
	return view.Multiply(geometry.RotateAbout(el.Rotation, cx, cy))
}

func boxCorners(box geometry.Rect) []geometry.Point {
	return []geometry.Point{
		{X: box.Left, Y: box.Top},
		{X: box.Right, Y: box.Top},
		{X: box.Right, Y: box.Bottom},
		{X: box.Left, Y: box.Bottom},
	}
}

func (r *Renderer) paintElement(c *Canvas, view geometry.Matrix2D, zoom float64, el *document.Element) {
	m := elementMatrix(view, el)

	switch el.Type {
	case document.ElementShape:
		r.paintShape(c, m, zoom, el)
	case document.ElementImage:
		r.paintImage(c, m, zoom, el)
	case document.ElementText:
		r.paintText(c, m, el)
	}
}

func (r *Renderer) paintShape(c *Canvas, m geometry.Matrix2D, zoom float64, el *document.Element) {
	props := el.Shape
	if props == nil {
		return
	}

	if props.Kind == document.ShapeLine {
		y := el.Position.Y + el.Size.Height/2
		a := m.Apply(geometry.Point{X: el.Position.X, Y: y})
		b := m.Apply(geometry.Point{X: el.Position.X + el.Size.Width, Y: y})
		width := props.StrokeWidth
		if width <= 0 {
			width = 2
		}
		col := withOpacity(ParseHexColor(props.Stroke), el.Opacity)
		c.StrokeLine(a, b, col, width*zoom)
		return
	}

	pts := transformPoints(m, shapePoints(el))
	if props.Fill != "" {
		c.FillPolygon(pts, withOpacity(ParseHexColor(props.Fill), el.Opacity))
	}
	if props.Stroke != "" && props.StrokeWidth > 0 {
		col := withOpacity(ParseHexColor(props.Stroke), el.Opacity)
		c.StrokePolygon(pts, true, col, props.StrokeWidth*zoom)
	}
}

func (r *Renderer) paintImage(c *Canvas, m geometry.Matrix2D, zoom float64, el *document.Element) {
	props := el.Image
	if props == nil {
		return
	}
	local := m.Multiply(geometry.Translate(el.Position.X, el.Position.Y))
	w, h := el.Size.Width, el.Size.Height

	img, state := r.images.Get(props.Source)
	switch state {
	case ImagePending:
		c.FillPolygon(transformPoints(m, boxCorners(geometry.BoundingBox(el))), withOpacity(pendingImageFill, el.Opacity))
		return
	case ImageFailed:
		r.paintPlaceholder(c, m, zoom, el)
		return
	}

	srcW := float64(img.Bounds().Dx())
	srcH := float64(img.Bounds().Dy())
	if srcW == 0 || srcH == 0 {
		r.paintPlaceholder(c, m, zoom, el)
		return
	}

	switch props.Fit {
	case document.ImageFitContain:
		scale := math.Min(w/srcW, h/srcH)
		tw, th := srcW*scale, srcH*scale
		inset := local.Multiply(geometry.Translate((w-tw)/2, (h-th)/2))
		c.DrawImage(img, img.Bounds(), inset, tw, th, el.Opacity)
	case document.ImageFitStretch:
		c.DrawImage(img, img.Bounds(), local, w, h, el.Opacity)
	default: // cover
		c.DrawImage(img, coverCrop(img.Bounds(), w, h), local, w, h, el.Opacity)
	}
}

// paintPlaceholder draws the broken-image glyph: a flat box with a cross.
// A bad source never aborts the frame.
func (r *Renderer) paintPlaceholder(c *Canvas, m geometry.Matrix2D, zoom float64, el *document.Element) {
	box := geometry.BoundingBox(el)
	corners := transformPoints(m, boxCorners(box))
	c.FillPolygon(corners, withOpacity(placeholderFill, el.Opacity))
	c.StrokePolygon(corners, true, placeholderEdge, 1.5)
	c.StrokeLine(corners[0], corners[2], placeholderEdge, 1.5)
	c.StrokeLine(corners[1], corners[3], placeholderEdge, 1.5)
}

func (r *Renderer) paintText(c *Canvas, m geometry.Matrix2D, el *document.Element) {
	props := el.Text
	if props == nil || props.Content == "" {
		return
	}
	buf := renderTextBuffer(props, el.Size.Width, el.Size.Height)
	local := m.Multiply(geometry.Translate(el.Position.X, el.Position.Y))
	c.DrawImage(buf, buf.Bounds(), local, el.Size.Width, el.Size.Height, el.Opacity)
}

// paintSelection draws the selection outline and, when requested, the eight
// resize handles plus the rotation handle. Handles are laid out in the
// element's unrotated space and pushed through the rotated transform so
// they visually turn with the element while keeping a constant screen size.
func (r *Renderer) paintSelection(c *Canvas, view geometry.Matrix2D, zoom float64, el *document.Element, withHandles bool) {
	m := elementMatrix(view, el)
	box := geometry.BoundingBox(el)
	c.StrokePolygon(transformPoints(m, boxCorners(box)), true, accentColor, selectionLineWidth)

	if !withHandles {
		return
	}

	placements := geometry.HandlePlacements(el, zoom)

	// Stem from top-center to the rotation handle.
	topCenter := geometry.Point{X: box.Center().X, Y: box.Top}
	rotate := placements[len(placements)-1]
	c.StrokeLine(m.Apply(topCenter), m.Apply(rotate.Point), accentColor, 1)

	half := handleSize / 2 / zoom
	for _, hp := range placements {
		if hp.Handle == geometry.HandleRotate {
			r.paintRotateHandle(c, m, hp.Point, zoom)
			continue
		}
		square := []geometry.Point{
			{X: hp.Point.X - half, Y: hp.Point.Y - half},
			{X: hp.Point.X + half, Y: hp.Point.Y - half},
			{X: hp.Point.X + half, Y: hp.Point.Y + half},
			{X: hp.Point.X - half, Y: hp.Point.Y + half},
		}
		screen := transformPoints(m, square)
		c.FillPolygon(screen, handleFillColor)
		c.StrokePolygon(screen, true, accentColor, 1)
	}
}

func (r *Renderer) paintRotateHandle(c *Canvas, m geometry.Matrix2D, center geometry.Point, zoom float64) {
	radius := rotateHandleRadius / zoom
	pts := make([]geometry.Point, 0, rotateHandleOutline)
	for i := 0; i < rotateHandleOutline; i++ {
		a := float64(i) / rotateHandleOutline * 2 * math.Pi
		pts = append(pts, geometry.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}
	screen := transformPoints(m, pts)
	c.FillPolygon(screen, handleFillColor)
	c.StrokePolygon(screen, true, accentColor, 1)
}
