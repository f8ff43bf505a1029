// Package render paints slides onto a raster surface: background, grid,
// elements in z-order, and selection decorations. It never mutates document
// or selection state; a frame is a pure function of its inputs plus the
// image cache.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

// ErrInvalidSurface is returned when a drawing surface cannot be created.
// The caller reports it once and leaves the renderer uninitialized; no
// partial paint is ever attempted.
var ErrInvalidSurface = errors.New("render: invalid surface dimensions")

// errNoImageLoader backs the default cache of a renderer constructed
// without one; every image source then renders as a placeholder.
var errNoImageLoader = errors.New("render: no image loader configured")

// Canvas is a drawing surface over an RGBA image. All polygon input is in
// screen pixels; callers transform document-space geometry first.
type Canvas struct {
	img    *image.RGBA
	width  int
	height int
}

func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSurface
	}
	return &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}, nil
}

func (c *Canvas) Image() *image.RGBA { return c.img }
func (c *Canvas) Width() int         { return c.width }
func (c *Canvas) Height() int        { return c.height }

// Clear fills the whole surface with a single color.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
}

// FillPolygon rasterizes a closed polygon with anti-aliased coverage.
func (c *Canvas) FillPolygon(pts []geometry.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	r := &vector.Rasterizer{}
	r.Reset(c.width, c.height)
	r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(c.img, c.img.Bounds(), &image.Uniform{col}, image.Point{})
}

// StrokeLine draws a single segment of the given pixel width as a filled
// quad. Butt caps; outlines and grid lines do not need more.
func (c *Canvas) StrokeLine(a, b geometry.Point, col color.Color, width float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx := -dy / length * width / 2
	ny := dx / length * width / 2
	c.FillPolygon([]geometry.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}, col)
}

// StrokePolygon outlines a polygon segment by segment.
func (c *Canvas) StrokePolygon(pts []geometry.Point, closed bool, col color.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	for i := 0; i+1 < len(pts); i++ {
		c.StrokeLine(pts[i], pts[i+1], col, width)
	}
	if closed {
		c.StrokeLine(pts[len(pts)-1], pts[0], col, width)
	}
}

// DrawImage composites src onto the canvas under an affine transform that
// maps srcRect to the unit box (0,0)-(w,h) before the transform is applied.
// Sampling walks destination pixels and inverse-maps into the source, which
// handles rotation and non-uniform scale in one pass.
func (c *Canvas) DrawImage(src image.Image, srcRect image.Rectangle, m geometry.Matrix2D, w, h, opacity float64) {
	if srcRect.Dx() <= 0 || srcRect.Dy() <= 0 || w <= 0 || h <= 0 {
		return
	}

	// Destination bounding box of the transformed quad, clipped to canvas.
	corners := []geometry.Point{
		m.Apply(geometry.Point{X: 0, Y: 0}),
		m.Apply(geometry.Point{X: w, Y: 0}),
		m.Apply(geometry.Point{X: w, Y: h}),
		m.Apply(geometry.Point{X: 0, Y: h}),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, p := range corners[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	x0 := max(int(math.Floor(minX)), 0)
	y0 := max(int(math.Floor(minY)), 0)
	x1 := min(int(math.Ceil(maxX))+1, c.width)
	y1 := min(int(math.Ceil(maxY))+1, c.height)

	inv := m.Invert()
	sx := float64(srcRect.Dx()) / w
	sy := float64(srcRect.Dy()) / h

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			local := inv.Apply(geometry.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			if local.X < 0 || local.X >= w || local.Y < 0 || local.Y >= h {
				continue
			}
			srcX := srcRect.Min.X + int(local.X*sx)
			srcY := srcRect.Min.Y + int(local.Y*sy)
			c.blend(x, y, src.At(srcX, srcY), opacity)
		}
	}
}

// blend composites a single source pixel over the canvas with an extra
// opacity factor.
func (c *Canvas) blend(x, y int, col color.Color, opacity float64) {
	sr, sg, sb, sa := col.RGBA()
	a := float64(sa) / 0xffff * opacity
	if a <= 0 {
		return
	}
	if a >= 1 {
		c.img.Set(x, y, col)
		return
	}
	dr, dg, db, da := c.img.At(x, y).RGBA()
	mix := func(s, d uint32) uint8 {
		return uint8((float64(s)*opacity + float64(d)*(1-a)) / 0xffff * 0xff)
	}
	c.img.SetRGBA(x, y, color.RGBA{
		R: mix(sr, dr),
		G: mix(sg, dg),
		B: mix(sb, db),
		A: uint8((a + float64(da)/0xffff*(1-a)) * 0xff),
	})
}
