package render

import (
	"image"
	"math"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

const gradientResolution = 128

// paintBackground fills the slide rect according to its background spec.
// Image backgrounds fall back to the solid color until the cache has the
// decoded pixels; the host triggers a re-paint when the load completes.
func (r *Renderer) paintBackground(c *Canvas, view geometry.Matrix2D, slide *document.Slide) {
	bg := slide.Background
	slideRect := []geometry.Point{
		{X: 0, Y: 0},
		{X: r.docSize.Width, Y: 0},
		{X: r.docSize.Width, Y: r.docSize.Height},
		{X: 0, Y: r.docSize.Height},
	}
	fallback := func() {
		c.FillPolygon(transformPoints(view, slideRect), ParseHexColor(bg.Color))
	}

	switch bg.Type {
	case document.BackgroundGradient:
		buf := gradientBuffer(bg)
		c.DrawImage(buf, buf.Bounds(), view, r.docSize.Width, r.docSize.Height, 1)

	case document.BackgroundImage:
		img, state := r.images.Get(bg.Source)
		if state != ImageReady {
			fallback()
			return
		}
		r.paintBackgroundImage(c, view, img, bg.Fit)

	default:
		fallback()
	}
}

// gradientBuffer rasterizes a 2-stop linear gradient into a small buffer
// that gets stretched over the slide; banding at this resolution is below
// what the eye picks up on a projected deck.
func gradientBuffer(bg document.Background) *image.NRGBA {
	from := ParseHexColor(bg.Color)
	to := ParseHexColor(bg.Color2)
	buf := image.NewNRGBA(image.Rect(0, 0, gradientResolution, gradientResolution))

	for y := 0; y < gradientResolution; y++ {
		for x := 0; x < gradientResolution; x++ {
			var t float64
			switch bg.Direction {
			case document.GradientVertical:
				t = float64(y) / (gradientResolution - 1)
			case document.GradientDiagonal:
				t = (float64(x) + float64(y)) / (2 * (gradientResolution - 1))
			default: // horizontal
				t = float64(x) / (gradientResolution - 1)
			}
			buf.SetNRGBA(x, y, lerpColor(from, to, t))
		}
	}
	return buf
}

func (r *Renderer) paintBackgroundImage(c *Canvas, view geometry.Matrix2D, img image.Image, fit document.BackgroundFit) {
	srcW := float64(img.Bounds().Dx())
	srcH := float64(img.Bounds().Dy())
	if srcW == 0 || srcH == 0 {
		return
	}
	docW, docH := r.docSize.Width, r.docSize.Height

	switch fit {
	case document.BackgroundFitContain:
		scale := math.Min(docW/srcW, docH/srcH)
		w, h := srcW*scale, srcH*scale
		m := view.Multiply(geometry.Translate((docW-w)/2, (docH-h)/2))
		c.DrawImage(img, img.Bounds(), m, w, h, 1)

	case document.BackgroundFitTile:
		// Natural size, one document unit per source pixel.
		for y := 0.0; y < docH; y += srcH {
			for x := 0.0; x < docW; x += srcW {
				w := math.Min(srcW, docW-x)
				h := math.Min(srcH, docH-y)
				src := image.Rect(
					img.Bounds().Min.X, img.Bounds().Min.Y,
					img.Bounds().Min.X+int(w), img.Bounds().Min.Y+int(h),
				)
				c.DrawImage(img, src, view.Multiply(geometry.Translate(x, y)), w, h, 1)
			}
		}

	case document.BackgroundFitStretch:
		c.DrawImage(img, img.Bounds(), view, docW, docH, 1)

	default: // cover: crop the source so the slide is fully covered
		c.DrawImage(img, coverCrop(img.Bounds(), docW, docH), view, docW, docH, 1)
	}
}

// coverCrop returns the centered source sub-rectangle whose aspect ratio
// matches the destination, so scaling it fills the target without bars.
func coverCrop(src image.Rectangle, dstW, dstH float64) image.Rectangle {
	srcW := float64(src.Dx())
	srcH := float64(src.Dy())
	srcAspect := srcW / srcH
	dstAspect := dstW / dstH

	w, h := srcW, srcH
	if srcAspect > dstAspect {
		w = srcH * dstAspect
	} else {
		h = srcW / dstAspect
	}
	x0 := src.Min.X + int((srcW-w)/2)
	y0 := src.Min.Y + int((srcH-h)/2)
	return image.Rect(x0, y0, x0+int(w), y0+int(h))
}

// paintGrid draws uniform document-space grid lines one screen pixel wide.
func (r *Renderer) paintGrid(c *Canvas, view geometry.Matrix2D, spacing float64) {
	if spacing <= 0 {
		spacing = 20
	}
	col := ParseHexColor("#00000022")

	for x := 0.0; x <= r.docSize.Width; x += spacing {
		a := view.Apply(geometry.Point{X: x, Y: 0})
		b := view.Apply(geometry.Point{X: x, Y: r.docSize.Height})
		c.StrokeLine(a, b, col, 1)
	}
	for y := 0.0; y <= r.docSize.Height; y += spacing {
		a := view.Apply(geometry.Point{X: 0, Y: y})
		b := view.Apply(geometry.Point{X: r.docSize.Width, Y: y})
		c.StrokeLine(a, b, col, 1)
	}
}
