package render

import (
	"image"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/deckforge/deckforge/backend-go/internal/document"
)

const baseFontHeight = 13 // basicfont.Face7x13 glyph height

// renderTextBuffer rasterizes a text element's content into an offscreen
// buffer representing the element's w x h box. The buffer is drawn at a
// reduced scale so that compositing it back up approximates the requested
// font size; full typography is out of scope, simple word-wrap is not.
func renderTextBuffer(props *document.TextProps, w, h float64) *image.RGBA {
	size := props.FontSize
	if size <= 0 {
		size = 16
	}
	scale := size / baseFontHeight

	bufW := int(math.Ceil(w / scale))
	bufH := int(math.Ceil(h / scale))
	if bufW < 1 || bufH < 1 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	buf := image.NewRGBA(image.Rect(0, 0, bufW, bufH))
	face := basicfont.Face7x13
	col := ParseHexColor(props.Color)

	d := &font.Drawer{
		Dst:  buf,
		Src:  image.NewUniform(col),
		Face: face,
	}

	lineHeight := face.Metrics().Height.Ceil() + 2
	y := face.Metrics().Ascent.Ceil()

	for _, line := range wrapText(d, props.Content, bufW) {
		if y > bufH+lineHeight {
			break
		}
		lineWidth := d.MeasureString(line).Ceil()
		x := 0
		switch props.Align {
		case "center":
			x = (bufW - lineWidth) / 2
		case "right":
			x = bufW - lineWidth
		}
		if x < 0 {
			x = 0
		}

		d.Dot = fixed.P(x, y)
		d.DrawString(line)
		if props.Bold {
			// Face7x13 has no bold variant; a one-pixel double strike
			// reads as bold at slide scale.
			d.Dot = fixed.P(x+1, y)
			d.DrawString(line)
		}
		y += lineHeight
	}
	return buf
}

// wrapText greedily packs words into lines no wider than maxWidth pixels.
// Explicit newlines are respected; a single word wider than the box is
// emitted as its own overflowing line.
func wrapText(d *font.Drawer, content string, maxWidth int) []string {
	var lines []string
	for _, para := range strings.Split(content, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if d.MeasureString(candidate).Ceil() > maxWidth {
				lines = append(lines, current)
				current = word
			} else {
				current = candidate
			}
		}
		lines = append(lines, current)
	}
	return lines
}
