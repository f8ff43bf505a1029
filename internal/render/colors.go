package render

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses #rgb, #rrggbb and #rrggbbaa. Unparseable input
// degrades to opaque black; a bad color string must never abort a frame.
func ParseHexColor(s string) color.NRGBA {
	c := color.NRGBA{A: 0xff}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	parse := func(sub string) uint8 {
		v, err := strconv.ParseUint(sub, 16, 8)
		if err != nil {
			return 0
		}
		return uint8(v)
	}

	switch len(s) {
	case 3:
		c.R = parse(s[0:1]) * 0x11
		c.G = parse(s[1:2]) * 0x11
		c.B = parse(s[2:3]) * 0x11
	case 6:
		c.R = parse(s[0:2])
		c.G = parse(s[2:4])
		c.B = parse(s[4:6])
	case 8:
		c.R = parse(s[0:2])
		c.G = parse(s[2:4])
		c.B = parse(s[4:6])
		c.A = parse(s[6:8])
	}
	return c
}

// withOpacity scales a color's alpha for element-level opacity.
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}

// lerpColor blends two colors for gradient backgrounds; t in [0,1].
func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.NRGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}
