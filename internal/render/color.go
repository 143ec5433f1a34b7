package render

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	gcolor "github.com/gookit/color"
)

var namedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"red":         {0xff, 0, 0, 0xff},
	"green":       {0, 0x80, 0, 0xff},
	"blue":        {0, 0, 0xff, 0xff},
	"yellow":      {0xff, 0xff, 0, 0xff},
	"orange":      {0xff, 0xa5, 0, 0xff},
	"purple":      {0x80, 0, 0x80, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"transparent": {0, 0, 0, 0},
}

// ParseColor understands #rgb, #rrggbb, #rrggbbaa, rgb(), rgba() and a few
// names. Anything else yields fallback.
func ParseColor(text string, fallback color.RGBA) color.RGBA {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return fallback
	}
	if c, ok := namedColors[s]; ok {
		return c
	}
	if strings.HasPrefix(s, "rgb") {
		if c, ok := parseFunctional(s); ok {
			return c
		}
		return fallback
	}

	hex := strings.TrimPrefix(s, "#")
	alpha := uint8(0xff)
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return fallback
		}
		alpha = uint8(a)
		hex = hex[:6]
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	rgb := gcolor.HexToRgb(hex)
	if len(rgb) != 3 {
		return fallback
	}
	return color.RGBA{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2]), A: alpha}
}

func parseFunctional(s string) (color.RGBA, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.RGBA{}, false
	}
	name := s[:open]
	args := strings.Split(s[open+1:len(s)-1], ",")
	if (name == "rgb" && len(args) != 3) || (name == "rgba" && len(args) != 4) {
		return color.RGBA{}, false
	}
	if name != "rgb" && name != "rgba" {
		return color.RGBA{}, false
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
		if err != nil || math.IsNaN(v) {
			return color.RGBA{}, false
		}
		ch[i] = uint8(math.Round(math.Min(255, math.Max(0, v))))
	}
	a := 1.0
	if len(args) == 4 {
		v, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		if err != nil || math.IsNaN(v) {
			return color.RGBA{}, false
		}
		a = math.Min(1, math.Max(0, v))
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(math.Round(a * 255))}, true
}

// withOpacity returns c (non-premultiplied) as a premultiplied colour with its
// alpha scaled by opacity.
func withOpacity(c color.RGBA, opacity float64) color.RGBA {
	a := float64(c.A) / 255 * math.Min(1, math.Max(0, opacity))
	return color.RGBA{
		R: uint8(math.Round(float64(c.R) * a)),
		G: uint8(math.Round(float64(c.G) * a)),
		B: uint8(math.Round(float64(c.B) * a)),
		A: uint8(math.Round(a * 255)),
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
