package render

import (
	"image"
	"image/color"
)

// Global render configuration for colors and logical canvas.
var (
	// Fallbacks for unparseable configured colours.
	DefaultText       = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	DefaultBackground = color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF}
	DefaultShadow     = color.RGBA{A: 0xFF}

	// Kiosk screens have no page behind the overlay.
	KioskBackground = color.RGBA{A: 0xFF}

	// Logical canvas size; scaled to framebuffer.
	CanvasWidth  = 1920
	CanvasHeight = 1080
)

// CanvasSize is the logical canvas as a point.
func CanvasSize() image.Point {
	return image.Pt(CanvasWidth, CanvasHeight)
}
