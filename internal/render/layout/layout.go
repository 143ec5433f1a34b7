package layout

import "image"

// Position is a placement along one axis.
type Position int

const (
	Start Position = iota
	Center
	End
)

// Inset shrinks rect by dx on the left and right and dy on the top and bottom.
func Inset(rect image.Rectangle, dx, dy int) image.Rectangle {
	if dx < 0 {
		dx = 0
	}
	if dy < 0 {
		dy = 0
	}
	out := image.Rect(rect.Min.X+dx, rect.Min.Y+dy, rect.Max.X-dx, rect.Max.Y-dy)
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	height := rect.Dy()
	if topHeightPx < 0 {
		topHeightPx = 0
	}
	if topHeightPx > height {
		topHeightPx = height
	}
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

func place(lo, hi, size int, pos Position) int {
	switch pos {
	case Start:
		return lo
	case End:
		return hi - size
	default:
		return lo + (hi-lo-size)/2
	}
}

// Place returns a widthPx x heightPx rectangle positioned horizontally in
// rect by pos and centered vertically. The result may overflow rect when it
// is larger.
func Place(rect image.Rectangle, widthPx, heightPx int, pos Position) image.Rectangle {
	rect = Normalize(rect)
	if widthPx < 0 {
		widthPx = 0
	}
	if heightPx < 0 {
		heightPx = 0
	}
	x := place(rect.Min.X, rect.Max.X, widthPx, pos)
	y := place(rect.Min.Y, rect.Max.Y, heightPx, Center)
	return image.Rect(x, y, x+widthPx, y+heightPx)
}

// AlignX returns the x at which content of widthPx starts inside rect.
func AlignX(rect image.Rectangle, widthPx int, pos Position) int {
	rect = Normalize(rect)
	return place(rect.Min.X, rect.Max.X, widthPx, pos)
}

// FitWidth limits widthPx to the width of rect.
func FitWidth(rect image.Rectangle, widthPx int) int {
	if w := Normalize(rect).Dx(); widthPx > w {
		return w
	}
	if widthPx < 0 {
		return 0
	}
	return widthPx
}
