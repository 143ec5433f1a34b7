package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/rook-computer/bannercast/internal/assets"
	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/present"
	"github.com/rook-computer/bannercast/internal/render/layout"
)

const (
	boxPaddingX   = 48
	captionGap    = 8
	bounceTravel  = 12
	boldThreshold = 600

	// Raster limits. Configurations decoded from URLs or received from the
	// bridge are not range checked, so the rasteriser bounds every size that
	// drives an allocation or a loop.
	maxFontSize      = 256
	maxStrokeWidth   = 12
	maxLetterSpacing = 64
	maxShadowExtent  = 64
)

// BannerRenderer rasterises a presentation onto a transparent canvas, the
// same way the overlay page lays it out in a browser.
type BannerRenderer struct {
	regular *truetype.Font
	bold    *truetype.Font

	// faces are not safe for concurrent use; mu serializes Render.
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size int
}

func NewBannerRenderer() (*BannerRenderer, error) {
	regular, err := truetype.Parse(assets.FontRegularTTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(assets.FontBoldTTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &BannerRenderer{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

func (r *BannerRenderer) face(style present.TextStyle) font.Face {
	key := faceKey{bold: style.FontWeight >= boldThreshold, size: style.FontSize}
	if key.size <= 0 {
		key.size = 16
	}
	if f, ok := r.faces[key]; ok {
		return f
	}
	ttf := r.regular
	if key.bold {
		ttf = r.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: float64(key.size), DPI: 72, Hinting: font.HintingFull})
	r.faces[key] = f
	return f
}

// textRun is a measured single line of text.
type textRun struct {
	text    string
	face    font.Face
	spacing fixed.Int26_6
	width   int
	ascent  int
	height  int
}

// rasterStyle bounds style for a canvas of the given size. Glyphs never get
// taller than the canvas.
func rasterStyle(style present.TextStyle, size image.Point) present.TextStyle {
	style.FontSize = min(max(style.FontSize, 1), maxFontSize, max(size.Y, 1))
	style.Stroke.Width = min(max(style.Stroke.Width, 0), maxStrokeWidth)
	if math.IsNaN(style.LetterSpacingPx) {
		style.LetterSpacingPx = 0
	}
	style.LetterSpacingPx = math.Min(maxLetterSpacing, math.Max(-maxLetterSpacing, style.LetterSpacingPx))

	if len(style.Shadows) == 0 {
		return style
	}
	shadows := make([]present.Shadow, len(style.Shadows))
	for i, sh := range style.Shadows {
		sh.Blur = min(max(sh.Blur, 0), maxShadowExtent)
		sh.OffsetX = min(max(sh.OffsetX, -maxShadowExtent), maxShadowExtent)
		sh.OffsetY = min(max(sh.OffsetY, -maxShadowExtent), maxShadowExtent)
		shadows[i] = sh
	}
	style.Shadows = shadows
	return style
}

// maxRunWidth keeps measured widths far from int overflow for very long
// texts; anything this wide is off canvas anyway.
const maxRunWidth = 1 << 24

func (r *BannerRenderer) measure(text string, style present.TextStyle) textRun {
	if style.Uppercase {
		text = strings.ToUpper(text)
	}
	face := r.face(style)
	run := textRun{text: text, face: face, spacing: fixed.Int26_6(math.Round(style.LetterSpacingPx * 64))}

	var w int64
	prev := rune(-1)
	for _, c := range text {
		if prev >= 0 {
			w += int64(face.Kern(prev, c))
		}
		adv, _ := face.GlyphAdvance(c)
		w += int64(adv + run.spacing)
		prev = c
		if w > maxRunWidth<<6 {
			break
		}
	}
	m := face.Metrics()
	run.width = int(min(max((w+63)>>6, 0), maxRunWidth))
	run.ascent = m.Ascent.Ceil()
	run.height = m.Ascent.Ceil() + m.Descent.Ceil()
	return run
}

// mask draws the run into an alpha mask covering the text plus pad pixels
// on every side, with the pen starting at (x, baseline). The mask is cut to
// clip grown by pad; glyphs outside it are skipped.
func (run textRun) mask(x, baseline, pad int, clip image.Rectangle) *image.Alpha {
	bounds := image.Rect(x-pad, baseline-run.ascent-pad, x+run.width+pad, baseline-run.ascent+run.height+pad)
	bounds = bounds.Intersect(clip.Inset(-pad))
	m := image.NewAlpha(bounds)
	if bounds.Empty() {
		return m
	}

	// one em of slack for glyphs that overhang their advance
	slack := fixed.I(run.height)
	minX, maxX := fixed.I(bounds.Min.X)-slack, fixed.I(bounds.Max.X)+slack

	d := &font.Drawer{Dst: m, Src: image.Opaque, Face: run.face}
	d.Dot = fixed.P(x, baseline)
	prev := rune(-1)
	for _, c := range run.text {
		if prev >= 0 {
			d.Dot.X += run.face.Kern(prev, c)
		}
		if d.Dot.X > maxX {
			break
		}
		adv, _ := run.face.GlyphAdvance(c)
		if d.Dot.X+adv < minX {
			d.Dot.X += adv
		} else {
			d.DrawString(string(c))
		}
		d.Dot.X += run.spacing
		prev = c
	}
	return m
}

func toLayout(p present.Position) layout.Position {
	switch p {
	case present.PositionStart:
		return layout.Start
	case present.PositionEnd:
		return layout.End
	default:
		return layout.Center
	}
}

// Render draws p onto a size canvas. offset is the animation progress as
// returned by present.Timing.Offset; it is ignored for static banners.
func (r *BannerRenderer) Render(p present.Presentation, size image.Point, offset float64) *image.RGBA {
	if size.X <= 0 || size.Y <= 0 {
		size = CanvasSize()
	}
	canvas := image.NewRGBA(image.Rectangle{Max: size})

	r.mu.Lock()
	defer r.mu.Unlock()

	p.Text = rasterStyle(p.Text, size)
	p.Caption.Style = rasterStyle(p.Caption.Style, size)

	msg := r.measure(p.Message, p.Text)
	var caption textRun
	contentW, contentH := msg.width, msg.height
	if p.Caption.Visible {
		caption = r.measure(p.Caption.Text, p.Caption.Style)
		contentW = max(contentW, caption.width)
		contentH += captionGap + caption.height
	}

	pos := toLayout(p.Layout.Position)
	boxW := contentW + 2*boxPaddingX
	boxH := contentH + 2*p.Layout.PaddingY
	if p.Timing.Animation == banner.AnimationMarquee {
		boxW = size.X
	}
	box := layout.Place(canvas.Bounds(), boxW, boxH, pos)
	if p.Timing.Animation == banner.AnimationBounce && p.Timing.Animated() {
		box = box.Add(image.Pt(0, int(math.Round((offset*2-1)*bounceTravel))))
	}

	drawBackground(canvas, box, p.Background)

	inner := layout.Inset(box, boxPaddingX, p.Layout.PaddingY)
	msgRow, captionRow := layout.SplitHorizontal(inner, msg.height)

	clip := canvas.Bounds()
	msgX := layout.AlignX(msgRow, msg.width, pos)
	if p.Timing.Animation == banner.AnimationMarquee && p.Timing.Animated() {
		start, end := box.Max.X, box.Min.X-msg.width
		msgX = start + int(math.Round(float64(end-start)*offset))
		clip = box
	}
	drawText(canvas, clip, msg, msgX, msgRow.Min.Y+msg.ascent, p.Text)

	if p.Caption.Visible {
		captionRow.Min.Y += captionGap
		x := layout.AlignX(captionRow, caption.width, pos)
		drawText(canvas, clip, caption, x, captionRow.Min.Y+caption.ascent, p.Caption.Style)
	}
	return canvas
}

func drawBackground(dst *image.RGBA, box image.Rectangle, bg present.Background) {
	area := box.Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	if bg.Kind != present.BackgroundGradient {
		c := withOpacity(ParseColor(bg.Color, DefaultBackground), bg.Opacity)
		draw.Draw(dst, area, image.NewUniform(c), image.Point{}, draw.Over)
		return
	}

	from := ParseColor(bg.From, DefaultBackground)
	to := ParseColor(bg.To, DefaultBackground)

	// CSS angles run clockwise from "to top".
	rad := float64(bg.Angle) * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(float64(box.Dx())*dx) + math.Abs(float64(box.Dy())*dy)
	if length == 0 {
		length = 1
	}
	cx := float64(box.Min.X) + float64(box.Dx())/2
	cy := float64(box.Min.Y) + float64(box.Dy())/2

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			t := ((float64(x)+0.5-cx)*dx+(float64(y)+0.5-cy)*dy)/length + 0.5
			t = math.Min(1, math.Max(0, t))
			c := withOpacity(lerp(from, to, t), bg.Opacity)
			overPixel(dst, x, y, c, 0xff)
		}
	}
}

// drawText composites shadows (last layer at the bottom), the outline and
// the fill.
func drawText(dst *image.RGBA, clip image.Rectangle, run textRun, x, baseline int, style present.TextStyle) {
	if strings.TrimSpace(run.text) == "" {
		return
	}

	pad := style.Stroke.Width
	for _, s := range style.Shadows {
		pad = max(pad, s.Blur+max(abs(s.OffsetX), abs(s.OffsetY)))
	}
	glyphs := run.mask(x, baseline, pad, clip.Intersect(dst.Bounds()))
	if glyphs.Bounds().Empty() {
		return
	}

	for i := len(style.Shadows) - 1; i >= 0; i-- {
		s := style.Shadows[i]
		m := boxBlur(glyphs, s.Blur/2)
		composite(dst, clip, m, image.Pt(s.OffsetX, s.OffsetY), withOpacity(ParseColor(s.Color, DefaultShadow), 1))
	}
	if style.Stroke.Width > 0 {
		composite(dst, clip, dilate(glyphs, style.Stroke.Width), image.Point{}, withOpacity(ParseColor(style.Stroke.Color, DefaultShadow), 1))
	}
	composite(dst, clip, glyphs, image.Point{}, withOpacity(ParseColor(style.Color, DefaultText), 1))
}

// composite paints c through mask m shifted by off.
func composite(dst *image.RGBA, clip image.Rectangle, m *image.Alpha, off image.Point, c color.RGBA) {
	r := m.Bounds().Add(off).Intersect(clip).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, m, r.Min.Sub(off), draw.Over)
}

func overPixel(dst *image.RGBA, x, y int, c color.RGBA, coverage uint8) {
	i := dst.PixOffset(x, y)
	a := uint32(c.A) * uint32(coverage) / 0xff
	inv := 0xff - a
	scale := func(v uint8) uint32 { return uint32(v) * uint32(coverage) / 0xff }
	dst.Pix[i+0] = uint8(scale(c.R) + uint32(dst.Pix[i+0])*inv/0xff)
	dst.Pix[i+1] = uint8(scale(c.G) + uint32(dst.Pix[i+1])*inv/0xff)
	dst.Pix[i+2] = uint8(scale(c.B) + uint32(dst.Pix[i+2])*inv/0xff)
	dst.Pix[i+3] = uint8(a + uint32(dst.Pix[i+3])*inv/0xff)
}

// boxBlur is a separable box blur with the given radius.
func boxBlur(src *image.Alpha, radius int) *image.Alpha {
	if radius <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := make([]uint8, w*h)
	out := image.NewAlpha(b)
	span := 2*radius + 1

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		sum := 0
		for x := -radius; x <= radius; x++ {
			if x >= 0 && x < w {
				sum += int(row[x])
			}
		}
		for x := 0; x < w; x++ {
			tmp[y*w+x] = uint8(sum / span)
			if in := x + radius + 1; in < w {
				sum += int(row[in])
			}
			if outIdx := x - radius; outIdx >= 0 {
				sum -= int(row[outIdx])
			}
		}
	}
	for x := 0; x < w; x++ {
		sum := 0
		for y := -radius; y <= radius; y++ {
			if y >= 0 && y < h {
				sum += int(tmp[y*w+x])
			}
		}
		for y := 0; y < h; y++ {
			out.Pix[y*out.Stride+x] = uint8(sum / span)
			if in := y + radius + 1; in < h {
				sum += int(tmp[in*w+x])
			}
			if outIdx := y - radius; outIdx >= 0 {
				sum -= int(tmp[outIdx*w+x])
			}
		}
	}
	return out
}

// dilate grows the mask by a disc of the given radius.
func dilate(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewAlpha(b)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			for y := max(0, dy); y < min(h, h+dy); y++ {
				srow := src.Pix[(y-dy)*src.Stride:]
				orow := out.Pix[y*out.Stride:]
				for x := max(0, dx); x < min(w, w+dx); x++ {
					if v := srow[x-dx]; v > orow[x] {
						orow[x] = v
					}
				}
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
