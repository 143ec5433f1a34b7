package present

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rook-computer/bannercast/internal/banner"
)

// Declaration is one CSS property.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Declarations keep their order so that rendered style attributes are
// stable across calls.
type Declarations []Declaration

func (d Declarations) String() string {
	parts := make([]string, 0, len(d))
	for _, decl := range d {
		parts = append(parts, decl.Property+": "+decl.Value)
	}
	return strings.Join(parts, "; ")
}

// Map returns the declarations keyed by property.
func (d Declarations) Map() map[string]string {
	out := make(map[string]string, len(d))
	for _, decl := range d {
		out[decl.Property] = decl.Value
	}
	return out
}

// Stylesheet is the CSS for the overlay page, one block per element.
type Stylesheet struct {
	Container  Declarations `json:"container"`
	Box        Declarations `json:"box"`
	Background Declarations `json:"background"`
	Text       Declarations `json:"text"`
	Caption    Declarations `json:"caption"`
	Animation  Declarations `json:"animation"`
}

// CSS renders p as a stylesheet.
func (p Presentation) CSS() Stylesheet {
	return Stylesheet{
		Container:  p.Layout.ContainerCSS(),
		Box:        p.Layout.BoxCSS(),
		Background: p.Background.CSS(),
		Text:       p.Text.CSS(p.Layout.TextAlign),
		Caption:    p.Caption.Style.CSS(p.Layout.TextAlign),
		Animation:  p.Timing.CSS(),
	}
}

func (p Position) flex() string {
	switch p {
	case PositionStart:
		return "flex-start"
	case PositionEnd:
		return "flex-end"
	default:
		return "center"
	}
}

func (l Layout) ContainerCSS() Declarations {
	return Declarations{
		{"display", "flex"},
		{"justify-content", l.Position.flex()},
		{"align-items", "center"},
	}
}

func (l Layout) BoxCSS() Declarations {
	return Declarations{
		{"position", "relative"},
		{"display", "flex"},
		{"flex-direction", "column"},
		{"align-items", l.Position.flex()},
		{"text-align", string(l.TextAlign)},
		{"padding", fmt.Sprintf("%dpx 48px", l.PaddingY)},
	}
}

func (b Background) CSS() Declarations {
	var bg string
	if b.Kind == BackgroundGradient {
		bg = fmt.Sprintf("linear-gradient(%ddeg, %s, %s)", b.Angle, cssToken(b.From), cssToken(b.To))
	} else {
		bg = cssToken(b.Color)
	}
	return Declarations{
		{"position", "absolute"},
		{"inset", "0"},
		{"background", bg},
		{"opacity", formatFloat(b.Opacity)},
	}
}

func (s Shadow) String() string {
	return fmt.Sprintf("%dpx %dpx %dpx %s", s.OffsetX, s.OffsetY, s.Blur, cssToken(s.Color))
}

func (s TextStyle) CSS(align banner.Align) Declarations {
	transform := "none"
	if s.Uppercase {
		transform = "uppercase"
	}

	stroke := "0"
	if s.Stroke.Width > 0 {
		stroke = fmt.Sprintf("%dpx %s", s.Stroke.Width, cssToken(s.Stroke.Color))
	}

	shadow := "none"
	if len(s.Shadows) > 0 {
		layers := make([]string, len(s.Shadows))
		for i, sh := range s.Shadows {
			layers[i] = sh.String()
		}
		shadow = strings.Join(layers, ", ")
	}

	return Declarations{
		{"position", "relative"},
		{"font-family", cssString(s.FontFamily) + ", sans-serif"},
		{"font-size", strconv.Itoa(s.FontSize) + "px"},
		{"font-weight", strconv.Itoa(s.FontWeight)},
		{"letter-spacing", formatFloat(s.LetterSpacingPx) + "px"},
		{"color", cssToken(s.Color)},
		{"text-transform", transform},
		{"text-align", string(align)},
		{"-webkit-text-stroke", stroke},
		{"text-shadow", shadow},
		{"white-space", "pre"},
	}
}

// CSS returns the animation shorthand, or "none" for static banners. The
// keyframes are named bannercast-marquee and bannercast-bounce.
func (t Timing) CSS() Declarations {
	if !t.Animated() {
		return Declarations{{"animation", "none"}}
	}
	secs := formatFloat(t.Seconds) + "s"
	if t.Animation == banner.AnimationBounce {
		return Declarations{{"animation", "bannercast-bounce " + secs + " ease-in-out infinite alternate"}}
	}
	return Declarations{{"animation", "bannercast-marquee " + secs + " linear infinite"}}
}

// cssString quotes s as a CSS string literal. Non-ASCII text is kept as is;
// control characters become hex escapes.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// cssToken drops the characters that could end a declaration or open a
// block, so a colour string stays a single value.
func cssToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ';' || r == '{' || r == '}' || r == '"' || r == '\'' || r == '\\':
			return -1
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}
