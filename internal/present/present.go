// Package present derives rendering parameters from a banner configuration.
// Every function here is pure: the same configuration always yields the same
// presentation.
package present

import (
	"math"
	"strconv"

	"github.com/rook-computer/bannercast/internal/banner"
)

const (
	// GradientAngle is the fixed angle of the gradient background, in degrees.
	GradientAngle = 120

	// NBSP keeps an empty message from collapsing the banner.
	NBSP = "\u00a0"

	marqueeBase  = 180.0
	marqueeFloor = 4.0
	bounceBase   = 32.0
	bounceFloor  = 3.0
)

// Shadow is one text-shadow layer.
type Shadow struct {
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
	Blur    int    `json:"blur"`
	Color   string `json:"color"`
}

// Stroke is the text outline; Width 0 means none.
type Stroke struct {
	Width int    `json:"width"`
	Color string `json:"color"`
}

type TextStyle struct {
	FontFamily      string   `json:"fontFamily"`
	FontSize        int      `json:"fontSize"`
	FontWeight      int      `json:"fontWeight"`
	LetterSpacingPx float64  `json:"letterSpacingPx"`
	Color           string   `json:"color"`
	Uppercase       bool     `json:"uppercase"`
	Stroke          Stroke   `json:"stroke"`
	Shadows         []Shadow `json:"shadows"`
}

type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
)

type Background struct {
	Kind    BackgroundKind `json:"kind"`
	Color   string         `json:"color,omitempty"`
	From    string         `json:"from,omitempty"`
	To      string         `json:"to,omitempty"`
	Angle   int            `json:"angle,omitempty"`
	Opacity float64        `json:"opacity"`
}

// Timing is the animation cycle; Seconds is 0 for static banners.
type Timing struct {
	Animation banner.Animation `json:"animation"`
	Seconds   float64          `json:"seconds"`
}

// Position is the placement shared by the banner box and its text.
type Position string

const (
	PositionStart  Position = "start"
	PositionCenter Position = "center"
	PositionEnd    Position = "end"
)

type Layout struct {
	Position  Position     `json:"position"`
	TextAlign banner.Align `json:"textAlign"`
	PaddingY  int          `json:"paddingY"`
}

type Caption struct {
	Visible bool      `json:"visible"`
	Text    string    `json:"text"`
	Style   TextStyle `json:"style"`
}

// Presentation is everything a renderer needs.
type Presentation struct {
	Message    string     `json:"message"`
	Text       TextStyle  `json:"text"`
	Background Background `json:"background"`
	Timing     Timing     `json:"timing"`
	Layout     Layout     `json:"layout"`
	Caption    Caption    `json:"caption"`
}

// Derive maps cfg to its presentation.
func Derive(cfg banner.Config) Presentation {
	return Presentation{
		Message:    DisplayMessage(cfg.Message),
		Text:       DeriveText(cfg),
		Background: DeriveBackground(cfg),
		Timing:     DeriveTiming(cfg),
		Layout:     DeriveLayout(cfg),
		Caption:    DeriveCaption(cfg),
	}
}

// DisplayMessage returns msg, or a non-breaking space when msg is empty.
func DisplayMessage(msg string) string {
	if msg == "" {
		return NBSP
	}
	return msg
}

func DeriveText(cfg banner.Config) TextStyle {
	s := TextStyle{
		FontFamily:      cfg.FontFamily,
		FontSize:        cfg.FontSize,
		FontWeight:      cfg.FontWeight,
		LetterSpacingPx: float64(cfg.LetterSpacing) / 10,
		Color:           cfg.TextColor,
		Uppercase:       cfg.Uppercase,
		Stroke:          Stroke{Width: cfg.OutlineWidth, Color: cfg.OutlineColor},
	}
	if cfg.DropShadow {
		s.Shadows = []Shadow{
			{OffsetX: 0, OffsetY: 4, Blur: 18, Color: cfg.ShadowColor},
			{OffsetX: 0, OffsetY: 2, Blur: 4, Color: cfg.ShadowColor},
		}
	}
	return s
}

func DeriveBackground(cfg banner.Config) Background {
	opacity := banner.ClampOpacity(cfg.BackgroundOpacity, 1)
	if cfg.Gradient {
		return Background{
			Kind:    BackgroundGradient,
			From:    cfg.GradientFrom,
			To:      cfg.GradientTo,
			Angle:   GradientAngle,
			Opacity: opacity,
		}
	}
	return Background{Kind: BackgroundSolid, Color: cfg.BackgroundColor, Opacity: opacity}
}

// DeriveTiming applies the duration floors so that speeds near 100 never
// collapse the cycle below a perceptible minimum.
func DeriveTiming(cfg banner.Config) Timing {
	speed := float64(cfg.Speed)
	switch cfg.Animation {
	case banner.AnimationMarquee:
		return Timing{Animation: cfg.Animation, Seconds: math.Max(marqueeFloor, marqueeBase-speed)}
	case banner.AnimationBounce:
		return Timing{Animation: cfg.Animation, Seconds: math.Max(bounceFloor, bounceBase-speed/3)}
	default:
		return Timing{Animation: banner.AnimationStatic}
	}
}

// Animated reports whether the timing has a cycle.
func (t Timing) Animated() bool {
	return t.Animation != banner.AnimationStatic && t.Seconds > 0
}

// Offset returns the animation progress at elapsed seconds into the cycle:
// a linear sweep in [0,1) for marquee, a triangle wave in [0,1] for bounce
// and 0 for static.
func (t Timing) Offset(elapsed float64) float64 {
	if !t.Animated() || elapsed <= 0 {
		return 0
	}
	phase := math.Mod(elapsed, t.Seconds) / t.Seconds
	if t.Animation == banner.AnimationBounce {
		if phase < 0.5 {
			return phase * 2
		}
		return 2 - phase*2
	}
	return phase
}

func DeriveLayout(cfg banner.Config) Layout {
	l := Layout{TextAlign: cfg.TextAlign, PaddingY: cfg.PaddingY}
	switch cfg.TextAlign {
	case banner.AlignLeft:
		l.Position = PositionStart
	case banner.AlignRight:
		l.Position = PositionEnd
	default:
		l.Position = PositionCenter
		l.TextAlign = banner.AlignCenter
	}
	return l
}

// Caption styling is fixed and never inherits the primary outline or shadow.
const (
	captionFontSize      = 22
	captionFontWeight    = 600
	captionLetterSpacing = 4
	captionColor         = "#e2e8f0"
)

func DeriveCaption(cfg banner.Config) Caption {
	if cfg.Caption == "" {
		return Caption{}
	}
	return Caption{
		Visible: true,
		Text:    cfg.Caption,
		Style: TextStyle{
			FontFamily:      cfg.FontFamily,
			FontSize:        captionFontSize,
			FontWeight:      captionFontWeight,
			LetterSpacingPx: captionLetterSpacing,
			Color:           captionColor,
			Uppercase:       true,
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
