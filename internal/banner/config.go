// Package banner defines the overlay configuration shared by the editor,
// the overlay and every transport between them.
package banner

import "math"

type Animation string

const (
	AnimationStatic  Animation = "static"
	AnimationMarquee Animation = "marquee"
	AnimationBounce  Animation = "bounce"
)

// ParseAnimation accepts exact literals only.
func ParseAnimation(raw string) (Animation, bool) {
	switch Animation(raw) {
	case AnimationStatic, AnimationMarquee, AnimationBounce:
		return Animation(raw), true
	}
	return "", false
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign accepts exact literals only.
func ParseAlign(raw string) (Align, bool) {
	switch Align(raw) {
	case AlignLeft, AlignCenter, AlignRight:
		return Align(raw), true
	}
	return "", false
}

// Config is one complete snapshot of the banner settings.
// Field names double as JSON, YAML and query-string keys.
type Config struct {
	Message           string    `json:"message" yaml:"message"`
	Caption           string    `json:"caption" yaml:"caption"`
	FontFamily        string    `json:"fontFamily" yaml:"fontFamily"`
	FontSize          int       `json:"fontSize" yaml:"fontSize"`
	FontWeight        int       `json:"fontWeight" yaml:"fontWeight"`
	LetterSpacing     int       `json:"letterSpacing" yaml:"letterSpacing"`
	TextColor         string    `json:"textColor" yaml:"textColor"`
	OutlineColor      string    `json:"outlineColor" yaml:"outlineColor"`
	OutlineWidth      int       `json:"outlineWidth" yaml:"outlineWidth"`
	BackgroundColor   string    `json:"backgroundColor" yaml:"backgroundColor"`
	BackgroundOpacity float64   `json:"backgroundOpacity" yaml:"backgroundOpacity"`
	DropShadow        bool      `json:"dropShadow" yaml:"dropShadow"`
	ShadowColor       string    `json:"shadowColor" yaml:"shadowColor"`
	PaddingY          int       `json:"paddingY" yaml:"paddingY"`
	Animation         Animation `json:"animation" yaml:"animation"`
	Speed             int       `json:"speed" yaml:"speed"`
	Uppercase         bool      `json:"uppercase" yaml:"uppercase"`
	TextAlign         Align     `json:"textAlign" yaml:"textAlign"`
	Gradient          bool      `json:"gradient" yaml:"gradient"`
	GradientFrom      string    `json:"gradientFrom" yaml:"gradientFrom"`
	GradientTo        string    `json:"gradientTo" yaml:"gradientTo"`
}

var defaultConfig = Config{
	Message:           "Live now",
	Caption:           "",
	FontFamily:        "Inter",
	FontSize:          64,
	FontWeight:        700,
	LetterSpacing:     10,
	TextColor:         "#ffffff",
	OutlineColor:      "#000000",
	OutlineWidth:      0,
	BackgroundColor:   "#0f172a",
	BackgroundOpacity: 0.75,
	DropShadow:        true,
	ShadowColor:       "#000000",
	PaddingY:          32,
	Animation:         AnimationStatic,
	Speed:             40,
	Uppercase:         false,
	TextAlign:         AlignCenter,
	Gradient:          false,
	GradientFrom:      "#7c3aed",
	GradientTo:        "#db2777",
}

// Default returns the process-wide default configuration.
// Config holds only value fields, so the copy shares nothing with the original.
func Default() Config {
	return defaultConfig
}

// Normalize repairs the invariants for data that did not come through the
// URL codec: unknown enum literals fall back to the defaults and the
// background opacity is clamped to [0,1].
func (c Config) Normalize() Config {
	if _, ok := ParseAnimation(string(c.Animation)); !ok {
		c.Animation = defaultConfig.Animation
	}
	if _, ok := ParseAlign(string(c.TextAlign)); !ok {
		c.TextAlign = defaultConfig.TextAlign
	}
	c.BackgroundOpacity = ClampOpacity(c.BackgroundOpacity, defaultConfig.BackgroundOpacity)
	return c
}

// ClampOpacity clamps v to [0,1]; non-finite input yields fallback.
func ClampOpacity(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return math.Min(1, math.Max(0, v))
}
