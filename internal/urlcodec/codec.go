// Package urlcodec maps a banner configuration to and from the overlay's
// launch-URL query string. Decoding is total: malformed or unknown input
// falls back to defaults and never produces an error.
package urlcodec

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/rook-computer/bannercast/internal/banner"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindOpacity
	kindBool
	kindAnimation
	kindAlign
)

// field binds one query key to a Config field. Exactly one accessor pair
// is set, matching kind.
type field struct {
	name string
	kind fieldKind

	text    func(c *banner.Config) *string
	integer func(c *banner.Config) *int
	boolean func(c *banner.Config) *bool
}

// fields is in schema order; Encode emits keys in this order so that shared
// URLs stay stable.
var fields = []field{
	{name: "message", kind: kindText, text: func(c *banner.Config) *string { return &c.Message }},
	{name: "caption", kind: kindText, text: func(c *banner.Config) *string { return &c.Caption }},
	{name: "fontFamily", kind: kindText, text: func(c *banner.Config) *string { return &c.FontFamily }},
	{name: "fontSize", kind: kindInt, integer: func(c *banner.Config) *int { return &c.FontSize }},
	{name: "fontWeight", kind: kindInt, integer: func(c *banner.Config) *int { return &c.FontWeight }},
	{name: "letterSpacing", kind: kindInt, integer: func(c *banner.Config) *int { return &c.LetterSpacing }},
	{name: "textColor", kind: kindText, text: func(c *banner.Config) *string { return &c.TextColor }},
	{name: "outlineColor", kind: kindText, text: func(c *banner.Config) *string { return &c.OutlineColor }},
	{name: "outlineWidth", kind: kindInt, integer: func(c *banner.Config) *int { return &c.OutlineWidth }},
	{name: "backgroundColor", kind: kindText, text: func(c *banner.Config) *string { return &c.BackgroundColor }},
	{name: "backgroundOpacity", kind: kindOpacity},
	{name: "dropShadow", kind: kindBool, boolean: func(c *banner.Config) *bool { return &c.DropShadow }},
	{name: "shadowColor", kind: kindText, text: func(c *banner.Config) *string { return &c.ShadowColor }},
	{name: "paddingY", kind: kindInt, integer: func(c *banner.Config) *int { return &c.PaddingY }},
	{name: "animation", kind: kindAnimation},
	{name: "speed", kind: kindInt, integer: func(c *banner.Config) *int { return &c.Speed }},
	{name: "uppercase", kind: kindBool, boolean: func(c *banner.Config) *bool { return &c.Uppercase }},
	{name: "textAlign", kind: kindAlign},
	{name: "gradient", kind: kindBool, boolean: func(c *banner.Config) *bool { return &c.Gradient }},
	{name: "gradientFrom", kind: kindText, text: func(c *banner.Config) *string { return &c.GradientFrom }},
	{name: "gradientTo", kind: kindText, text: func(c *banner.Config) *string { return &c.GradientTo }},
}

// FieldNames returns the query keys in schema order.
func FieldNames() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

// Encode renders every field of cfg as key=value pairs.
func Encode(cfg banner.Config) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f.name)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.format(&cfg)))
	}
	return b.String()
}

func (f field) format(c *banner.Config) string {
	switch f.kind {
	case kindInt:
		return strconv.Itoa(*f.integer(c))
	case kindOpacity:
		return strconv.FormatFloat(c.BackgroundOpacity, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(*f.boolean(c))
	case kindAnimation:
		return string(c.Animation)
	case kindAlign:
		return string(c.TextAlign)
	default:
		return *f.text(c)
	}
}

// Decode parses a query string (an optional leading '?' is allowed) into a
// configuration.
func Decode(query string) banner.Config {
	query = strings.TrimPrefix(query, "?")
	// ParseQuery keeps every pair it could parse alongside the error for
	// the first bad one; the good pairs are all we need.
	values, _ := url.ParseQuery(query)
	return DecodeValues(values)
}

// DecodeValues starts from the defaults and applies every known key.
// The first value of a repeated key wins.
func DecodeValues(values url.Values) banner.Config {
	cfg := banner.Default()
	def := banner.Default()
	for _, f := range fields {
		raw, ok := values[f.name]
		if !ok || len(raw) == 0 {
			continue
		}
		f.apply(&cfg, &def, raw[0])
	}
	return cfg
}

func (f field) apply(c, def *banner.Config, raw string) {
	switch f.kind {
	case kindInt:
		if v, ok := parseInt(raw); ok {
			*f.integer(c) = v
		} else {
			*f.integer(c) = *f.integer(def)
		}

	case kindOpacity:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			c.BackgroundOpacity = def.BackgroundOpacity
			return
		}
		c.BackgroundOpacity = banner.ClampOpacity(v, def.BackgroundOpacity)

	case kindBool:
		*f.boolean(c) = raw == "true" || raw == "1"

	case kindAnimation:
		if a, ok := banner.ParseAnimation(raw); ok {
			c.Animation = a
		}

	case kindAlign:
		if a, ok := banner.ParseAlign(raw); ok {
			c.TextAlign = a
		}

	default:
		*f.text(c) = raw
	}
}

// parseInt accepts any finite decimal number and rounds it to the nearest
// integer.
func parseInt(raw string) (int, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, false
	}
	return int(math.Round(v)), true
}

// ShareURL returns base with its query replaced by the encoded cfg.
func ShareURL(base string, cfg banner.Config) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", base, err)
	}
	u.RawQuery = Encode(cfg)
	u.Fragment = ""
	return u.String(), nil
}
