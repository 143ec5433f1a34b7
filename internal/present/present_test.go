package present

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rook-computer/bannercast/internal/banner"
)

func TestDeriveDeterministic(t *testing.T) {
	cfg := banner.Default()
	cfg.Animation = banner.AnimationBounce
	cfg.Caption = "caption"
	cfg.Gradient = true

	a := Derive(cfg)
	b := Derive(cfg)
	require.Equal(t, a, b)
	require.Equal(t, a.CSS(), b.CSS())
}

func TestTimingFloors(t *testing.T) {
	cfg := banner.Default()

	cfg.Animation = banner.AnimationMarquee
	cfg.Speed = 100
	require.Equal(t, 80.0, DeriveTiming(cfg).Seconds)

	cfg.Speed = 1
	require.Equal(t, 179.0, DeriveTiming(cfg).Seconds)

	// speeds above the editor range still respect the floor
	cfg.Speed = 500
	require.Equal(t, 4.0, DeriveTiming(cfg).Seconds)

	cfg.Animation = banner.AnimationBounce
	cfg.Speed = 1
	require.InDelta(t, 31.67, DeriveTiming(cfg).Seconds, 0.005)

	cfg.Speed = 100
	require.Equal(t, 3.0, DeriveTiming(cfg).Seconds)

	cfg.Animation = banner.AnimationStatic
	require.Equal(t, Timing{Animation: banner.AnimationStatic}, DeriveTiming(cfg))
	require.False(t, DeriveTiming(cfg).Animated())
}

func TestMarqueeFloorAtSpeed176(t *testing.T) {
	cfg := banner.Default()
	cfg.Animation = banner.AnimationMarquee
	cfg.Speed = 176
	require.Equal(t, 4.0, DeriveTiming(cfg).Seconds)
	cfg.Speed = 175
	require.Equal(t, 5.0, DeriveTiming(cfg).Seconds)
}

func TestTimingOffset(t *testing.T) {
	marquee := Timing{Animation: banner.AnimationMarquee, Seconds: 10}
	require.Equal(t, 0.0, marquee.Offset(0))
	require.InDelta(t, 0.25, marquee.Offset(2.5), 1e-9)
	require.InDelta(t, 0.5, marquee.Offset(15), 1e-9)

	bounce := Timing{Animation: banner.AnimationBounce, Seconds: 10}
	require.InDelta(t, 0.5, bounce.Offset(2.5), 1e-9)
	require.InDelta(t, 1.0, bounce.Offset(5), 1e-9)
	require.InDelta(t, 0.5, bounce.Offset(7.5), 1e-9)

	static := Timing{Animation: banner.AnimationStatic}
	require.Equal(t, 0.0, static.Offset(42))
}

func TestTextStyle(t *testing.T) {
	cfg := banner.Default()
	cfg.LetterSpacing = 25
	cfg.OutlineWidth = 3
	cfg.OutlineColor = "#123456"
	cfg.ShadowColor = "rgba(0,0,0,0.5)"
	cfg.Uppercase = true

	s := DeriveText(cfg)
	require.Equal(t, 2.5, s.LetterSpacingPx)
	require.Equal(t, Stroke{Width: 3, Color: "#123456"}, s.Stroke)
	require.Len(t, s.Shadows, 2)
	for _, sh := range s.Shadows {
		require.Equal(t, "rgba(0,0,0,0.5)", sh.Color)
	}

	css := s.CSS(banner.AlignCenter).Map()
	require.Equal(t, "2.5px", css["letter-spacing"])
	require.Equal(t, "uppercase", css["text-transform"])
	require.Equal(t, "3px #123456", css["-webkit-text-stroke"])
	require.Equal(t, "0px 4px 18px rgba(0,0,0,0.5), 0px 2px 4px rgba(0,0,0,0.5)", css["text-shadow"])
	require.Equal(t, `"Inter", sans-serif`, css["font-family"])

	cfg.DropShadow = false
	cfg.OutlineWidth = 0
	s = DeriveText(cfg)
	require.Empty(t, s.Shadows)
	css = s.CSS(banner.AlignCenter).Map()
	require.Equal(t, "none", css["text-shadow"])
	require.Equal(t, "0", css["-webkit-text-stroke"])
}

func TestBackground(t *testing.T) {
	cfg := banner.Default()
	cfg.BackgroundOpacity = 0.4

	solid := DeriveBackground(cfg)
	require.Equal(t, BackgroundSolid, solid.Kind)
	require.Equal(t, cfg.BackgroundColor, solid.Color)
	require.Equal(t, 0.4, solid.Opacity)
	require.Equal(t, cfg.BackgroundColor, solid.CSS().Map()["background"])

	cfg.Gradient = true
	grad := DeriveBackground(cfg)
	require.Equal(t, BackgroundGradient, grad.Kind)
	require.Equal(t, 0.4, grad.Opacity)
	require.Equal(t, "linear-gradient(120deg, #7c3aed, #db2777)", grad.CSS().Map()["background"])
	require.Equal(t, "0.4", grad.CSS().Map()["opacity"])

	cfg.BackgroundOpacity = math.Inf(1)
	require.Equal(t, 1.0, DeriveBackground(cfg).Opacity)
}

func TestLayout(t *testing.T) {
	for _, ca := range []struct {
		align banner.Align
		pos   Position
		flex  string
	}{
		{banner.AlignLeft, PositionStart, "flex-start"},
		{banner.AlignCenter, PositionCenter, "center"},
		{banner.AlignRight, PositionEnd, "flex-end"},
	} {
		t.Run(string(ca.align), func(t *testing.T) {
			cfg := banner.Default()
			cfg.TextAlign = ca.align
			l := DeriveLayout(cfg)
			require.Equal(t, ca.pos, l.Position)
			require.Equal(t, ca.flex, l.ContainerCSS().Map()["justify-content"])
			require.Equal(t, ca.flex, l.BoxCSS().Map()["align-items"])
			require.Equal(t, string(ca.align), l.BoxCSS().Map()["text-align"])
		})
	}
}

func TestCaption(t *testing.T) {
	cfg := banner.Default()
	require.False(t, DeriveCaption(cfg).Visible)

	cfg.Caption = "subtitle"
	cfg.OutlineWidth = 5
	cfg.DropShadow = true
	cfg.FontSize = 100
	cfg.Uppercase = false

	c := DeriveCaption(cfg)
	require.True(t, c.Visible)
	require.Equal(t, "subtitle", c.Text)
	require.Equal(t, 0, c.Style.Stroke.Width)
	require.Empty(t, c.Style.Shadows)
	require.True(t, c.Style.Uppercase)
	require.Less(t, c.Style.FontSize, cfg.FontSize)
}

func TestEmptyMessageReservesSpace(t *testing.T) {
	cfg := banner.Default()
	cfg.Message = ""
	require.Equal(t, "\u00a0", Derive(cfg).Message)
	cfg.Message = "x"
	require.Equal(t, "x", Derive(cfg).Message)
}

func TestAnimationCSS(t *testing.T) {
	require.Equal(t, "animation: none", Timing{Animation: banner.AnimationStatic}.CSS().String())
	require.Equal(t, "animation: bannercast-marquee 80s linear infinite",
		Timing{Animation: banner.AnimationMarquee, Seconds: 80}.CSS().String())
	require.Equal(t, "animation: bannercast-bounce 3.5s ease-in-out infinite alternate",
		Timing{Animation: banner.AnimationBounce, Seconds: 3.5}.CSS().String())
}

func TestFontFamilyCSSString(t *testing.T) {
	for _, ca := range []struct {
		family string
		want   string
	}{
		{"Inter", `"Inter", sans-serif`},
		{"Überschrift Sans", `"Überschrift Sans", sans-serif`},
		{`Evil"; color: red`, `"Evil\"; color: red", sans-serif`},
		{"back\\slash", `"back\\slash", sans-serif`},
		{"line\nbreak", `"line\a break", sans-serif`},
	} {
		t.Run(ca.family, func(t *testing.T) {
			s := TextStyle{FontFamily: ca.family}
			require.Equal(t, ca.want, s.CSS(banner.AlignCenter).Map()["font-family"])
		})
	}
}

func TestColorsStaySingleValues(t *testing.T) {
	cfg := banner.Default()
	cfg.TextColor = "red; position: fixed"
	cfg.BackgroundColor = "blue}body{display:none"
	cfg.OutlineWidth = 2
	cfg.OutlineColor = `"#fff"`
	cfg.ShadowColor = "rgba(0,0,0,0.5)"

	p := Derive(cfg)
	text := p.Text.CSS(banner.AlignCenter).Map()
	require.Equal(t, "red position: fixed", text["color"])
	require.Equal(t, "2px #fff", text["-webkit-text-stroke"])
	require.Contains(t, text["text-shadow"], "rgba(0,0,0,0.5)")
	require.Equal(t, "bluebodydisplay:none", p.Background.CSS().Map()["background"])

	// the derived values keep the raw strings
	require.Equal(t, cfg.TextColor, p.Text.Color)
}
