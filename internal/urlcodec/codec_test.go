package urlcodec

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rook-computer/bannercast/internal/banner"
)

func sampleConfig() banner.Config {
	return banner.Config{
		Message:           "Hello & welcome, 100% live!",
		Caption:           "now playing: ümlauts + spaces",
		FontFamily:        "Bebas Neue",
		FontSize:          96,
		FontWeight:        800,
		LetterSpacing:     25,
		TextColor:         "rgba(255, 255, 255, 0.9)",
		OutlineColor:      "#101010",
		OutlineWidth:      3,
		BackgroundColor:   "transparent",
		BackgroundOpacity: 0.35,
		DropShadow:        false,
		ShadowColor:       "#222",
		PaddingY:          48,
		Animation:         banner.AnimationMarquee,
		Speed:             77,
		Uppercase:         true,
		TextAlign:         banner.AlignRight,
		Gradient:          true,
		GradientFrom:      "#ff0000",
		GradientTo:        "hsl(200 80% 50%)",
	}
}

func TestRoundTrip(t *testing.T) {
	for _, ca := range []struct {
		name string
		cfg  banner.Config
	}{
		{"default", banner.Default()},
		{"sample", sampleConfig()},
		{"empty text", func() banner.Config {
			c := sampleConfig()
			c.Message = ""
			c.Caption = ""
			c.BackgroundOpacity = 0
			return c
		}()},
		{"full opacity", func() banner.Config {
			c := sampleConfig()
			c.BackgroundOpacity = 1
			c.Animation = banner.AnimationBounce
			c.TextAlign = banner.AlignLeft
			return c
		}()},
	} {
		t.Run(ca.name, func(t *testing.T) {
			require.Equal(t, ca.cfg, Decode(Encode(ca.cfg)))
		})
	}
}

func TestEncodeEmitsEveryField(t *testing.T) {
	values, err := url.ParseQuery(Encode(banner.Default()))
	require.NoError(t, err)
	require.Len(t, values, len(FieldNames()))
	for _, name := range FieldNames() {
		require.Contains(t, values, name)
	}
	require.Equal(t, "false", values.Get("gradient"))
	require.Equal(t, "true", values.Get("dropShadow"))
	require.Equal(t, "0.75", values.Get("backgroundOpacity"))
	require.Equal(t, "static", values.Get("animation"))
	require.True(t, strings.HasPrefix(Encode(banner.Default()), "message="))
}

func TestDecodeUnknownKeys(t *testing.T) {
	want := banner.Default()
	want.Message = "Hi"
	require.Equal(t, want, Decode("message=Hi&unknownKey=xyz"))
}

func TestDecodeLeadingQuestionMark(t *testing.T) {
	require.Equal(t, "Hi", Decode("?message=Hi").Message)
}

func TestDecodeEmpty(t *testing.T) {
	require.Equal(t, banner.Default(), Decode(""))
}

func TestDecodeOpacityClamp(t *testing.T) {
	for _, ca := range []struct {
		raw  string
		want float64
	}{
		{"0.5", 0.5},
		{"-3", 0},
		{"7.25", 1},
		{"1e9", 1},
		{"-0", 0},
		{"abc", 0.75},
		{"NaN", 0.75},
		{"Inf", 0.75},
		{"", 0.75},
	} {
		t.Run(ca.raw, func(t *testing.T) {
			got := Decode("backgroundOpacity=" + url.QueryEscape(ca.raw)).BackgroundOpacity
			require.Equal(t, ca.want, got)
			require.GreaterOrEqual(t, got, 0.0)
			require.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestDecodeNumericFallsBackToDefault(t *testing.T) {
	cfg := Decode("fontSize=big&fontWeight=&speed=NaN&paddingY=12abc&letterSpacing=Infinity&outlineWidth=x")
	def := banner.Default()
	require.Equal(t, def.FontSize, cfg.FontSize)
	require.Equal(t, def.FontWeight, cfg.FontWeight)
	require.Equal(t, def.Speed, cfg.Speed)
	require.Equal(t, def.PaddingY, cfg.PaddingY)
	require.Equal(t, def.LetterSpacing, cfg.LetterSpacing)
	require.Equal(t, def.OutlineWidth, cfg.OutlineWidth)
}

func TestDecodeNumericAcceptsAnyNumber(t *testing.T) {
	cfg := Decode("fontSize=%2072%20&speed=12.6&outlineWidth=0&paddingY=500")
	require.Equal(t, 72, cfg.FontSize)
	require.Equal(t, 13, cfg.Speed)
	require.Equal(t, 0, cfg.OutlineWidth)
	require.Equal(t, 500, cfg.PaddingY)
}

func TestDecodeBooleans(t *testing.T) {
	for _, ca := range []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"yes", false},
		{"TRUE", false},
		{"", false},
		{"0", false},
	} {
		t.Run(ca.raw, func(t *testing.T) {
			require.Equal(t, ca.want, Decode("uppercase="+ca.raw).Uppercase)
			require.Equal(t, ca.want, Decode("gradient="+ca.raw).Gradient)
			require.Equal(t, ca.want, Decode("dropShadow="+ca.raw).DropShadow)
		})
	}
}

func TestDecodeEnums(t *testing.T) {
	require.Equal(t, banner.AnimationStatic, Decode("animation=foo").Animation)
	require.Equal(t, banner.AnimationBounce, Decode("animation=bounce").Animation)
	require.Equal(t, banner.AnimationMarquee, Decode("animation=marquee").Animation)
	require.Equal(t, banner.AlignCenter, Decode("textAlign=justify").TextAlign)
	require.Equal(t, banner.AlignLeft, Decode("textAlign=left").TextAlign)
	require.Equal(t, banner.AlignCenter, Decode("textAlign=").TextAlign)
}

func TestDecodeTextVerbatim(t *testing.T) {
	cfg := Decode("backgroundColor=not-a-colour&fontFamily=Comic%20Sans&message=&caption=%3Cb%3E")
	require.Equal(t, "not-a-colour", cfg.BackgroundColor)
	require.Equal(t, "Comic Sans", cfg.FontFamily)
	require.Equal(t, "", cfg.Message)
	require.Equal(t, "<b>", cfg.Caption)
}

func TestDecodeMalformedInput(t *testing.T) {
	cfg := Decode("message=%zz&caption=ok&;;&=&fontSize")
	require.Equal(t, "ok", cfg.Caption)
	require.Equal(t, banner.Default().Message, cfg.Message)
	require.Equal(t, banner.Default().FontSize, cfg.FontSize)
}

func TestDecodeFirstValueWins(t *testing.T) {
	require.Equal(t, "a", Decode("message=a&message=b").Message)
}

func TestShareURL(t *testing.T) {
	u, err := ShareURL("http://127.0.0.1:8080/overlay?stale=1#frag", banner.Default())
	require.NoError(t, err)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	require.Equal(t, "/overlay", parsed.Path)
	require.Empty(t, parsed.Fragment)
	require.Equal(t, banner.Default(), Decode(parsed.RawQuery))

	_, err = ShareURL("://bad", banner.Default())
	require.Error(t, err)
}
