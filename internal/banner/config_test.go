package banner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsCopy(t *testing.T) {
	c := Default()
	c.Message = "changed"
	require.Equal(t, "Live now", Default().Message)
}

func TestParseEnums(t *testing.T) {
	a, ok := ParseAnimation("bounce")
	require.True(t, ok)
	require.Equal(t, AnimationBounce, a)

	_, ok = ParseAnimation("Bounce")
	require.False(t, ok)

	al, ok := ParseAlign("right")
	require.True(t, ok)
	require.Equal(t, AlignRight, al)

	_, ok = ParseAlign("justify")
	require.False(t, ok)
}

func TestNormalize(t *testing.T) {
	c := Default()
	c.Animation = "spin"
	c.TextAlign = ""
	c.BackgroundOpacity = 3

	n := c.Normalize()
	require.Equal(t, AnimationStatic, n.Animation)
	require.Equal(t, AlignCenter, n.TextAlign)
	require.Equal(t, 1.0, n.BackgroundOpacity)

	c.BackgroundOpacity = math.NaN()
	require.Equal(t, 0.75, c.Normalize().BackgroundOpacity)
}

func TestClamp(t *testing.T) {
	c := Default()
	c.FontSize = 500
	c.FontWeight = 740
	c.LetterSpacing = -3
	c.OutlineWidth = 11
	c.PaddingY = 0
	c.Speed = 0

	n := c.Clamp()
	require.Equal(t, 110, n.FontSize)
	require.Equal(t, 700, n.FontWeight)
	require.Equal(t, 0, n.LetterSpacing)
	require.Equal(t, 10, n.OutlineWidth)
	require.Equal(t, 12, n.PaddingY)
	require.Equal(t, 1, n.Speed)
}

func TestRangeClampStep(t *testing.T) {
	r := Range{Min: 300, Max: 900, Step: 100}
	require.Equal(t, 300, r.Clamp(100))
	require.Equal(t, 500, r.Clamp(450))
	require.Equal(t, 400, r.Clamp(449))
	require.Equal(t, 900, r.Clamp(2000))
}

func TestDefaultSatisfiesLimits(t *testing.T) {
	require.Equal(t, Default(), Default().Clamp())
}
