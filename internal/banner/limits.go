package banner

// Range is an inclusive editor range with an optional step.
type Range struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// Clamp pulls v into the range and snaps it to the step grid anchored at Min.
func (r Range) Clamp(v int) int {
	if v < r.Min {
		v = r.Min
	}
	if v > r.Max {
		v = r.Max
	}
	if r.Step > 1 {
		v = r.Min + ((v-r.Min+r.Step/2)/r.Step)*r.Step
		if v > r.Max {
			v -= r.Step
		}
	}
	return v
}

// Limits are the ranges the editor UI offers. The URL codec does not apply
// them; only editor mutations do.
var Limits = struct {
	FontSize      Range
	FontWeight    Range
	LetterSpacing Range
	OutlineWidth  Range
	PaddingY      Range
	Speed         Range
}{
	FontSize:      Range{Min: 28, Max: 110, Step: 1},
	FontWeight:    Range{Min: 300, Max: 900, Step: 100},
	LetterSpacing: Range{Min: 0, Max: 50, Step: 1},
	OutlineWidth:  Range{Min: 0, Max: 10, Step: 1},
	PaddingY:      Range{Min: 12, Max: 140, Step: 1},
	Speed:         Range{Min: 1, Max: 100, Step: 1},
}

// Clamp applies the editor limits on top of Normalize.
func (c Config) Clamp() Config {
	c = c.Normalize()
	c.FontSize = Limits.FontSize.Clamp(c.FontSize)
	c.FontWeight = Limits.FontWeight.Clamp(c.FontWeight)
	c.LetterSpacing = Limits.LetterSpacing.Clamp(c.LetterSpacing)
	c.OutlineWidth = Limits.OutlineWidth.Clamp(c.OutlineWidth)
	c.PaddingY = Limits.PaddingY.Clamp(c.PaddingY)
	c.Speed = Limits.Speed.Clamp(c.Speed)
	return c
}

// FontFamilies is the curated list shown by the editor. It is a display
// choice only; any family name is accepted everywhere else.
var FontFamilies = []string{
	"Inter",
	"Montserrat",
	"Bebas Neue",
	"Oswald",
	"Poppins",
	"Roboto Condensed",
	"Press Start 2P",
	"Playfair Display",
	"JetBrains Mono",
}

// AnimationModes lists the animation choices in display order.
var AnimationModes = []Animation{AnimationStatic, AnimationMarquee, AnimationBounce}
