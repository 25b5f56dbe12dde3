package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/llehouerou/reel/internal/story"
)

// Tint is a translucent color laid over a snap.
type Tint struct {
	Color colorful.Color
	Alpha float64
}

var tints = map[story.Filter]Tint{
	story.FilterWarm:     {Color: mustHex("#FF9800"), Alpha: 0.2},
	story.FilterCool:     {Color: mustHex("#2196F3"), Alpha: 0.2},
	story.FilterContrast: {Color: colorful.Color{}, Alpha: 0.3},
}

// TintFor returns the overlay for f. FilterNone has none.
func TintFor(f story.Filter) (Tint, bool) {
	t, ok := tints[f]
	return t, ok
}

// Over blends the tint over c.
func (t Tint) Over(c color.Color) colorful.Color {
	base, _ := colorful.MakeColor(opaque(c))
	return base.BlendRgb(t.Color, t.Alpha).Clamped()
}

// Tinted returns c with the tint for f applied, as a lipgloss color.
func Tinted(c lipgloss.Color, f story.Filter) lipgloss.Color {
	t, ok := TintFor(f)
	if !ok {
		return c
	}
	return lipgloss.Color(t.Over(lipglossToColor(c)).Hex())
}

// Hex converts c to a lipgloss color, applying the tint for f.
func Hex(c color.Color, f story.Filter) lipgloss.Color {
	if t, ok := TintFor(f); ok {
		return lipgloss.Color(t.Over(c).Hex())
	}
	return lipgloss.Color(colorToHex(opaque(c)))
}

// opaque drops alpha so MakeColor accepts transparent pixels.
func opaque(c color.Color) color.Color {
	r, g, b, a := c.RGBA()
	if a == 0xffff {
		return c
	}
	if a == 0 {
		return color.Black
	}
	// un-premultiply
	return color.RGBA64{
		R: uint16(r * 0xffff / a),
		G: uint16(g * 0xffff / a),
		B: uint16(b * 0xffff / a),
		A: 0xffff,
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
