// Package colorscale produces the red-to-green progress fills and the
// selection highlight used by the map views.
package colorscale

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Endpoints of the red-yellow-green diverging scale.
var (
	low  = mustHex("#a50026")
	mid  = mustHex("#ffffbf")
	high = mustHex("#006837")

	white = mustHex("#ffffff")
)

// Style is the polygon presentation for one region.
type Style struct {
	FillColor   string  `json:"fillColor"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// ForProgress maps a 0..1 progress ratio onto the diverging scale, blending
// in LAB space so the midpoint stays perceptually even.
func ForProgress(t float64) string {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	var c colorful.Color
	if t < 0.5 {
		c = low.BlendLab(mid, t*2)
	} else {
		c = mid.BlendLab(high, (t-0.5)*2)
	}
	return c.Clamped().Hex()
}

// BaseStyle is the default polygon styling for a region at the given
// progress ratio.
func BaseStyle(t float64) Style {
	return Style{
		FillColor:   ForProgress(t),
		Color:       "#333333",
		Weight:      1,
		FillOpacity: 0.7,
	}
}

// Highlighted lightens the fill and thickens the border for the selected
// region. Purely a view concern; recomputed when selection or counts change.
func (s Style) Highlighted() Style {
	fill, err := colorful.Hex(s.FillColor)
	if err != nil {
		return s
	}

	s.FillColor = fill.BlendLab(white, 0.35).Clamped().Hex()
	s.Weight = 3
	s.FillOpacity = 0.85
	return s
}

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}
