package imaging

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/region-ruler-mcp/internal/boundary"
	"github.com/ironsheep/region-ruler-mcp/internal/pixels"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
	A uint8 `json:"a" yaml:"a"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h" yaml:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s" yaml:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l" yaml:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
//
//   - Hex: "#RRGGBB", alpha excluded
//   - RGBA: the raw channels as stored in the pixel buffer
//   - HSL: perceptual representation of the RGB part
type ColorResult struct {
	Hex  string    `json:"hex" yaml:"hex"`
	RGBA RGBAColor `json:"rgba" yaml:"rgba"`
	HSL  HSLColor  `json:"hsl" yaml:"hsl"`
}

// DescribeColor converts a buffer pixel into a ColorResult.
func DescribeColor(c pixels.Color) ColorResult {
	cf := toColorful(c)
	h, s, l := cf.Hsl()
	return ColorResult{
		Hex:  strings.ToUpper(cf.Hex()),
		RGBA: RGBAColor{R: c[0], G: c[1], B: c[2], A: c[3]},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// SampleColor returns the color at (x, y) of buf.
//
// Coordinates are 0-based with origin at top-left; an error is returned
// when they fall outside the buffer.
func SampleColor(buf *pixels.Buffer, x, y int) (*ColorResult, error) {
	if !buf.In(x, y) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	c := DescribeColor(buf.ColorAt(x, y))
	return &c, nil
}

// ColorDistanceResult compares two colors.
type ColorDistanceResult struct {
	// Distance is the Euclidean RGBA distance used for region matching.
	Distance float64 `json:"distance" yaml:"distance"`

	// DeltaE is the CIE76 distance in L*a*b* space, scaled to the usual
	// 0-100 range. It ignores alpha and is informational only.
	DeltaE float64 `json:"delta_e" yaml:"delta_e"`

	// Tolerance echoes the tolerance the colors were compared at.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// Similar reports Distance <= Tolerance.
	Similar bool `json:"similar" yaml:"similar"`
}

// CompareColors parses two hex colors ("#RRGGBB" or "#RRGGBBAA") and
// reports how far apart they are.
func CompareColors(hexA, hexB string, tolerance float64) (*ColorDistanceResult, error) {
	a, err := parseHexColor(hexA)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hexA, err)
	}
	b, err := parseHexColor(hexB)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hexB, err)
	}

	pa := pixels.Color{a.R, a.G, a.B, a.A}
	pb := pixels.Color{b.R, b.G, b.B, b.A}
	d := boundary.Distance(pa, pb)
	return &ColorDistanceResult{
		Distance:  math.Round(d*1000) / 1000,
		DeltaE:    math.Round(toColorful(pa).DistanceLab(toColorful(pb))*100*100) / 100,
		Tolerance: tolerance,
		Similar:   boundary.Similar(pa, pb, tolerance),
	}, nil
}

// toColorful drops alpha; the channels are stored unpremultiplied.
func toColorful(c pixels.Color) colorful.Color {
	return colorful.Color{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
	}
}
