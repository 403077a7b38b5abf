package boundary

import (
	"math"

	"github.com/ironsheep/region-ruler-mcp/internal/pixels"
)

// MaxTolerance is the largest possible Distance, reached between transparent
// black and opaque white. Sliders use it as their upper bound.
const MaxTolerance = 510

// Distance returns the Euclidean distance between two colors over all four
// channels.
func Distance(a, b pixels.Color) float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Similar reports whether a and b are within tolerance of each other.
func Similar(a, b pixels.Color, tolerance float64) bool {
	return Distance(a, b) <= tolerance
}
