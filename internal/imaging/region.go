package imaging

import (
	"context"

	"github.com/ironsheep/region-ruler-mcp/internal/boundary"
	"github.com/ironsheep/region-ruler-mcp/internal/pixels"
)

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// MeasureResult is a ray measurement together with the color it matched.
type MeasureResult struct {
	boundary.Extent `yaml:",inline"`

	Seed      Point       `json:"seed" yaml:"seed"`
	Tolerance float64     `json:"tolerance" yaml:"tolerance"`
	BaseColor ColorResult `json:"base_color" yaml:"base_color"`
}

// Box returns the measured extent as a Box.
func (m *MeasureResult) Box() Box {
	return Box{Top: m.Top, Bottom: m.Bottom, Left: m.Left, Right: m.Right}
}

// MeasureRegion measures the region around (x, y). See
// boundary.MeasureFromPosition.
func MeasureRegion(buf *pixels.Buffer, x, y int, tolerance float64) (*MeasureResult, error) {
	e, err := boundary.MeasureFromPosition(buf, x, y, tolerance)
	if err != nil {
		return nil, err
	}
	return &MeasureResult{
		Extent:    e,
		Seed:      Point{X: x, Y: y},
		Tolerance: tolerance,
		BaseColor: DescribeColor(buf.ColorAt(x, y)),
	}, nil
}

// RectangleResult is a two-corner refinement together with the color it
// matched against.
type RectangleResult struct {
	boundary.Rectangle `yaml:",inline"`

	// Empty is set when no side found a dissimilar line before crossing
	// the opposite corner.
	Empty     bool        `json:"empty" yaml:"empty"`
	Corners   [2]Point    `json:"corners" yaml:"corners"`
	Tolerance float64     `json:"tolerance" yaml:"tolerance"`
	BaseColor ColorResult `json:"base_color" yaml:"base_color"`
}

// Box returns the refined rectangle as a Box.
func (r *RectangleResult) Box() Box {
	return Box{Top: r.Top, Bottom: r.Bottom, Left: r.Left, Right: r.Right}
}

// DetectRectangle refines the rectangle spanned by two corners. With
// concurrent set, the four side scans run in parallel and honor ctx.
func DetectRectangle(ctx context.Context, buf *pixels.Buffer, tolerance float64, x1, y1, x2, y2 int, concurrent bool) (*RectangleResult, error) {
	var (
		rect boundary.Rectangle
		err  error
	)
	if concurrent {
		rect, err = boundary.DetectContainingRectangleContext(ctx, buf, tolerance, x1, y1, x2, y2)
	} else {
		rect, err = boundary.DetectContainingRectangle(buf, tolerance, x1, y1, x2, y2)
	}
	if err != nil {
		return nil, err
	}

	// The base color comes from the normalized top-left corner.
	return &RectangleResult{
		Rectangle: rect,
		Empty:     rect.Empty(),
		Corners:   [2]Point{{X: x1, Y: y1}, {X: x2, Y: y2}},
		Tolerance: tolerance,
		BaseColor: DescribeColor(buf.ColorAt(min(x1, x2), min(y1, y2))),
	}, nil
}
