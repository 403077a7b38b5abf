package boundary

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/region-ruler-mcp/internal/pixels"
)

var (
	// ErrOutOfRange is returned when a seed or corner lies outside the buffer.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrInvalidTolerance is returned for a negative or NaN tolerance.
	ErrInvalidTolerance = errors.New("invalid tolerance")
)

// Extent is the result of a four-direction ray scan from a seed point.
// All four edges are inclusive pixel coordinates.
type Extent struct {
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// MeasureFromPosition scans outward from (x, y) along its row and column and
// returns the last pixel in each direction that is still similar to the
// seed color.
func MeasureFromPosition(buf pixels.Accessor, x, y int, tolerance float64) (Extent, error) {
	if err := checkCall(buf, tolerance, x, y); err != nil {
		return Extent{}, err
	}

	r := newRay(buf, x, y, tolerance)
	e := Extent{
		Top:    r.top(),
		Bottom: r.bottom(),
		Left:   r.left(),
		Right:  r.right(),
	}
	e.Width = e.Right - e.Left + 1
	e.Height = e.Bottom - e.Top + 1
	return e, nil
}

// TopEdge returns the smallest row y' <= y such that every pixel of column x
// from y' to y is similar to the seed.
func TopEdge(buf pixels.Accessor, x, y int, tolerance float64) (int, error) {
	if err := checkCall(buf, tolerance, x, y); err != nil {
		return 0, err
	}
	return newRay(buf, x, y, tolerance).top(), nil
}

// BottomEdge is TopEdge walking toward increasing y.
func BottomEdge(buf pixels.Accessor, x, y int, tolerance float64) (int, error) {
	if err := checkCall(buf, tolerance, x, y); err != nil {
		return 0, err
	}
	return newRay(buf, x, y, tolerance).bottom(), nil
}

// LeftEdge is TopEdge along row y toward decreasing x.
func LeftEdge(buf pixels.Accessor, x, y int, tolerance float64) (int, error) {
	if err := checkCall(buf, tolerance, x, y); err != nil {
		return 0, err
	}
	return newRay(buf, x, y, tolerance).left(), nil
}

// RightEdge is TopEdge along row y toward increasing x.
func RightEdge(buf pixels.Accessor, x, y int, tolerance float64) (int, error) {
	if err := checkCall(buf, tolerance, x, y); err != nil {
		return 0, err
	}
	return newRay(buf, x, y, tolerance).right(), nil
}

// HeightAt returns the vertical run length through (x, y).
func HeightAt(buf pixels.Accessor, x, y int, tolerance float64) (int, error) {
	if err := checkCall(buf, tolerance, x, y); err != nil {
		return 0, err
	}
	r := newRay(buf, x, y, tolerance)
	return r.bottom() - r.top() + 1, nil
}

// WidthAt returns the horizontal run length through (x, y).
func WidthAt(buf pixels.Accessor, x, y int, tolerance float64) (int, error) {
	if err := checkCall(buf, tolerance, x, y); err != nil {
		return 0, err
	}
	r := newRay(buf, x, y, tolerance)
	return r.right() - r.left() + 1, nil
}

// ray holds the seed of a directional scan. The seed color is read once.
type ray struct {
	buf       pixels.Accessor
	x, y      int
	seed      pixels.Color
	tolerance float64
}

func newRay(buf pixels.Accessor, x, y int, tolerance float64) ray {
	return ray{buf: buf, x: x, y: y, seed: buf.ColorAt(x, y), tolerance: tolerance}
}

func (r ray) same(x, y int) bool {
	return Similar(r.buf.ColorAt(x, y), r.seed, r.tolerance)
}

func (r ray) top() int {
	y := r.y
	for y-1 >= 0 && r.same(r.x, y-1) {
		y--
	}
	return y
}

func (r ray) bottom() int {
	y := r.y
	for y+1 < r.buf.Height() && r.same(r.x, y+1) {
		y++
	}
	return y
}

func (r ray) left() int {
	x := r.x
	for x-1 >= 0 && r.same(x-1, r.y) {
		x--
	}
	return x
}

func (r ray) right() int {
	x := r.x
	for x+1 < r.buf.Width() && r.same(x+1, r.y) {
		x++
	}
	return x
}

func checkCall(buf pixels.Accessor, tolerance float64, points ...int) error {
	if err := checkTolerance(tolerance); err != nil {
		return err
	}
	for i := 0; i+1 < len(points); i += 2 {
		if err := checkPoint(buf, points[i], points[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func checkTolerance(tolerance float64) error {
	if math.IsNaN(tolerance) || tolerance < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTolerance, tolerance)
	}
	return nil
}

func checkPoint(buf pixels.Accessor, x, y int) error {
	if x < 0 || x >= buf.Width() || y < 0 || y >= buf.Height() {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d buffer", ErrOutOfRange, x, y, buf.Width(), buf.Height())
	}
	return nil
}
