package boundary

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/region-ruler-mcp/internal/pixels"
)

// Rectangle is the result of a two-corner refinement. Edges are inclusive.
//
// When a side finds no dissimilar line it reports the opposite corner's
// coordinate, so a fully uniform sub-region yields an inverted rectangle
// with a non-positive Width or Height. Empty reports that case.
type Rectangle struct {
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Empty reports whether the rectangle encloses no pixels.
func (r Rectangle) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// DetectContainingRectangle finds, inside the sub-region spanned by the two
// corners, the first row or column from each side that is not uniformly
// similar to the color at the top-left corner.
//
// The corners may be given in any order. Rows are tested over the half-open
// span [x1, x2) and columns over [y1, y2); the bottom and right scans start
// on the y2 row and x2 column themselves.
func DetectContainingRectangle(buf pixels.Accessor, tolerance float64, x1, y1, x2, y2 int) (Rectangle, error) {
	s, err := newRectScan(buf, tolerance, x1, y1, x2, y2)
	if err != nil {
		return Rectangle{}, err
	}

	ctx := context.Background()
	var r Rectangle
	r.Top, _ = s.top(ctx)
	r.Left, _ = s.left(ctx)
	r.Bottom, _ = s.bottom(ctx)
	r.Right, _ = s.right(ctx)
	return r.withSize(), nil
}

// DetectContainingRectangleContext is DetectContainingRectangle with the four
// side scans running concurrently. The scans stop between lines once ctx is
// done, in which case ctx's error is returned.
func DetectContainingRectangleContext(ctx context.Context, buf pixels.Accessor, tolerance float64, x1, y1, x2, y2 int) (Rectangle, error) {
	s, err := newRectScan(buf, tolerance, x1, y1, x2, y2)
	if err != nil {
		return Rectangle{}, err
	}

	var r Rectangle
	g, gctx := errgroup.WithContext(ctx)
	sides := []struct {
		scan func(context.Context) (int, error)
		dst  *int
	}{
		{s.top, &r.Top},
		{s.left, &r.Left},
		{s.bottom, &r.Bottom},
		{s.right, &r.Right},
	}
	for _, side := range sides {
		side := side
		g.Go(func() error {
			v, err := side.scan(gctx)
			if err != nil {
				return err
			}
			*side.dst = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Rectangle{}, err
	}
	return r.withSize(), nil
}

func (r Rectangle) withSize() Rectangle {
	r.Width = r.Right - r.Left + 1
	r.Height = r.Bottom - r.Top + 1
	return r
}

// rectScan is a normalized sub-region plus the base color shared by all
// four side scans.
type rectScan struct {
	buf            pixels.Accessor
	x1, y1, x2, y2 int
	base           pixels.Color
	tolerance      float64
}

func newRectScan(buf pixels.Accessor, tolerance float64, x1, y1, x2, y2 int) (*rectScan, error) {
	if err := checkCall(buf, tolerance, x1, y1, x2, y2); err != nil {
		return nil, err
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return &rectScan{
		buf:       buf,
		x1:        x1,
		y1:        y1,
		x2:        x2,
		y2:        y2,
		base:      buf.ColorAt(x1, y1),
		tolerance: tolerance,
	}, nil
}

func (s *rectScan) top(ctx context.Context) (int, error) {
	for y := s.y1; y < s.y2; y++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !s.rowSimilar(y) {
			return y, nil
		}
	}
	return s.y2, nil
}

func (s *rectScan) bottom(ctx context.Context) (int, error) {
	for y := s.y2; y > s.y1; y-- {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !s.rowSimilar(y) {
			return y, nil
		}
	}
	return s.y1, nil
}

func (s *rectScan) left(ctx context.Context) (int, error) {
	for x := s.x1; x < s.x2; x++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !s.columnSimilar(x) {
			return x, nil
		}
	}
	return s.x2, nil
}

func (s *rectScan) right(ctx context.Context) (int, error) {
	for x := s.x2; x > s.x1; x-- {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !s.columnSimilar(x) {
			return x, nil
		}
	}
	return s.x1, nil
}

// rowSimilar reports whether every pixel of row y in [x1, x2) is similar to
// the base color.
func (s *rectScan) rowSimilar(y int) bool {
	for x := s.x1; x < s.x2; x++ {
		if !Similar(s.base, s.buf.ColorAt(x, y), s.tolerance) {
			return false
		}
	}
	return true
}

func (s *rectScan) columnSimilar(x int) bool {
	for y := s.y1; y < s.y2; y++ {
		if !Similar(s.base, s.buf.ColorAt(x, y), s.tolerance) {
			return false
		}
	}
	return true
}
