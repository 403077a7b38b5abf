// Package boundary measures uniformly colored regions in a pixel buffer.
//
// Two families of measurement are provided:
//
//   - MeasureFromPosition walks four one-pixel-wide rays out of a seed point
//     and reports where each ray first meets a color that is not similar to
//     the seed. Only the seed's row and column are inspected, so the result
//     approximates the size of the region under the seed. It is exact for
//     solid rectangular fills and is not a connected-component search.
//
//   - DetectContainingRectangle takes two corners and scans whole lines
//     inward from each side of the sub-region they span, stopping at the
//     first row or column that is not uniformly similar to the color at the
//     top-left corner.
//
// # Similarity
//
// Two colors are similar when the Euclidean distance over all four RGBA
// channels is at most the tolerance. A tolerance of 0 means exact equality;
// 510 is a practical upper bound for user-facing sliders, but any
// non-negative value is accepted.
//
// # Saturation
//
// A scan that never meets a dissimilar pixel reports the buffer or
// sub-region edge it stopped at. There is no "not found" result.
//
// # Errors
//
// The only failures are contract violations: a seed or corner outside the
// buffer (ErrOutOfRange) and a negative or NaN tolerance
// (ErrInvalidTolerance). Nothing is read from the buffer before both are
// checked.
package boundary
