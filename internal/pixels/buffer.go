// Package pixels provides a read-only RGBA8 view over a decoded image.
//
// A Buffer stores pixels row-major, 4 bytes per pixel, with straight
// (non-premultiplied) alpha. This is the same layout an HTML canvas hands out
// through ImageData, so raw buffers captured elsewhere can be wrapped without
// conversion.
package pixels

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrBufferSize is returned by New when the pixel slice length does not
// match width*height*4.
var ErrBufferSize = errors.New("pixel buffer size mismatch")

// Color is a single pixel as R, G, B, A channel values.
type Color [4]uint8

// Accessor is the read-only view the boundary engine measures against.
type Accessor interface {
	Width() int
	Height() int
	ColorAt(x, y int) Color
}

// Buffer is a width x height grid of RGBA8 pixels.
//
// A Buffer is never mutated after construction; loading a new image means
// building a new Buffer.
type Buffer struct {
	pix    []uint8
	width  int
	height int
}

// New wraps raw row-major RGBA8 bytes. The slice is not copied.
func New(width, height int, pix []uint8) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrBufferSize, len(pix), width*height*4, width, height)
	}
	return &Buffer{pix: pix, width: width, height: height}, nil
}

// FromImage converts any image to a Buffer anchored at (0,0).
//
// The conversion goes through imaging.Clone, which always yields a tightly
// packed *image.NRGBA regardless of the source color model or bounds origin.
func FromImage(img image.Image) *Buffer {
	n := imaging.Clone(img)
	return &Buffer{
		pix:    n.Pix,
		width:  n.Rect.Dx(),
		height: n.Rect.Dy(),
	}
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// In reports whether (x, y) addresses a pixel inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// ColorAt returns the pixel at (x, y). The coordinate must be in bounds;
// callers that cannot guarantee this should check In first.
func (b *Buffer) ColorAt(x, y int) Color {
	off := Offset(x, y, b.width)
	return Color{b.pix[off], b.pix[off+1], b.pix[off+2], b.pix[off+3]}
}

// Offset returns the byte offset of pixel (x, y) in a row-major RGBA8
// buffer that is w pixels wide.
func Offset(x, y, w int) int {
	return (x + y*w) * 4
}

// NRGBA exposes the buffer as an *image.NRGBA sharing the same memory.
// The returned image must be treated as read-only.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}
