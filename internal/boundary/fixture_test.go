package boundary

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ironsheep/region-ruler-mcp/internal/pixels"
)

var (
	white  = color.RGBA{255, 255, 255, 255}
	black  = color.RGBA{0, 0, 0, 255}
	red    = color.RGBA{200, 40, 40, 255}
	green  = color.RGBA{40, 200, 40, 255}
	blue   = color.RGBA{40, 40, 200, 255}
	yellow = color.RGBA{240, 200, 0, 255}
	teal   = color.RGBA{0, 160, 160, 255}
)

// block is a solid fill; X2 and Y2 are inclusive.
type block struct {
	X1, Y1, X2, Y2 int
	C              color.RGBA
}

// sampleBlocks lay out the 32x32 sample image on a white background.
var sampleBlocks = []block{
	{3, 3, 12, 5, black},
	{9, 12, 18, 14, red},
	{0, 20, 5, 25, green},
	{17, 20, 22, 28, blue},
	{27, 20, 28, 28, yellow},
	{30, 26, 30, 28, teal},
}

// drawBlocks returns a width x height image filled with bg and the given
// blocks painted in order.
func drawBlocks(width, height int, bg color.Color, blocks []block) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	for _, b := range blocks {
		r := image.Rect(b.X1, b.Y1, b.X2+1, b.Y2+1)
		draw.Draw(img, r, &image.Uniform{C: b.C}, image.Point{}, draw.Src)
	}
	return img
}

func sampleBuffer() *pixels.Buffer {
	return pixels.FromImage(drawBlocks(32, 32, white, sampleBlocks))
}

func uniformBuffer(width, height int, c color.RGBA) *pixels.Buffer {
	return pixels.FromImage(drawBlocks(width, height, c, nil))
}
