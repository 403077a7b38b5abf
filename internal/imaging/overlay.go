package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
)

// Box is an inclusive pixel rectangle, as produced by the boundary engine.
type Box struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Empty reports whether the box encloses no pixels.
func (b Box) Empty() bool {
	return b.Right < b.Left || b.Bottom < b.Top
}

// Rect converts the box to a half-open image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right+1, b.Bottom+1)
}

// OverlayResult contains the annotated image.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Label       string `json:"label"`
}

// Overlay draws a measurement on top of img and returns it as a PNG.
//
// The box is outlined one pixel outside its edges so the measured pixels
// themselves stay visible. If seed is non-nil, the seed's row and column are
// also marked across the box: those are the only pixels a ray measurement
// inspects. A "WxH" label is drawn above the box, or below it when there is
// no room.
func Overlay(img image.Image, box Box, seed *image.Point, colorHex string) (*OverlayResult, error) {
	lineColor, err := parseHexColor(colorHex)
	if err != nil {
		return nil, fmt.Errorf("invalid overlay color %q: %w", colorHex, err)
	}

	result := clone.AsRGBA(img)
	bounds := result.Bounds()

	label := ""
	if !box.Empty() {
		r := box.Rect().Add(bounds.Min)
		outline := r.Inset(-1)

		fillRect(result, image.Rect(outline.Min.X, outline.Min.Y, outline.Max.X, outline.Min.Y+1), lineColor)
		fillRect(result, image.Rect(outline.Min.X, outline.Max.Y-1, outline.Max.X, outline.Max.Y), lineColor)
		fillRect(result, image.Rect(outline.Min.X, outline.Min.Y+1, outline.Min.X+1, outline.Max.Y-1), lineColor)
		fillRect(result, image.Rect(outline.Max.X-1, outline.Min.Y+1, outline.Max.X, outline.Max.Y-1), lineColor)

		if seed != nil {
			sx, sy := seed.X+bounds.Min.X, seed.Y+bounds.Min.Y
			tick := lineColor
			tick.A /= 2
			fillRect(result, image.Rect(r.Min.X, sy, r.Max.X, sy+1), tick)
			fillRect(result, image.Rect(sx, r.Min.Y, sx+1, r.Max.Y), tick)
		}

		label = fmt.Sprintf("%dx%d", r.Dx(), r.Dy())
		ly := outline.Min.Y - labelHeight - 1
		if ly < bounds.Min.Y {
			ly = outline.Max.Y + 2
		}
		drawLabel(result, outline.Min.X+1, ly, label, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Label:       label,
	}, nil
}

// fillRect composites c over r, clipped to dst.
func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, &image.Uniform{C: c}, image.Point{}, draw.Over)
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// Alpha is straight, not premultiplied.
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

const (
	labelCharWidth = 4
	labelHeight    = 7
)

// drawLabel draws text with a 3x5 pixel font. Only digits, ',' and 'x'
// have glyphs; other runes leave a blank cell.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
		'x': {"000", "101", "010", "101", "000"},
	}

	bounds := img.Bounds()
	labelWidth := len(text) * labelCharWidth

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += labelCharWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += labelCharWidth
	}
}
