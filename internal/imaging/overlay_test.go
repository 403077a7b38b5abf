package imaging

import (
	"image"
	"image/color"
	"testing"
)

func whiteImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestBox(t *testing.T) {
	b := Box{Top: 20, Bottom: 28, Left: 17, Right: 22}
	if b.Empty() {
		t.Error("box should not be empty")
	}
	if got, want := b.Rect(), image.Rect(17, 20, 23, 29); got != want {
		t.Errorf("Rect: got %v, want %v", got, want)
	}

	single := Box{Top: 3, Bottom: 3, Left: 4, Right: 4}
	if single.Empty() || single.Rect().Dx() != 1 || single.Rect().Dy() != 1 {
		t.Errorf("single pixel box: Empty=%v Rect=%v", single.Empty(), single.Rect())
	}

	inverted := Box{Top: 10, Bottom: 3, Left: 9, Right: 2}
	if !inverted.Empty() {
		t.Error("inverted box should be empty")
	}
}

func TestOverlay(t *testing.T) {
	img := whiteImage(40, 30)
	box := Box{Top: 20, Bottom: 28, Left: 17, Right: 22}

	result, err := Overlay(img, box, nil, "#FF00FF")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if result.Width != 40 || result.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", result.Width, result.Height)
	}
	if result.Label != "6x9" {
		t.Errorf("Label: got %q, want 6x9", result.Label)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", result.MimeType)
	}

	out := decodePNG(t, result.ImageBase64)
	magenta := color.RGBA{255, 0, 255, 255}
	white := color.RGBA{255, 255, 255, 255}

	// Outline sits one pixel outside the box on every side.
	for _, p := range []image.Point{{16, 19}, {23, 19}, {16, 29}, {23, 29}, {20, 19}, {16, 24}, {23, 24}, {20, 29}} {
		if got := rgbaAt(out, p.X, p.Y); got != magenta {
			t.Errorf("outline at %v: got %v, want %v", p, got, magenta)
		}
	}
	// Measured pixels stay untouched.
	for _, p := range []image.Point{{17, 20}, {22, 28}, {19, 24}} {
		if got := rgbaAt(out, p.X, p.Y); got != white {
			t.Errorf("inside at %v: got %v, want %v", p, got, white)
		}
	}
	// Far from the box nothing changes.
	if got := rgbaAt(out, 2, 2); got != white {
		t.Errorf("background: got %v, want %v", got, white)
	}
	// The source image is not modified.
	if got := rgbaAt(img, 16, 19); got != white {
		t.Errorf("source modified at (16,19): %v", got)
	}
}

func TestOverlay_SeedTicks(t *testing.T) {
	img := whiteImage(40, 30)
	box := Box{Top: 20, Bottom: 28, Left: 17, Right: 22}
	seed := image.Point{X: 19, Y: 24}

	result, err := Overlay(img, box, &seed, "#FF00FF")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	out := decodePNG(t, result.ImageBase64)

	// Seed row and column are tinted at half strength.
	for _, p := range []image.Point{{17, 24}, {22, 24}, {19, 20}, {19, 28}} {
		got := rgbaAt(out, p.X, p.Y)
		if got.R != 255 || got.B != 255 || got.G == 255 || got.G == 0 {
			t.Errorf("tick at %v: got %v, want half-blended magenta", p, got)
		}
	}
	if got := rgbaAt(out, 18, 21); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("off-axis pixel (18,21) should stay white, got %v", got)
	}
}

func TestOverlay_LabelBelowWhenNoRoom(t *testing.T) {
	img := whiteImage(40, 30)
	box := Box{Top: 1, Bottom: 4, Left: 5, Right: 10}

	result, err := Overlay(img, box, nil, "#00FF00")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if result.Label != "6x4" {
		t.Errorf("Label: got %q, want 6x4", result.Label)
	}
	out := decodePNG(t, result.ImageBase64)

	// Label background starts at outline.Max.Y+1 = 7.
	found := false
	for x := 5; x < 18; x++ {
		if rgbaAt(out, x, 8) != (color.RGBA{255, 255, 255, 255}) {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected label to be drawn below the box")
	}
}

func TestOverlay_EmptyBox(t *testing.T) {
	img := whiteImage(10, 10)

	result, err := Overlay(img, Box{Top: 5, Bottom: 2, Left: 5, Right: 2}, nil, "#FF00FF")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if result.Label != "" {
		t.Errorf("Label: got %q, want empty", result.Label)
	}
	out := decodePNG(t, result.ImageBase64)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if got := rgbaAt(out, x, y); got != (color.RGBA{255, 255, 255, 255}) {
				t.Fatalf("pixel (%d,%d) changed to %v", x, y, got)
			}
		}
	}
}

func TestOverlay_InvalidColor(t *testing.T) {
	img := whiteImage(20, 20)
	for _, c := range []string{"not-a-color", "", "#FF00F", "#GG0000"} {
		if _, err := Overlay(img, Box{Top: 10, Bottom: 12, Left: 10, Right: 12}, nil, c); err == nil {
			t.Errorf("Overlay with color %q should fail", c)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"#00FF00", color.NRGBA{0, 255, 0, 255}, false},
		{"0000FF", color.NRGBA{0, 0, 255, 255}, false},
		{"#FF000080", color.NRGBA{255, 0, 0, 128}, false},
		{"#ffffff", color.NRGBA{255, 255, 255, 255}, false},
		{"", color.NRGBA{}, true},
		{"#FFF", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 255}

	drawLabel(img, 1, 1, "1x", fg, bg)

	// '1' top row is "010".
	if got := img.RGBAAt(2, 1); got != fg {
		t.Errorf("glyph pixel (2,1): got %v, want %v", got, fg)
	}
	if got := img.RGBAAt(1, 1); got != bg {
		t.Errorf("glyph gap (1,1): got %v, want %v", got, bg)
	}
	// 'x' centre is at column 1, row 2 of the second cell.
	if got := img.RGBAAt(1+labelCharWidth+1, 3); got != fg {
		t.Errorf("x centre: got %v, want %v", got, fg)
	}
	// Background padding extends one pixel up and left.
	if got := img.RGBAAt(0, 0); got != bg {
		t.Errorf("padding (0,0): got %v, want %v", got, bg)
	}
	// Outside the label is untouched.
	if got := img.RGBAAt(19, 9); got != (color.RGBA{}) {
		t.Errorf("outside label: got %v", got)
	}
}

func TestDrawLabel_ClipsAtEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	// Must not panic when the label runs off the image.
	drawLabel(img, 3, 3, "1234", color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
}
