package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"math"
	"testing"
)

func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return img
}

func TestCropBox(t *testing.T) {
	img := createPatternImage(50, 50)

	tests := []struct {
		name    string
		box     Box
		padding int
		scale   float64
		want    image.Rectangle // X, Y, Width, Height as a rectangle
	}{
		{"exact", Box{Top: 10, Bottom: 19, Left: 5, Right: 14}, 0, 1, image.Rect(5, 10, 15, 20)},
		{"padded", Box{Top: 10, Bottom: 19, Left: 5, Right: 14}, 2, 1, image.Rect(3, 8, 17, 22)},
		{"clipped at origin", Box{Top: 0, Bottom: 4, Left: 0, Right: 4}, 3, 1, image.Rect(0, 0, 8, 8)},
		{"clipped at far corner", Box{Top: 45, Bottom: 49, Left: 45, Right: 49}, 3, 1, image.Rect(42, 42, 50, 50)},
		{"single pixel", Box{Top: 7, Bottom: 7, Left: 7, Right: 7}, 0, 1, image.Rect(7, 7, 8, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CropBox(img, tt.box, tt.padding, tt.scale)
			if err != nil {
				t.Fatalf("CropBox failed: %v", err)
			}
			got := image.Rect(result.X, result.Y, result.X+result.Width, result.Y+result.Height)
			if got != tt.want {
				t.Errorf("region: got %v, want %v", got, tt.want)
			}
			if result.MimeType != "image/png" {
				t.Errorf("MimeType: got %s, want image/png", result.MimeType)
			}
			decoded := decodePNG(t, result.ImageBase64)
			if decoded.Bounds().Dx() != result.Width || decoded.Bounds().Dy() != result.Height {
				t.Errorf("decoded size %v does not match %dx%d", decoded.Bounds(), result.Width, result.Height)
			}
		})
	}
}

func TestCropBox_PreservesPixels(t *testing.T) {
	img := createPatternImage(50, 50)
	// Straddles the red/green boundary at x=25.
	result, err := CropBox(img, Box{Top: 0, Bottom: 9, Left: 20, Right: 29}, 0, 1)
	if err != nil {
		t.Fatalf("CropBox failed: %v", err)
	}
	decoded := decodePNG(t, result.ImageBase64)

	r, g, _, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 {
		t.Errorf("left edge should be red, got r=%d g=%d", r>>8, g>>8)
	}
	r, g, _, _ = decoded.At(9, 0).RGBA()
	if r>>8 != 0 || g>>8 != 255 {
		t.Errorf("right edge should be green, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestCropBox_Scale(t *testing.T) {
	img := createPatternImage(50, 50)
	box := Box{Top: 10, Bottom: 19, Left: 10, Right: 19}

	tests := []struct {
		scale float64
		want  int
	}{
		{2.0, 20},
		{0.5, 5},
		{0.01, 1},
		{0, 10}, // zero means unscaled
	}

	for _, tt := range tests {
		result, err := CropBox(img, box, 0, tt.scale)
		if err != nil {
			t.Fatalf("CropBox(scale=%v) failed: %v", tt.scale, err)
		}
		if result.Width != tt.want || result.Height != tt.want {
			t.Errorf("scale %v: got %dx%d, want %dx%d", tt.scale, result.Width, result.Height, tt.want, tt.want)
		}
		// X and Y always refer to the source image.
		if result.X != 10 || result.Y != 10 {
			t.Errorf("scale %v: origin got (%d,%d), want (10,10)", tt.scale, result.X, result.Y)
		}
	}
}

func TestCropBox_Errors(t *testing.T) {
	img := createPatternImage(50, 50)

	tests := []struct {
		name    string
		box     Box
		padding int
	}{
		{"inverted box", Box{Top: 10, Bottom: 5, Left: 0, Right: 10}, 0},
		{"outside image", Box{Top: 100, Bottom: 110, Left: 100, Right: 110}, 0},
		{"negative padding", Box{Top: 0, Bottom: 5, Left: 0, Right: 5}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropBox(img, tt.box, tt.padding, 1); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCropBox_NegativeScale(t *testing.T) {
	img := createPatternImage(50, 50)
	box := Box{Top: 10, Bottom: 19, Left: 10, Right: 19}
	for _, scale := range []float64{-1, -0.5, math.NaN()} {
		if _, err := CropBox(img, box, 0, scale); err == nil {
			t.Errorf("CropBox(scale=%v) should fail", scale)
		}
	}
}
