package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// CropResult contains the cropped image data
type CropResult struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropBox extracts a measured box from an image, grown by padding pixels on
// every side and clipped to the image. A positive scale other than 1
// resizes the crop with Lanczos resampling; 0 means unscaled.
func CropBox(img image.Image, box Box, padding int, scale float64) (*CropResult, error) {
	if box.Empty() {
		return nil, fmt.Errorf("cannot crop empty box %+v", box)
	}
	if padding < 0 {
		return nil, fmt.Errorf("invalid padding %d", padding)
	}
	if scale < 0 || math.IsNaN(scale) {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}

	bounds := img.Bounds()
	r := box.Rect().Inset(-padding).Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", box.Rect(), bounds)
	}

	cropped := imaging.Crop(img, r)

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		X:           r.Min.X - bounds.Min.X,
		Y:           r.Min.Y - bounds.Min.Y,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
