package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/region-ruler-mcp/internal/imaging"
)

// writeFixture writes a 24x24 white PNG with a blue block spanning
// x 4..11, y 6..9.
func writeFixture(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x >= 4 && x <= 11 && y >= 6 && y <= 9 {
				c = color.RGBA{40, 40, 200, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "fixture.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REGION_RULER_CONFIG", "")
	t.Setenv("REGION_RULER_LOG_LEVEL", "error")
	t.Setenv("REGION_RULER_DEFAULT_TOLERANCE", "")
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(""), &out)
	return out.String(), err
}

func TestRun_Measure(t *testing.T) {
	path := writeFixture(t)

	out, err := runCLI(t, "measure", path, "--x", "6", "--y", "7")
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}

	var m imaging.MeasureResult
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if m.Top != 6 || m.Bottom != 9 || m.Left != 4 || m.Right != 11 || m.Width != 8 || m.Height != 4 {
		t.Errorf("extent: got %+v", m.Extent)
	}
	if m.BaseColor.Hex != "#2828C8" {
		t.Errorf("base color: got %s", m.BaseColor.Hex)
	}
}

func TestRun_MeasureYAML(t *testing.T) {
	path := writeFixture(t)

	out, err := runCLI(t, "--format", "yaml", "measure", path, "--x", "6", "--y", "7", "-t", "3")
	if err != nil {
		t.Fatalf("measure failed: %v", err)
	}
	for _, want := range []string{"top: 6\n", "width: 8\n", "height: 4\n", "tolerance: 3\n", "2828C8"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_MeasureOutOfRange(t *testing.T) {
	path := writeFixture(t)
	if _, err := runCLI(t, "measure", path, "--x", "24", "--y", "0"); err == nil {
		t.Error("expected error for seed outside the image")
	}
}

func TestRun_MeasureMissingImage(t *testing.T) {
	if _, err := runCLI(t, "measure", filepath.Join(t.TempDir(), "missing.png"), "--x", "0", "--y", "0"); err == nil {
		t.Error("expected error for missing image")
	}
}

func TestRun_Rect(t *testing.T) {
	path := writeFixture(t)
	overlay := filepath.Join(t.TempDir(), "overlay.png")

	out, err := runCLI(t, "rect", path, "--x1", "20", "--y1", "20", "--x2", "1", "--y2", "2", "--overlay", overlay)
	if err != nil {
		t.Fatalf("rect failed: %v", err)
	}

	var r imaging.RectangleResult
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if r.Top != 6 || r.Bottom != 9 || r.Left != 4 || r.Right != 11 || r.Empty {
		t.Errorf("rectangle: got %+v empty=%v", r.Rectangle, r.Empty)
	}

	f, err := os.Open(overlay)
	if err != nil {
		t.Fatalf("overlay not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("overlay is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 24 {
		t.Errorf("overlay size: got %v", img.Bounds())
	}
}

func TestRun_Version(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "region-ruler "+Version) {
		t.Errorf("version output: got %q", out)
	}
}

func TestRun_BadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative max", "max_tolerance: -1\n"},
		{"default above max", "max_tolerance: 10\ndefault_tolerance: 20\n"},
		{"malformed", "max_tolerance: [1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(cfgPath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := runCLI(t, "--config", cfgPath, "version"); err == nil {
				t.Error("expected error for invalid config")
			}
		})
	}
}

func TestRun_EnvLevelOverridesFile(t *testing.T) {
	// The environment level replaces the file's before validation, so an
	// unknown level in the file is not an error.
	cfgPath := filepath.Join(t.TempDir(), "level.yaml")
	if err := os.WriteFile(cfgPath, []byte("log_level: chatty\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "--config", cfgPath, "version"); err != nil {
		t.Errorf("env log level should override the file: %v", err)
	}
}

func TestRun_RectFlagNames(t *testing.T) {
	path := writeFixture(t)
	// Flags mirror the region_rectangle tool arguments.
	if _, err := runCLI(t, "rect", path, "--x-1", "20", "--y-1", "20", "--x-2", "1", "--y-2", "2"); err == nil {
		t.Error("hyphenated corner flags should not be accepted")
	}
}
