package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestToNRGBA(t *testing.T) {
	n := createInMemoryImage(5, 5, color.NRGBA{1, 2, 3, 255})
	if ToNRGBA(n) != n {
		t.Error("ToNRGBA should return an NRGBA at origin unchanged")
	}

	rgba := image.NewRGBA(image.Rect(3, 3, 8, 9))
	converted := ToNRGBA(rgba)
	if converted.Bounds() != image.Rect(0, 0, 5, 6) {
		t.Errorf("bounds: got %v, want (0,0)-(5,6)", converted.Bounds())
	}
}

func TestScaleInput(t *testing.T) {
	img := createPatternImage(100, 80)

	tests := []struct {
		name         string
		factor       float64
		wantW, wantH int
	}{
		{"identity", 1.0, 100, 80},
		{"half", 0.5, 50, 40},
		{"double", 2.0, 200, 160},
		{"non-positive keeps size", 0, 100, 80},
		{"tiny stays at least 1px", 0.001, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScaleInput(img, tt.factor)
			if err != nil {
				t.Fatalf("ScaleInput failed: %v", err)
			}
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d",
					got.Bounds().Dx(), got.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestScaleInput_ClampsToMaxDimension(t *testing.T) {
	img := createInMemoryImage(100, 50, color.NRGBA{0, 0, 0, 255})

	got, err := ScaleInput(img, 100)
	if err != nil {
		t.Fatalf("ScaleInput failed: %v", err)
	}
	if got.Bounds().Dx() != MaxDimension || got.Bounds().Dy() != MaxDimension/2 {
		t.Errorf("dimensions: got %v, want %dx%d", got.Bounds(), MaxDimension, MaxDimension/2)
	}
}

func TestScaleInput_NearestNeighborKeepsEdges(t *testing.T) {
	img := createPatternImage(4, 4)

	got, err := ScaleInput(img, 4)
	if err != nil {
		t.Fatalf("ScaleInput failed: %v", err)
	}
	// every output pixel must be one of the four source colors
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := got.NRGBAAt(x, y)
			switch c {
			case color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 255, 0, 255},
				color.NRGBA{0, 0, 255, 255}, color.NRGBA{255, 255, 255, 255}:
			default:
				t.Fatalf("pixel (%d,%d) = %v is not a source color", x, y, c)
			}
		}
	}
}

func TestScaleInput_Empty(t *testing.T) {
	if _, err := ScaleInput(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 1); err == nil {
		t.Error("ScaleInput should fail for an empty image")
	}
}

func TestEncodePNG(t *testing.T) {
	img := createPatternImage(30, 20)

	result, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if result.Width != 30 || result.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if _, err := base64.StdEncoding.DecodeString(result.ImageBase64); err != nil {
		t.Errorf("failed to decode base64: %v", err)
	}
}

func TestSaveImage(t *testing.T) {
	img := createPatternImage(12, 12)
	path := filepath.Join(t.TempDir(), "out.png")

	if err := SaveImage(img, path); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output not written: %v", err)
	}

	cache := NewImageCache()
	loaded, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := AverageColor(ToNRGBA(loaded), image.Rect(0, 0, 6, 6)); got != (RGBColor{255, 0, 0}) {
		t.Errorf("round-tripped top-left quadrant: got %+v, want red", got)
	}
}

func TestSaveImage_UnsupportedExtension(t *testing.T) {
	img := createPatternImage(4, 4)
	if err := SaveImage(img, filepath.Join(t.TempDir(), "out.xyz")); err == nil {
		t.Error("SaveImage should fail for an unknown extension")
	}
}
