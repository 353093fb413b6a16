package mosaic

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
)

func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// noiseImage fills an image with a deterministic pseudo-random opaque pattern.
func noiseImage(width, height int, seed uint32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			seed = seed*1664525 + 1013904223
			img.Pix[i+c] = uint8(seed >> 24)
		}
		img.Pix[i+3] = 255
	}
	return img
}

func solidSource(id string, c color.NRGBA) AssetSource {
	return AssetSource{ID: id, Bitmap: solidImage(16, 16, c)}
}

func mustLibrary(t *testing.T, sources ...AssetSource) *Library {
	t.Helper()
	lib, err := BuildLibrary(context.Background(), sources)
	if err != nil {
		t.Fatalf("BuildLibrary failed: %v", err)
	}
	if len(lib.Skipped) != 0 {
		t.Fatalf("unexpected skipped assets: %+v", lib.Skipped)
	}
	return lib
}

func featuresOf(img *image.NRGBA) imaging.Features {
	return imaging.ExtractFeatures(img, img.Bounds())
}
