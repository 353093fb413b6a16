package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	dimaging "github.com/disintegration/imaging"
)

// MaxDimension is the largest width or height ScaleInput produces. Larger
// requests are scaled down proportionally so the longer edge equals it.
const MaxDimension = 4096

// LargeImagePixels is the pixel count above which a mosaic run is considered
// long-running. The engine does not enforce it; front ends warn with it.
const LargeImagePixels = 10_000_000

// ToNRGBA returns img as an *image.NRGBA whose bounds start at (0,0). Images
// that already satisfy this are returned unchanged, everything else is copied.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return dimaging.Clone(img)
}

// ScaleInput resizes img by factor using nearest-neighbor sampling, so that
// hard edges survive, and clamps the result to MaxDimension.
//
// A factor of 1 (or less than or equal to 0) keeps the original size, though
// the clamp still applies. The result is never smaller than 1x1.
func ScaleInput(img image.Image, factor float64) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("cannot scale empty image")
	}
	if factor <= 0 {
		factor = 1
	}

	w := float64(bounds.Dx()) * factor
	h := float64(bounds.Dy()) * factor
	if w > MaxDimension || h > MaxDimension {
		s := MaxDimension / math.Max(w, h)
		w *= s
		h *= s
	}

	nw := int(math.Max(1, math.Round(w)))
	nh := int(math.Max(1, math.Round(h)))
	if nw == bounds.Dx() && nh == bounds.Dy() {
		return ToNRGBA(img), nil
	}
	return dimaging.Resize(img, nw, nh, dimaging.NearestNeighbor), nil
}

// EncodedImage is an image encoded as base64 PNG for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as PNG and wraps it in an EncodedImage.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveImage writes img to path. The format follows the file extension
// (.png, .jpg, .gif, .bmp, .tif).
func SaveImage(img image.Image, path string) error {
	if err := dimaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
