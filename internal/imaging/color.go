package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Feature extraction produces RGBColor values as rounded channel means, so
// every component is within 0-255 by construction.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color in "#rrggbb" form.
func (c RGBColor) Hex() string {
	return c.colorful().Hex()
}

// RGBA returns the color as an opaque color.RGBA.
func (c RGBColor) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHexColor parses "#rrggbb" (or "rrggbb") into an RGBColor.
func ParseHexColor(hex string) (RGBColor, error) {
	if len(hex) > 0 && hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Features is the pair of summaries the matcher compares: the average color
// and the luminance histogram of a region.
type Features struct {
	Color     RGBColor
	Histogram LuminanceHistogram
}

// AverageColor computes the rounded arithmetic mean of each channel over all
// pixels of r. Alpha is ignored.
//
// r must be a non-empty rectangle inside img's bounds; an empty region is a
// programming error and panics.
func AverageColor(img *image.NRGBA, r image.Rectangle) RGBColor {
	mustRegion(img, r)

	var sr, sg, sb uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		end := i + r.Dx()*4
		for ; i < end; i += 4 {
			sr += uint64(img.Pix[i])
			sg += uint64(img.Pix[i+1])
			sb += uint64(img.Pix[i+2])
		}
	}
	return meanColor(sr, sg, sb, r.Dx()*r.Dy())
}

// ExtractFeatures computes the average color and the luminance histogram of r
// in a single pass over the pixels. It is equivalent to calling AverageColor
// and ComputeHistogram separately.
func ExtractFeatures(img *image.NRGBA, r image.Rectangle) Features {
	mustRegion(img, r)

	var counts [HistogramBuckets]int
	var sr, sg, sb uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		end := i + r.Dx()*4
		for ; i < end; i += 4 {
			pr, pg, pb := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
			sr += uint64(pr)
			sg += uint64(pg)
			sb += uint64(pb)
			counts[Luminance(pr, pg, pb)]++
		}
	}

	n := r.Dx() * r.Dy()
	return Features{
		Color:     meanColor(sr, sg, sb, n),
		Histogram: normalize(&counts, n),
	}
}

// ColorDistance returns the Euclidean distance between two colors in RGB space.
func ColorDistance(a, b RGBColor) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func meanColor(sr, sg, sb uint64, n int) RGBColor {
	return RGBColor{
		R: uint8(math.Round(float64(sr) / float64(n))),
		G: uint8(math.Round(float64(sg) / float64(n))),
		B: uint8(math.Round(float64(sb) / float64(n))),
	}
}

func mustRegion(img *image.NRGBA, r image.Rectangle) {
	if r.Empty() {
		panic(fmt.Sprintf("imaging: empty region %v", r))
	}
	if !r.In(img.Bounds()) {
		panic(fmt.Sprintf("imaging: region %v outside image bounds %v", r, img.Bounds()))
	}
}
