package imaging

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// HistogramBuckets is the number of luminance levels in a LuminanceHistogram.
const HistogramBuckets = 256

// LuminanceHistogram is a normalized distribution of pixel luminance.
//
// Bucket i holds the fraction of pixels whose rounded luminance equals i, so
// the buckets of a histogram computed from a non-empty region sum to 1.
type LuminanceHistogram [HistogramBuckets]float64

// Sum returns the sum of all buckets.
func (h *LuminanceHistogram) Sum() float64 {
	return floats.Sum(h[:])
}

// Luminance returns the ITU-R BT.601 luma of an 8-bit RGB triple,
// round(0.299*R + 0.587*G + 0.114*B), clamped to 0-255.
func Luminance(r, g, b uint8) int {
	l := int(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
	if l > 255 {
		return 255
	}
	return l
}

// ComputeHistogram returns the normalized luminance histogram of region r.
//
// r must be a non-empty rectangle inside img's bounds; an empty region is a
// programming error and panics.
func ComputeHistogram(img *image.NRGBA, r image.Rectangle) LuminanceHistogram {
	mustRegion(img, r)

	var counts [HistogramBuckets]int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		end := i + r.Dx()*4
		for ; i < end; i += 4 {
			counts[Luminance(img.Pix[i], img.Pix[i+1], img.Pix[i+2])]++
		}
	}
	return normalize(&counts, r.Dx()*r.Dy())
}

// HistogramDistance returns the chi-squared distance between two histograms:
//
//	sum over i of (a[i] - b[i])² / (a[i] + b[i])
//
// Bucket pairs that are both zero contribute nothing. The distance is zero for
// identical histograms and symmetric in its arguments.
func HistogramDistance(a, b *LuminanceHistogram) float64 {
	var d float64
	for i := range a {
		s := a[i] + b[i]
		if s == 0 {
			continue
		}
		diff := a[i] - b[i]
		d += diff * diff / s
	}
	return d
}

func normalize(counts *[HistogramBuckets]int, n int) LuminanceHistogram {
	var h LuminanceHistogram
	total := float64(n)
	for i, c := range counts {
		if c != 0 {
			h[i] = float64(c) / total
		}
	}
	return h
}
