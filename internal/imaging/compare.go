package imaging

import (
	"fmt"
	"image"
	"math"
)

// CompareResult summarizes how closely two equally sized images match.
//
// Mosaic front ends use it as a fidelity score: the composed mosaic is
// compared against the (scaled) input it was generated from.
type CompareResult struct {
	// SimilarityScore is the fraction of pixels whose mean channel difference
	// is at most DifferenceThreshold (0.0 to 1.0).
	SimilarityScore float64 `json:"similarity_score"`

	// PixelsDifferent counts pixels above DifferenceThreshold.
	PixelsDifferent int `json:"pixels_different"`

	// TotalPixels is the number of compared pixels.
	TotalPixels int `json:"total_pixels"`

	// AverageColorDiff is the mean per-pixel channel difference (0-255).
	AverageColorDiff float64 `json:"average_color_diff"`

	// AverageColorA and AverageColorB are the overall average colors.
	AverageColorA string `json:"average_color_a"`
	AverageColorB string `json:"average_color_b"`
}

// DifferenceThreshold is the mean channel difference above which two pixels
// count as different.
const DifferenceThreshold = 10

// CompareImages compares two images of identical dimensions pixel by pixel.
func CompareImages(a, b image.Image) (*CompareResult, error) {
	na, nb := ToNRGBA(a), ToNRGBA(b)
	ba, bb := na.Bounds(), nb.Bounds()
	if ba.Size() != bb.Size() {
		return nil, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", ba.Dx(), ba.Dy(), bb.Dx(), bb.Dy())
	}
	if ba.Empty() {
		return nil, fmt.Errorf("cannot compare empty images")
	}

	totalPixels := ba.Dx() * ba.Dy()
	pixelsDifferent := 0
	var totalColorDiff float64

	for y := 0; y < ba.Dy(); y++ {
		ia := na.PixOffset(0, y)
		ib := nb.PixOffset(0, y)
		for x := 0; x < ba.Dx(); x++ {
			diff := float64(absDiff(na.Pix[ia], nb.Pix[ib])+
				absDiff(na.Pix[ia+1], nb.Pix[ib+1])+
				absDiff(na.Pix[ia+2], nb.Pix[ib+2])) / 3.0
			totalColorDiff += diff
			if diff > DifferenceThreshold {
				pixelsDifferent++
			}
			ia += 4
			ib += 4
		}
	}

	similarity := 1.0 - float64(pixelsDifferent)/float64(totalPixels)
	return &CompareResult{
		SimilarityScore:  math.Round(similarity*1000) / 1000,
		PixelsDifferent:  pixelsDifferent,
		TotalPixels:      totalPixels,
		AverageColorDiff: math.Round(totalColorDiff/float64(totalPixels)*100) / 100,
		AverageColorA:    AverageColor(na, ba).Hex(),
		AverageColorB:    AverageColor(nb, bb).Hex(),
	}, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
