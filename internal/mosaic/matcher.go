package mosaic

import (
	"math"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
)

// Score returns the distance between a chunk's features and an asset under
// strategy, without the usage penalty. Lower is better.
//
// PatternMatch and RotateMatch score identically; they differ only in
// placement.
func Score(strategy Strategy, target imaging.Features, asset *Asset) float64 {
	switch strategy {
	case ColorMatch:
		return imaging.ColorDistance(target.Color, asset.AverageColor())
	case HistogramMatch:
		return imaging.HistogramDistance(&target.Histogram, &asset.Histogram)
	case PatternMatch, RotateMatch:
		return imaging.ColorDistance(target.Color, asset.AverageColor()) +
			imaging.HistogramDistance(&target.Histogram, &asset.Histogram)
	default:
		panic("mosaic: score with unknown strategy " + strategy.String())
	}
}

// SelectBest returns the index of the asset with the lowest score plus usage
// penalty and records one use of it. The first asset in library order wins
// ties. ok is false when the library is empty.
func SelectBest(target imaging.Features, lib *Library, strategy Strategy, usage *Usage) (index int, ok bool) {
	best := -1
	minScore := math.Inf(1)
	for i := 0; i < lib.Len(); i++ {
		s := Score(strategy, target, lib.Assets[i]) + usage.Penalty(i)
		if s < minScore {
			minScore = s
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	usage.record(best)
	return best, true
}
