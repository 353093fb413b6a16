package mosaic

import (
	"context"
	"image"
	"math/rand"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
)

// scheduler walks the chunks of one run in row-major order. It owns the
// run's usage counts, rotation source and output raster.
type scheduler struct {
	input  *image.NRGBA
	lib    *Library
	params Params
	usage  *Usage
	rng    *rand.Rand
	comp   *compositor
}

func newScheduler(input *image.NRGBA, lib *Library, params Params) *scheduler {
	return &scheduler{
		input:  input,
		lib:    lib,
		params: params,
		usage:  NewUsage(lib),
		rng:    params.rng(),
		comp:   newCompositor(input, lib),
	}
}

// run processes every chunk and reports progress after each one. It stops
// at the next chunk boundary once ctx is done, or when progress fails.
func (s *scheduler) run(ctx context.Context, progress func(float64) error) error {
	bounds := s.input.Bounds()
	total := float64(ChunkCount(bounds, s.params.ChunkSize))

	var err error
	EachChunk(bounds, s.params.ChunkSize, func(i int, chunk image.Rectangle) bool {
		if ctx.Err() != nil {
			err = context.Cause(ctx)
			return false
		}
		s.process(chunk)
		err = progress(float64(i+1) / total * 100)
		return err == nil
	})
	return err
}

func (s *scheduler) process(chunk image.Rectangle) {
	features := imaging.ExtractFeatures(s.input, chunk)

	best, ok := SelectBest(features, s.lib, s.params.Strategy, s.usage)
	if !ok {
		s.comp.fill(chunk, features.Color)
		return
	}

	angle := 0
	if s.params.Strategy == RotateMatch {
		angle = Angles[s.rng.Intn(len(Angles))]
	}
	s.comp.paste(best, PlacementFor(chunk, s.params.Strategy, s.params.Overlap, angle))
}
