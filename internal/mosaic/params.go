package mosaic

import (
	"fmt"
	"math/rand"
)

// MaxOverlap is the largest PatternMatch overlap, in percent.
const MaxOverlap = 70

// DefaultChunkSize is the chunk edge front ends use when none is given.
const DefaultChunkSize = 32

// Params configures a single mosaic run.
type Params struct {
	// ChunkSize is the edge length of a chunk in pixels. Chunks in the last
	// row and column are clipped to the image.
	ChunkSize int `json:"chunk_size"`

	Strategy Strategy `json:"strategy"`

	// Overlap is the PatternMatch shift in percent (0-70). Other strategies
	// ignore it.
	Overlap int `json:"overlap"`

	// Seed seeds the rotation source used by RotateMatch. Equal seeds give
	// identical runs.
	Seed int64 `json:"seed"`

	// Rand overrides the rotation source. When set, Seed is ignored. A Rand
	// must not be shared between concurrent runs.
	Rand *rand.Rand `json:"-"`
}

// Validate checks the parameters without touching any image.
func (p Params) Validate() error {
	if p.ChunkSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, p.ChunkSize)
	}
	if !p.Strategy.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(p.Strategy))
	}
	if p.Strategy == PatternMatch && (p.Overlap < 0 || p.Overlap > MaxOverlap) {
		return fmt.Errorf("%w: got %d", ErrInvalidOverlap, p.Overlap)
	}
	return nil
}

func (p Params) rng() *rand.Rand {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.New(rand.NewSource(p.Seed))
}
