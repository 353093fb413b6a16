package mosaic

import (
	"fmt"
	"strings"
)

// Strategy selects how chunks are scored against assets and how the winning
// asset is placed.
type Strategy int

const (
	// ColorMatch scores by the distance between average colors and pastes the
	// asset centered on its chunk.
	ColorMatch Strategy = iota
	// HistogramMatch scores by the chi-squared distance between luminance
	// histograms and pastes the asset centered on its chunk.
	HistogramMatch
	// PatternMatch scores by color plus histogram distance and shifts the
	// asset up and left by half of Params.Overlap percent of the chunk size.
	PatternMatch
	// RotateMatch scores like PatternMatch and pastes the asset centered on
	// its chunk, rotated clockwise by a random multiple of 90 degrees.
	RotateMatch
)

var strategyNames = [...]string{
	ColorMatch:     "ColorMatch",
	HistogramMatch: "HistogramMatch",
	PatternMatch:   "PatternMatch",
	RotateMatch:    "RotateMatch",
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{ColorMatch, HistogramMatch, PatternMatch, RotateMatch}
}

func (s Strategy) String() string {
	if s.Valid() {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Valid reports whether s is one of the four known strategies.
func (s Strategy) Valid() bool {
	return s >= ColorMatch && s <= RotateMatch
}

// ParseStrategy parses a strategy name. Matching is case-insensitive.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
