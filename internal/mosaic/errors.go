package mosaic

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the input image has no pixels.
	ErrEmptyInput = errors.New("input image is empty")

	// ErrInvalidChunkSize is returned when Params.ChunkSize is below 1.
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

	// ErrInvalidOverlap is returned when a PatternMatch run has an overlap
	// outside 0-70 percent.
	ErrInvalidOverlap = errors.New("overlap must be between 0 and 70 percent")

	// ErrUnknownStrategy is returned for a strategy outside the known set.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// ExecutionError reports a failure inside a run's worker. The run produces
// no output when it occurs.
type ExecutionError struct {
	RunID string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("mosaic run %s failed: %v", e.RunID, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
