package mosaic

import (
	"context"
	"fmt"
	"image"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
)

// Result is the output of a completed run.
type Result struct {
	RunID string

	// Image has the input's dimensions and starts at (0,0).
	Image *image.RGBA

	// Usage maps every library asset id to the number of chunks it filled.
	Usage map[string]int

	Chunks  int
	Elapsed time.Duration
}

// Used lists the assets that were chosen at least once, most used first.
func (r *Result) Used() []UsageEntry {
	return Used(r.Usage)
}

// Engine runs mosaics against a fixed library. An Engine may start any
// number of concurrent runs; each run has its own usage state.
type Engine struct {
	lib *Library
}

// NewEngine returns an engine for lib. A nil or empty library is allowed:
// every chunk is then filled with its average color.
func NewEngine(lib *Library) *Engine {
	if lib == nil {
		lib = &Library{}
	}
	return &Engine{lib: lib}
}

// Library returns the engine's asset library.
func (e *Engine) Library() *Library {
	return e.lib
}

// Run is a mosaic run executing on its own goroutine.
//
// Progress values must be consumed, either by ranging over Progress or by
// calling Wait; the worker blocks until each value is received.
type Run struct {
	ID     string
	Params Params
	Chunks int

	progress chan float64
	done     chan struct{}
	cancel   context.CancelCauseFunc

	result *Result
	err    error
}

// Start validates the input and parameters and launches a run. Validation
// errors are returned before any work starts. The run stops early when ctx
// is done or Cancel is called.
func (e *Engine) Start(ctx context.Context, input image.Image, params Params) (*Run, error) {
	if input == nil || input.Bounds().Empty() {
		return nil, ErrEmptyInput
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	src := imaging.ToNRGBA(input)
	runCtx, cancel := context.WithCancelCause(ctx)
	r := &Run{
		ID:       uuid.NewString(),
		Params:   params,
		Chunks:   ChunkCount(src.Bounds(), params.ChunkSize),
		progress: make(chan float64),
		done:     make(chan struct{}),
		cancel:   cancel,
	}

	go r.work(runCtx, src, e.lib)
	return r, nil
}

// Generate runs a mosaic to completion and calls onProgress, if non-nil,
// after every chunk.
func (e *Engine) Generate(ctx context.Context, input image.Image, params Params, onProgress ProgressFunc) (*Result, error) {
	run, err := e.Start(ctx, input, params)
	if err != nil {
		return nil, err
	}
	if onProgress == nil {
		onProgress = ProgressIgnore
	}
	for p := range run.Progress() {
		onProgress(p)
	}
	return run.Wait()
}

// Progress returns the channel of completed percentages. It receives one
// value per chunk, ends with exactly 100 on success, and is closed when the
// run finishes.
func (r *Run) Progress() <-chan float64 {
	return r.progress
}

// Done is closed once the run has finished and its result is available.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Cancel stops the run at the next chunk boundary. Wait then returns
// context.Canceled and no result.
func (r *Run) Cancel() {
	r.cancel(context.Canceled)
}

// Wait discards unread progress and blocks until the run finishes.
func (r *Run) Wait() (*Result, error) {
	for range r.progress {
	}
	<-r.done
	return r.result, r.err
}

func (r *Run) work(ctx context.Context, input *image.NRGBA, lib *Library) {
	defer close(r.done)
	defer close(r.progress)
	defer r.cancel(nil)

	logger := log.WithFields(log.Fields{
		"run":      r.ID,
		"chunks":   r.Chunks,
		"strategy": r.Params.Strategy,
	})
	logger.Debug("Mosaic run started")

	r.result, r.err = r.execute(ctx, input, lib)
	switch {
	case r.err == nil:
		logger.WithField("elapsed", r.result.Elapsed).Debug("Mosaic run finished")
	case ctx.Err() != nil:
		logger.WithError(r.err).Debug("Mosaic run cancelled")
	default:
		logger.WithError(r.err).Error("Mosaic run failed")
	}
}

func (r *Run) execute(ctx context.Context, input *image.NRGBA, lib *Library) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.WithField("run", r.ID).Debugf("panic in mosaic worker: %v\n%s", p, debug.Stack())
			res, err = nil, &ExecutionError{RunID: r.ID, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	start := time.Now()
	s := newScheduler(input, lib, r.Params)
	emit := func(p float64) error {
		select {
		case r.progress <- p:
			return nil
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
	if err := s.run(ctx, emit); err != nil {
		return nil, err
	}

	return &Result{
		RunID:   r.ID,
		Image:   s.comp.dst,
		Usage:   s.usage.Report(),
		Chunks:  r.Chunks,
		Elapsed: time.Since(start),
	}, nil
}
