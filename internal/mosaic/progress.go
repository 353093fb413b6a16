package mosaic

import (
	"math"

	log "github.com/sirupsen/logrus"
)

// ProgressFunc receives the completed percentage of a run, in (0, 100].
type ProgressFunc func(percent float64)

// ProgressIgnore is a ProgressFunc that does nothing.
func ProgressIgnore(float64) {}

// LogProgress returns a ProgressFunc that logs every time the progress
// crosses a multiple of step percent, and once more at 100. A non-positive
// step logs every update.
func LogProgress(prefix string, step float64) ProgressFunc {
	last := math.Inf(-1)
	return func(percent float64) {
		if step > 0 && percent < 100 && math.Floor(percent/step) <= last {
			return
		}
		if step > 0 {
			last = math.Floor(percent / step)
		}
		log.Infof("%s: %.1f%%", prefix, percent)
	}
}

// WholePercents wraps fn so it is only called when the integer part of the
// progress changes. The final 100 is always delivered.
func WholePercents(fn ProgressFunc) ProgressFunc {
	last := -1
	return func(percent float64) {
		p := int(percent)
		if p == last && percent < 100 {
			return
		}
		last = p
		fn(percent)
	}
}
