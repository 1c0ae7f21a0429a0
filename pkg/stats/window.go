// Package stats maintains rolling per-channel statistics over a fixed
// window of consecutive readings.
package stats

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/itohio/adcmon/pkg/adc"
)

// DefaultCapacity is the number of readings folded into one window.
const DefaultCapacity = 10

// ErrEmptyWindow is returned when a window is closed before any reading
// has been folded in. This is an ordering bug in the caller, not a
// recoverable runtime condition.
var ErrEmptyWindow = errors.New("stats: close on empty window")

// ChannelStats holds the statistics of one channel over a closed window.
type ChannelStats struct {
	Min        float32 // minimum voltage (V)
	Max        float32 // maximum voltage (V)
	Avg        float32 // arithmetic mean voltage (V)
	PeakToPeak float32 // max - min, in millivolts
}

// Window accumulates per-channel min/max/sum over a fixed number of
// consecutive readings. Windows are non-overlapping batches aligned to
// the reading count, not to wall-clock time. A Window is owned and
// mutated by a single goroutine; it is not safe for concurrent use.
type Window struct {
	capacity int
	count    int
	min      [adc.NumChannels]float32
	max      [adc.NumChannels]float32
	sum      [adc.NumChannels]float32
}

// NewWindow creates a window with the given capacity in readings.
// A non-positive capacity selects DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	w := &Window{capacity: capacity}
	w.Reset()
	return w
}

// Reset clears the accumulators for every channel. Calling Reset on an
// already-reset window is a no-op.
func (w *Window) Reset() {
	for i := range w.min {
		w.min[i] = math32.Inf(1)
		w.max[i] = math32.Inf(-1)
		w.sum[i] = 0
	}
	w.count = 0
}

// Fold folds one voltage vector into the window. Must be called exactly
// once per reading.
func (w *Window) Fold(volts [adc.NumChannels]float32) {
	for i, v := range volts {
		w.min[i] = math32.Min(w.min[i], v)
		w.max[i] = math32.Max(w.max[i], v)
		w.sum[i] += v
	}
	w.count++
}

// Count returns the number of readings folded in since the last reset.
func (w *Window) Count() int { return w.count }

// Capacity returns the window capacity in readings.
func (w *Window) Capacity() int { return w.capacity }

// Full reports whether the window has reached its capacity and should
// be closed. The window itself is the source of truth for the close
// cadence; callers must not derive it from a separate iteration counter.
func (w *Window) Full() bool { return w.count >= w.capacity }

// Close computes the statistics for every channel. It does not reset
// the window; the caller decides when to call Reset next.
func (w *Window) Close() ([adc.NumChannels]ChannelStats, error) {
	var stats [adc.NumChannels]ChannelStats

	if w.count == 0 {
		return stats, ErrEmptyWindow
	}

	for i := range stats {
		stats[i] = ChannelStats{
			Min:        w.min[i],
			Max:        w.max[i],
			Avg:        w.sum[i] / float32(w.count),
			PeakToPeak: (w.max[i] - w.min[i]) * 1000,
		}
	}

	return stats, nil
}
