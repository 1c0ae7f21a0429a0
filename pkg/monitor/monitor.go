// Package monitor runs the acquire-convert-aggregate-report loop.
package monitor

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/itohio/adcmon/pkg/adc"
	"github.com/itohio/adcmon/pkg/report"
	"github.com/itohio/adcmon/pkg/stats"
)

// Options configures a Monitor.
type Options struct {
	SamplePeriod   time.Duration // time between readings (<= 0 means no delay)
	AcquireTimeout time.Duration // bound on one conversion wait (0 selects the default)
	WindowCapacity int           // readings per statistics window (0 selects the default)
	MaxReadings    uint64        // stop after this many readings (0 = run forever)
}

// Monitor owns the control loop state: the acquirer, the channel set,
// the statistics window and the reporter. All pipeline stages are
// driven sequentially from a single goroutine; each reading is acquired,
// converted, folded exactly once, reported, and every windowful the
// window is closed, reported and reset.
type Monitor struct {
	acquirer *adc.Acquirer
	channels [adc.NumChannels]adc.Channel
	window   *stats.Window
	reporter *report.Reporter

	period      time.Duration
	maxReadings uint64
	iteration   uint64
}

// New creates a monitor driving the given peripheral and reporting to
// the given reporter.
func New(p adc.Peripheral, channels [adc.NumChannels]adc.Channel, rep *report.Reporter, opts Options) *Monitor {
	return &Monitor{
		acquirer:    adc.NewAcquirer(p, opts.AcquireTimeout),
		channels:    channels,
		window:      stats.NewWindow(opts.WindowCapacity),
		reporter:    rep,
		period:      opts.SamplePeriod,
		maxReadings: opts.MaxReadings,
	}
}

// Startup emits the banner and runs the one-shot acquisition sanity
// check. An implausible reading produces an advisory warning only; it
// never blocks monitoring.
func (m *Monitor) Startup(ctx context.Context) error {
	if err := m.reporter.Banner(); err != nil {
		return err
	}

	raw, err := m.acquirer.Acquire(ctx)
	if err != nil {
		return err
	}

	if err := m.reporter.Verification(adc.Plausible(raw, m.channels)); err != nil {
		return err
	}

	return m.reporter.MonitoringStart(m.window.Capacity())
}

// Run executes the monitoring loop until ctx is cancelled or the
// configured reading limit is reached. An acquisition timeout is logged
// and the cycle skipped; the unconditional repetition of the loop is
// the only retry mechanism.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if err := m.cycle(ctx); err != nil {
			return err
		}

		if m.maxReadings > 0 && m.iteration >= m.maxReadings {
			return nil
		}

		if m.period > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.period):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// cycle performs one reading: acquire, convert, fold, report, and close
// the window when it fills.
func (m *Monitor) cycle(ctx context.Context) error {
	raw, err := m.acquirer.Acquire(ctx)
	if err != nil {
		if errors.Is(err, adc.ErrAcquisitionTimeout) {
			log.Printf("Acquisition failed, skipping reading: %v", err)
			return nil
		}
		return err
	}

	volts := adc.Convert(raw, m.channels)
	m.window.Fold(volts)
	m.iteration++

	if err := m.reporter.Reading(m.iteration, raw, volts); err != nil {
		return err
	}

	if m.window.Full() {
		st, err := m.window.Close()
		if err != nil {
			// Full() guarantees a non-empty window; reaching this is a bug.
			return err
		}

		if err := m.reporter.Statistics(m.window.Count(), st); err != nil {
			return err
		}

		m.window.Reset()
	}

	return nil
}
