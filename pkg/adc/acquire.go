package adc

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultAcquireTimeout bounds the wait for a single conversion.
	DefaultAcquireTimeout = 100 * time.Millisecond
	// defaultPollInterval is the spacing between completion-flag polls.
	defaultPollInterval = 20 * time.Microsecond
)

// ErrAcquisitionTimeout is returned when a conversion never signals
// completion within the acquirer's deadline.
var ErrAcquisitionTimeout = errors.New("adc: acquisition timeout")

// Peripheral is the conversion hardware collaborator. Resolution,
// topology and timing are configured on it once, externally, before
// acquisition begins; the acquirer only drives conversions.
type Peripheral interface {
	// StartConversion issues a software-triggered conversion start.
	StartConversion(ch int)
	// ConversionDone reports whether the channel's completion flag is set.
	ConversionDone(ch int) bool
	// ClearDone clears the edge-sensitive completion flag. Skipping the
	// clear makes the next poll return immediately on stale state.
	ClearDone(ch int)
	// ReadResult reads the latched conversion result. Reading before the
	// completion flag is set returns a stale or partial value.
	ReadResult(ch int) uint16
}

// Acquirer drives the peripheral's conversion channels to completion
// and returns raw samples. Channels are acquired strictly in order:
// channel 0 is started, awaited, cleared and read before channel 1's
// start is issued.
type Acquirer struct {
	p            Peripheral
	timeout      time.Duration
	pollInterval time.Duration
}

// NewAcquirer creates an acquirer with the given per-conversion timeout.
// A zero timeout selects DefaultAcquireTimeout.
func NewAcquirer(p Peripheral, timeout time.Duration) *Acquirer {
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}
	return &Acquirer{
		p:            p,
		timeout:      timeout,
		pollInterval: defaultPollInterval,
	}
}

// Acquire performs one conversion per channel and returns the raw
// samples. The completion flag must be observed set before the result
// register is read, and must be cleared before the read so the next
// acquisition cannot complete on stale state.
func (a *Acquirer) Acquire(ctx context.Context) ([NumChannels]uint16, error) {
	var raw [NumChannels]uint16

	for ch := 0; ch < NumChannels; ch++ {
		a.p.StartConversion(ch)

		if err := a.waitDone(ctx, ch); err != nil {
			return raw, err
		}

		a.p.ClearDone(ch)
		raw[ch] = a.p.ReadResult(ch)
	}

	return raw, nil
}

// waitDone polls the completion flag with a deadline instead of
// spinning forever; a peripheral that never completes surfaces as
// ErrAcquisitionTimeout rather than a hung process.
func (a *Acquirer) waitDone(ctx context.Context, ch int) error {
	deadline := time.Now().Add(a.timeout)

	for {
		if a.p.ConversionDone(ch) {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("channel %d: %w", ch, ErrAcquisitionTimeout)
		}

		time.Sleep(a.pollInterval)
	}
}
