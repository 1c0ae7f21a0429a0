package adc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePeripheral is a scripted peripheral that records every call and
// completes a conversion after a configurable number of polls.
type fakePeripheral struct {
	calls          []string
	pollsUntilDone [NumChannels]int
	polls          [NumChannels]int
	results        [NumChannels]uint16
	neverDone      [NumChannels]bool
	done           [NumChannels]bool
}

func (f *fakePeripheral) StartConversion(ch int) {
	f.calls = append(f.calls, fmt.Sprintf("start:%d", ch))
	f.polls[ch] = 0
}

func (f *fakePeripheral) ConversionDone(ch int) bool {
	if f.done[ch] {
		return true
	}
	if f.neverDone[ch] {
		return false
	}
	f.polls[ch]++
	if f.polls[ch] > f.pollsUntilDone[ch] {
		f.done[ch] = true
	}
	return f.done[ch]
}

func (f *fakePeripheral) ClearDone(ch int) {
	f.calls = append(f.calls, fmt.Sprintf("clear:%d", ch))
	f.done[ch] = false
}

func (f *fakePeripheral) ReadResult(ch int) uint16 {
	f.calls = append(f.calls, fmt.Sprintf("read:%d", ch))
	return f.results[ch]
}

func TestAcquire_ReturnsResults(t *testing.T) {
	p := &fakePeripheral{
		results:        [NumChannels]uint16{32768, 2048},
		pollsUntilDone: [NumChannels]int{2, 1},
	}

	acq := NewAcquirer(p, 100*time.Millisecond)
	raw, err := acq.Acquire(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint16(32768), raw[0])
	assert.Equal(t, uint16(2048), raw[1])
}

func TestAcquire_SequentialChannelOrder(t *testing.T) {
	p := &fakePeripheral{
		results:        [NumChannels]uint16{100, 200},
		pollsUntilDone: [NumChannels]int{3, 3},
	}

	acq := NewAcquirer(p, 100*time.Millisecond)
	_, err := acq.Acquire(context.Background())
	require.NoError(t, err)

	// Channel 0 must be fully started, cleared and read before channel 1
	// is touched, and the flag must be cleared before the result read.
	assert.Equal(t, []string{
		"start:0", "clear:0", "read:0",
		"start:1", "clear:1", "read:1",
	}, p.calls)
}

func TestAcquire_Timeout(t *testing.T) {
	p := &fakePeripheral{
		neverDone: [NumChannels]bool{true, false},
	}

	acq := NewAcquirer(p, 2*time.Millisecond)
	_, err := acq.Acquire(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAcquisitionTimeout)
	assert.Contains(t, err.Error(), "channel 0")
}

func TestAcquire_TimeoutOnSecondChannel(t *testing.T) {
	p := &fakePeripheral{
		pollsUntilDone: [NumChannels]int{1, 0},
		neverDone:      [NumChannels]bool{false, true},
	}

	acq := NewAcquirer(p, 2*time.Millisecond)
	_, err := acq.Acquire(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAcquisitionTimeout)
	assert.Contains(t, err.Error(), "channel 1")
}

func TestAcquire_ContextCancelled(t *testing.T) {
	p := &fakePeripheral{
		neverDone: [NumChannels]bool{true, true},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acq := NewAcquirer(p, time.Second)
	_, err := acq.Acquire(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewAcquirer_DefaultTimeout(t *testing.T) {
	acq := NewAcquirer(&fakePeripheral{}, 0)
	assert.Equal(t, DefaultAcquireTimeout, acq.timeout)
}
