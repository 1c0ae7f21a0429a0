package adc

import (
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/adcmon/pkg/config"
)

// Sim simulates the conversion peripheral for testing and development.
// It honors the full completion-flag protocol: a conversion only
// latches a fresh result once the configured delay has elapsed, the
// done flag stays set until cleared, and reading the result register
// early returns the previously latched (stale) value.
type Sim struct {
	cfg      *config.SimConfig
	channels [NumChannels]Channel

	mu        sync.Mutex
	startTime time.Time
	convStart [NumChannels]time.Time
	busy      [NumChannels]bool
	done      [NumChannels]bool
	result    [NumChannels]uint16
}

var _ Peripheral = (*Sim)(nil)

// NewSim creates a simulated peripheral for the given channel set.
func NewSim(cfg *config.SimConfig, channels [NumChannels]Channel) *Sim {
	if cfg == nil {
		cfg = &config.SimConfig{
			BiasVolts:       []float64{0.25, 1.2},
			NoiseVolts:      0.002,
			ConversionDelay: 100 * time.Microsecond,
		}
	}

	return &Sim{
		cfg:       cfg,
		channels:  channels,
		startTime: time.Now(),
	}
}

// StartConversion begins a simulated conversion for the channel.
func (s *Sim) StartConversion(ch int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy[ch] = true
	s.convStart[ch] = time.Now()
}

// ConversionDone reports whether the channel's completion flag is set.
// A flag left uncleared from a previous conversion reads as done
// immediately, exactly like the stale-state hazard on the real rig.
func (s *Sim) ConversionDone(ch int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done[ch] {
		return true
	}

	if s.busy[ch] && time.Since(s.convStart[ch]) >= s.cfg.ConversionDelay {
		s.result[ch] = s.sample(ch)
		s.busy[ch] = false
		s.done[ch] = true
		return true
	}

	return false
}

// ClearDone clears the channel's completion flag.
func (s *Sim) ClearDone(ch int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[ch] = false
}

// ReadResult returns the latched conversion result. If no conversion
// has completed since the last read, the previous value is returned.
func (s *Sim) ReadResult(ch int) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result[ch]
}

// sample produces a raw code for the channel: bias plus deterministic
// noise, inverted through the channel's transfer function and clamped
// to the code space. Caller must hold the mutex.
func (s *Sim) sample(ch int) uint16 {
	if ch < len(s.cfg.Railed) && s.cfg.Railed[ch] {
		// Stuck-at-rail injection: a floating input reads near zero.
		return 0
	}

	var bias float32
	if ch < len(s.cfg.BiasVolts) {
		bias = float32(s.cfg.BiasVolts[ch])
	}

	t := float32(time.Since(s.startTime).Nanoseconds())
	noise := (math32.Sin(t*0.001) + math32.Cos(t*0.0013)) * float32(s.cfg.NoiseVolts) * 0.5

	volts := bias + noise

	c := s.channels[ch]
	code := volts / c.Scale
	if c.Mode == Differential {
		code += float32(int32(1) << (c.Bits - 1))
	}

	maxCode := float32(uint32(1)<<c.Bits - 1)
	if code < 0 {
		code = 0
	} else if code > maxCode {
		code = maxCode
	}

	return uint16(code + 0.5)
}
