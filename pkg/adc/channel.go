package adc

// Mode selects the signal topology of an analog input.
type Mode int

const (
	// Differential measures the voltage between two pins; the raw code
	// space is centered at mid-scale and maps to a signed voltage.
	Differential Mode = iota
	// SingleEnded measures voltage against a fixed reference; the raw
	// code space maps linearly from zero.
	SingleEnded
)

const (
	// NumChannels is the number of analog channels on the bench rig.
	NumChannels = 2
	// VoltageRange is the full-scale input range in volts for both channels.
	VoltageRange = 3.3
)

// Channel describes a fixed-identity analog input. Channels are defined
// at build time and never change topology or resolution while running.
type Channel struct {
	Name  string // display name, padded to 9 characters in reports
	Bits  uint   // conversion resolution in bits
	Mode  Mode
	Scale float32 // volts per least-significant bit
}

// NewChannel builds a channel with its scale factor derived from the
// full-scale range: scale = VoltageRange / 2^bits.
func NewChannel(name string, bits uint, mode Mode) Channel {
	return Channel{
		Name:  name,
		Bits:  bits,
		Mode:  mode,
		Scale: float32(VoltageRange) / float32(uint32(1)<<bits),
	}
}

// Channels returns the bench rig's channel set: a 16-bit differential
// channel and a 12-bit single-ended channel.
func Channels() [NumChannels]Channel {
	return [NumChannels]Channel{
		NewChannel("ADCA-Diff", 16, Differential),
		NewChannel("ADCB-SE", 12, SingleEnded),
	}
}

// Convert applies a channel's transfer function to a raw code.
// Differential codes are re-centered at mid-scale before scaling, so a
// code exactly at 2^(bits-1) yields 0 V. No rounding or clamping is
// applied; rail values pass through unchanged.
func (c Channel) Convert(raw uint16) float32 {
	switch c.Mode {
	case Differential:
		half := int32(1) << (c.Bits - 1)
		return float32(int32(raw)-half) * c.Scale
	default:
		return float32(raw) * c.Scale
	}
}

// Convert converts one raw sample per channel to calibrated voltages.
func Convert(raw [NumChannels]uint16, channels [NumChannels]Channel) [NumChannels]float32 {
	var volts [NumChannels]float32
	for i := range channels {
		volts[i] = channels[i].Convert(raw[i])
	}
	return volts
}

// Guard band margins for the stuck-at-rail check. A raw code this close
// to either rail is treated as a floating or disconnected input.
const (
	diffGuard        = 100
	singleEndedGuard = 10
)

// Plausible reports whether a raw code sits inside the channel's guard
// band, i.e. away from both rails.
func (c Channel) Plausible(raw uint16) bool {
	span := uint32(1) << c.Bits
	r := uint32(raw)
	switch c.Mode {
	case Differential:
		return r > diffGuard && r < span-diffGuard-1
	default:
		return r > singleEndedGuard && r < span-singleEndedGuard
	}
}

// Plausible reports whether at least one channel reads a value away
// from its rails. This is a startup sanity heuristic: floating inputs
// legitimately sit at a rail, so a false result is advisory, not fatal.
func Plausible(raw [NumChannels]uint16, channels [NumChannels]Channel) bool {
	for i := range channels {
		if channels[i].Plausible(raw[i]) {
			return true
		}
	}
	return false
}
