// Package report renders readings and window statistics as the text
// protocol expected by the bench operator's serial terminal. Lines are
// CRLF-terminated for terminal compatibility.
package report

import (
	"fmt"
	"io"

	"github.com/itohio/adcmon/pkg/adc"
	"github.com/itohio/adcmon/pkg/stats"
)

// Reporter writes formatted readings and statistics to an emit sink.
type Reporter struct {
	w        io.Writer
	channels [adc.NumChannels]adc.Channel
}

// New creates a reporter for the given channel set.
func New(w io.Writer, channels [adc.NumChannels]adc.Channel) *Reporter {
	return &Reporter{w: w, channels: channels}
}

// Banner emits the startup header describing the rig configuration.
func (r *Reporter) Banner() error {
	return r.emit("\r\n" +
		"=========================================\r\n" +
		"   ADC Bench Monitor                    \r\n" +
		"=========================================\r\n" +
		"\r\n" +
		"Configuration:\r\n" +
		"  Channel 0: 16-bit Differential\r\n" +
		"  Channel 1: 12-bit Single-ended\r\n" +
		"  Voltage Range: 0-3.3V\r\n" +
		"\r\n")
}

// Verification emits the startup validation result. A warning is
// advisory only: floating inputs legitimately read at a rail.
func (r *Reporter) Verification(ok bool) error {
	if ok {
		return r.emit(">>> ADC Initialization: PASSED\r\n")
	}
	return r.emit(">>> ADC Initialization: WARNING\r\n" +
		"    Check: Readings may be at limits\r\n" +
		"    Note: This is OK for floating inputs\r\n")
}

// MonitoringStart emits the banner preceding the continuous readings.
func (r *Reporter) MonitoringStart(capacity int) error {
	return r.emit("\r\n>>> Starting Continuous Monitoring...\r\n"+
		">>> Statistics every %d readings\r\n\r\n", capacity)
}

// Reading emits the per-iteration readings table: one row per channel
// with the 9-character channel name, the raw code right-aligned to five
// digits, and the voltage with three fractional digits.
func (r *Reporter) Reading(iteration uint64, raw [adc.NumChannels]uint16, volts [adc.NumChannels]float32) error {
	if err := r.emit("\r\n--- Reading #%d ---\r\n"+
		"Channel    | Raw    | Voltage (V)\r\n"+
		"-----------|--------|-------------\r\n", iteration); err != nil {
		return err
	}

	for i, c := range r.channels {
		if err := r.emit("%-9s | %5d | %.3f\r\n", c.Name, raw[i], volts[i]); err != nil {
			return err
		}
	}

	return nil
}

// Statistics emits the windowed statistics block: per channel min, max
// and average voltage with three fractional digits, and peak-to-peak
// in millivolts.
func (r *Reporter) Statistics(count int, st [adc.NumChannels]stats.ChannelStats) error {
	if err := r.emit("\r\n"+
		"============================================\r\n"+
		"STATISTICS (Last %d readings)\r\n"+
		"============================================\r\n"+
		"Channel    | Min(V)  | Max(V)  | Avg(V)  | P-P(mV)\r\n"+
		"-----------|---------|---------|---------|--------\r\n", count); err != nil {
		return err
	}

	for i, c := range r.channels {
		if err := r.emit("%-9s | %.3f | %.3f | %.3f | %.3f\r\n",
			c.Name, st[i].Min, st[i].Max, st[i].Avg, st[i].PeakToPeak); err != nil {
			return err
		}
	}

	return r.emit("============================================\r\n\r\n")
}

func (r *Reporter) emit(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		return fmt.Errorf("failed to emit report: %w", err)
	}
	return nil
}
