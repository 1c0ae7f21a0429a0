package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/itohio/adcmon/pkg/adc"
	"github.com/itohio/adcmon/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter() (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, adc.Channels()), &buf
}

func TestReporter_Banner(t *testing.T) {
	r, buf := newTestReporter()
	require.NoError(t, r.Banner())

	out := buf.String()
	assert.Contains(t, out, "ADC Bench Monitor")
	assert.Contains(t, out, "16-bit Differential")
	assert.Contains(t, out, "12-bit Single-ended")
	assert.Contains(t, out, "Voltage Range: 0-3.3V")
	assert.True(t, strings.HasSuffix(out, "\r\n"), "lines must be CRLF-terminated")
}

func TestReporter_Verification(t *testing.T) {
	r, buf := newTestReporter()
	require.NoError(t, r.Verification(true))
	assert.Contains(t, buf.String(), ">>> ADC Initialization: PASSED\r\n")

	r, buf = newTestReporter()
	require.NoError(t, r.Verification(false))
	out := buf.String()
	assert.Contains(t, out, ">>> ADC Initialization: WARNING\r\n")
	assert.Contains(t, out, "OK for floating inputs")
}

func TestReporter_Reading(t *testing.T) {
	r, buf := newTestReporter()

	raw := [adc.NumChannels]uint16{32768, 5}
	volts := [adc.NumChannels]float32{0.0, 0.004}
	require.NoError(t, r.Reading(7, raw, volts))

	out := buf.String()
	assert.Contains(t, out, "--- Reading #7 ---\r\n")
	assert.Contains(t, out, "Channel    | Raw    | Voltage (V)\r\n")
	assert.Contains(t, out, "ADCA-Diff | 32768 | 0.000\r\n")
	// Raw codes are right-aligned to five digits, names padded to nine.
	assert.Contains(t, out, "ADCB-SE   |     5 | 0.004\r\n")
}

func TestReporter_Reading_NegativeVoltage(t *testing.T) {
	r, buf := newTestReporter()

	raw := [adc.NumChannels]uint16{0, 0}
	volts := [adc.NumChannels]float32{-1.65, 0.0}
	require.NoError(t, r.Reading(1, raw, volts))

	out := buf.String()
	assert.Contains(t, out, "ADCA-Diff |     0 | -1.650\r\n")
}

func TestReporter_Statistics(t *testing.T) {
	r, buf := newTestReporter()

	st := [adc.NumChannels]stats.ChannelStats{
		{Min: -0.1, Max: 0.1, Avg: 0.0, PeakToPeak: 200.0},
		{Min: 1.0, Max: 1.5, Avg: 1.25, PeakToPeak: 500.0},
	}
	require.NoError(t, r.Statistics(10, st))

	out := buf.String()
	assert.Contains(t, out, "STATISTICS (Last 10 readings)\r\n")
	assert.Contains(t, out, "Channel    | Min(V)  | Max(V)  | Avg(V)  | P-P(mV)\r\n")
	assert.Contains(t, out, "ADCA-Diff | -0.100 | 0.100 | 0.000 | 200.000\r\n")
	assert.Contains(t, out, "ADCB-SE   | 1.000 | 1.500 | 1.250 | 500.000\r\n")
}

func TestReporter_MonitoringStart(t *testing.T) {
	r, buf := newTestReporter()
	require.NoError(t, r.MonitoringStart(10))

	out := buf.String()
	assert.Contains(t, out, ">>> Starting Continuous Monitoring...\r\n")
	assert.Contains(t, out, ">>> Statistics every 10 readings\r\n")
}

// errWriter fails after n successful writes.
type errWriter struct {
	n int
}

func (w *errWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, assert.AnError
	}
	w.n--
	return len(p), nil
}

func TestReporter_EmitError(t *testing.T) {
	r := New(&errWriter{}, adc.Channels())

	err := r.Banner()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to emit report")
}
