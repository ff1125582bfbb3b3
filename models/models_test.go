package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelemetryRowRoundTrip(t *testing.T) {
	host := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.Local)
	in := TelemetrySample{
		HostTime:    host,
		DeviceTimeS: 12.345,
		DistanceMM:  187.25,
		AccelX:      0.0123,
		AccelY:      -0.9981,
		AccelZ:      0.0456,
		GyroX:       1.25,
		GyroY:       -3.5,
		GyroZ:       0.0001,
	}

	row := in.CSVRow()
	require.Len(t, row, len(in.CSVHeader()))
	assert.Equal(t, "2026-03-14T09:26:53.589793", row[0])
	assert.Equal(t, "12.345", row[1])
	assert.Equal(t, "187.25", row[2])
	assert.Equal(t, "-0.9981", row[4])

	out, err := ParseTelemetryRow(row)
	require.NoError(t, err)
	assert.True(t, out.HostTime.Equal(host))
	assert.InDelta(t, in.DeviceTimeS, out.DeviceTimeS, 0.0005)
	assert.InDelta(t, in.DistanceMM, out.DistanceMM, 0.005)
	assert.InDelta(t, in.AccelY, out.AccelY, 0.00005)
	assert.InDelta(t, in.GyroZ, out.GyroZ, 0.00005)
}

func TestTelemetryRowRounding(t *testing.T) {
	s := TelemetrySample{DeviceTimeS: 1.23456, DistanceMM: 99.999, AccelX: 0.123456}
	row := s.CSVRow()
	assert.Equal(t, "1.235", row[1])
	assert.Equal(t, "100.00", row[2])
	assert.Equal(t, "0.1235", row[3])
}

func TestEventRowRoundTrip(t *testing.T) {
	host := time.Date(2026, 1, 2, 3, 4, 5, 6000, time.Local)
	for _, in := range []EventRecord{
		{HostTime: host, DeviceTimeMs: "12", Name: "RECORDING_START", Value: "", State: "ready"},
		{HostTime: host, DeviceTimeMs: "0099", Name: "SESSION_STOPPED_USER", Value: "5", State: "done"},
	} {
		row := in.CSVRow()
		out, err := ParseEventRow(row)
		require.NoError(t, err)
		assert.True(t, out.HostTime.Equal(in.HostTime))
		out.HostTime = in.HostTime
		assert.Equal(t, in, out)
	}
}

func TestParseRowsRejectWrongWidth(t *testing.T) {
	_, err := ParseTelemetryRow([]string{"a", "b"})
	assert.Error(t, err)
	_, err = ParseEventRow([]string{"2026-01-02T03:04:05.000000", "1", "X", "y"})
	assert.Error(t, err)
}

func TestRecordingStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "recording", Recording.String())
	assert.Equal(t, "unknown", RecordingState(7).String())
}
