package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"pressle-logger/models"
	"pressle-logger/utils"
	"pressle-logger/views"
)

// StateReader is the read side of the recording state.
type StateReader interface {
	State() models.RecordingState
}

// DualStreamLogger owns the two append-only CSV sinks:
//   - telemetry rows, written only while recording
//   - event rows, written always
//
// Every row is flushed before the call returns. A failed write is fatal
// to the caller.
type DualStreamLogger struct {
	telemetry *views.CSVWriter
	events    *views.CSVWriter
	gate      StateReader
	metrics   *utils.Metrics
}

// OpenDualStreamLogger creates both files fresh, writing their headers
// immediately. The events file sits next to the telemetry file. Callers
// must defer Close.
func OpenDualStreamLogger(telemetryPath string, fsync bool, gate StateReader, metrics *utils.Metrics) (*DualStreamLogger, error) {
	if err := views.ValidateHeader(views.StreamTelemetry, models.TelemetrySample{}.CSVHeader()); err != nil {
		return nil, err
	}
	if err := views.ValidateHeader(views.StreamEvents, models.EventRecord{}.CSVHeader()); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(telemetryPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	tw, err := views.NewCSVWriter(telemetryPath, models.TelemetrySample{}.CSVHeader(), fsync)
	if err != nil {
		return nil, fmt.Errorf("open telemetry sink: %w", err)
	}
	ew, err := views.NewCSVWriter(utils.EventsPath(telemetryPath), models.EventRecord{}.CSVHeader(), fsync)
	if err != nil {
		_ = tw.Close()
		return nil, fmt.Errorf("open events sink: %w", err)
	}

	utils.L().Info("recording CSV to: %s", tw.Path())
	utils.L().Info("recording events to: %s", ew.Path())
	return &DualStreamLogger{
		telemetry: tw,
		events:    ew,
		gate:      gate,
		metrics:   metrics,
	}, nil
}

// LogSample appends a telemetry row if the gate says we are recording.
// It reports whether a row was written.
func (l *DualStreamLogger) LogSample(s *models.TelemetrySample) (bool, error) {
	if l.gate.State() != models.Recording {
		return false, nil
	}
	if err := l.telemetry.WriteRecord(s); err != nil {
		return false, fmt.Errorf("write telemetry row: %w", err)
	}
	l.metrics.TelemetryRows.Inc()
	return true, nil
}

// LogEvent appends an event row regardless of recording state.
func (l *DualStreamLogger) LogEvent(e *models.EventRecord) error {
	if err := l.events.WriteRecord(e); err != nil {
		return fmt.Errorf("write event row: %w", err)
	}
	l.metrics.EventRows.Inc()
	return nil
}

// Close flushes and closes both sinks. Failures are swallowed; this runs
// on every exit path, including fatal ones.
func (l *DualStreamLogger) Close() {
	for _, w := range []*views.CSVWriter{l.telemetry, l.events} {
		if err := w.Close(); err != nil {
			utils.L().Debug("close %s: %v", w.Path(), err)
		}
	}
	utils.L().Info("sinks closed  (telemetry_rows=%d, event_rows=%d)", l.telemetry.Rows(), l.events.Rows())
}

func (l *DualStreamLogger) TelemetryPath() string { return l.telemetry.Path() }
func (l *DualStreamLogger) EventsPath() string    { return l.events.Path() }

// Rows returns the data rows written to each sink.
func (l *DualStreamLogger) Rows() (telemetry, events uint64) {
	return l.telemetry.Rows(), l.events.Rows()
}
