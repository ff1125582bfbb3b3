package views

import (
	"fmt"
	"slices"
)

// CSVSchema defines the column layout for each output stream.
// This file serves as the single source of truth for column ordering;
// sinks check the model headers against it when they open.

// StreamType identifies an output stream for schema lookups.
type StreamType int

const (
	StreamTelemetry StreamType = iota
	StreamEvents
)

var streamNames = map[StreamType]string{
	StreamTelemetry: "telemetry",
	StreamEvents:    "events",
}

func (s StreamType) String() string {
	if n, ok := streamNames[s]; ok {
		return n
	}
	return "unknown"
}

// SchemaColumns returns the canonical column list for a stream.
var SchemaColumns = map[StreamType][]string{
	StreamTelemetry: {
		"host_ts", "device_ts_s", "tof_mm",
		"ax", "ay", "az",
		"gx", "gy", "gz",
	},
	StreamEvents: {
		"host_ts", "device_ts_ms", "event", "value", "state",
	},
}

// ValidateHeader reports whether header matches the canonical layout.
func ValidateHeader(stream StreamType, header []string) error {
	want, ok := SchemaColumns[stream]
	if !ok {
		return fmt.Errorf("no schema for stream %d", int(stream))
	}
	if !slices.Equal(want, header) {
		return fmt.Errorf("%s header mismatch: want %v, got %v", stream, want, header)
	}
	return nil
}
