package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// EventsSuffix replaces the telemetry file's extension to name the
// events file.
const EventsSuffix = ".events.csv"

// SessionName returns a unique session file stem:
//
//	<prefix>_YYYYMMDD_HHMMSS
func SessionName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s", prefix, now.Format("20060102_150405"))
}

// DefaultCSVPath names the telemetry file when none is given.
func DefaultCSVPath(prefix string, now time.Time) string {
	return SessionName(prefix, now) + ".csv"
}

// EventsPath derives the events file path from the telemetry file path:
// same directory and stem, extension replaced by ".events.csv".
func EventsPath(telemetryPath string) string {
	ext := filepath.Ext(telemetryPath)
	return strings.TrimSuffix(telemetryPath, ext) + EventsSuffix
}
