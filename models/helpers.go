package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ─── shared formatting helpers ──────────────────────────────────────────

// HostTimeLayout is the ISO-8601 layout used for host capture timestamps.
// Local wall-clock time, microsecond precision, no zone suffix.
const HostTimeLayout = "2006-01-02T15:04:05.000000"

func ftoa(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// FormatHostTime renders a host capture timestamp for a CSV row.
func FormatHostTime(t time.Time) string {
	return t.Format(HostTimeLayout)
}

// ParseHostTime is the inverse of FormatHostTime.
func ParseHostTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(HostTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse host timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseDecimal parses one numeric protocol or CSV field. Surrounding
// blanks are tolerated, anything else non-numeric is an error.
func ParseDecimal(field string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}

// CSVRowWriter is the interface every loggable model must satisfy.
type CSVRowWriter interface {
	CSVHeader() []string
	CSVRow() []string
}

func checkWidth(kind string, row []string, want int) error {
	if len(row) != want {
		return fmt.Errorf("%s row: want %d columns, got %d", kind, want, len(row))
	}
	return nil
}
