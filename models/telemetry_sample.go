package models

import (
	"fmt"
	"time"
)

// TelemetrySample is one multi-channel reading: time-of-flight distance
// plus 6-axis motion, stamped by both the host and the device.
type TelemetrySample struct {
	HostTime    time.Time `json:"host_ts"`     // wall clock at decode time
	DeviceTimeS float64   `json:"device_ts_s"` // device clock, ms converted to s
	DistanceMM  float64   `json:"tof_mm"`
	AccelX      float64   `json:"ax"` // g
	AccelY      float64   `json:"ay"`
	AccelZ      float64   `json:"az"`
	GyroX       float64   `json:"gx"` // deg/s
	GyroY       float64   `json:"gy"`
	GyroZ       float64   `json:"gz"`
}

func (TelemetrySample) CSVHeader() []string {
	return []string{
		"host_ts", "device_ts_s", "tof_mm",
		"ax", "ay", "az",
		"gx", "gy", "gz",
	}
}

func (s *TelemetrySample) CSVRow() []string {
	return []string{
		FormatHostTime(s.HostTime),
		ftoa(s.DeviceTimeS, 3),
		ftoa(s.DistanceMM, 2),
		ftoa(s.AccelX, 4), ftoa(s.AccelY, 4), ftoa(s.AccelZ, 4),
		ftoa(s.GyroX, 4), ftoa(s.GyroY, 4), ftoa(s.GyroZ, 4),
	}
}

// ParseTelemetryRow reconstructs a sample from a row written by CSVRow.
// Numeric fields come back at the precision they were written with.
func ParseTelemetryRow(row []string) (TelemetrySample, error) {
	if err := checkWidth("telemetry", row, 9); err != nil {
		return TelemetrySample{}, err
	}
	host, err := ParseHostTime(row[0])
	if err != nil {
		return TelemetrySample{}, err
	}
	var vals [8]float64
	for i := range vals {
		v, err := ParseDecimal(row[i+1])
		if err != nil {
			return TelemetrySample{}, fmt.Errorf("telemetry row column %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return TelemetrySample{
		HostTime:    host,
		DeviceTimeS: vals[0],
		DistanceMM:  vals[1],
		AccelX:      vals[2],
		AccelY:      vals[3],
		AccelZ:      vals[4],
		GyroX:       vals[5],
		GyroY:       vals[6],
		GyroZ:       vals[7],
	}, nil
}
