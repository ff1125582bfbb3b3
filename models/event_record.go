package models

import "time"

// EventRecord is a discrete occurrence reported by the device. The device
// timestamp is kept as the exact token the device sent. Value is empty
// when the device sent none.
type EventRecord struct {
	HostTime     time.Time `json:"host_ts"`
	DeviceTimeMs string    `json:"device_ts_ms"`
	Name         string    `json:"event"`
	Value        string    `json:"value"`
	State        string    `json:"state"`
}

func (EventRecord) CSVHeader() []string {
	return []string{"host_ts", "device_ts_ms", "event", "value", "state"}
}

func (e *EventRecord) CSVRow() []string {
	return []string{
		FormatHostTime(e.HostTime),
		e.DeviceTimeMs,
		e.Name,
		e.Value,
		e.State,
	}
}

// ParseEventRow reconstructs an event from a row written by CSVRow.
func ParseEventRow(row []string) (EventRecord, error) {
	if err := checkWidth("event", row, 5); err != nil {
		return EventRecord{}, err
	}
	host, err := ParseHostTime(row[0])
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		HostTime:     host,
		DeviceTimeMs: row[1],
		Name:         row[2],
		Value:        row[3],
		State:        row[4],
	}, nil
}
