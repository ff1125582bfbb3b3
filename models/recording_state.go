package models

// RecordingState is the host's belief about whether telemetry should be
// persisted.
type RecordingState int

const (
	Idle RecordingState = iota
	Recording
)

func (s RecordingState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	default:
		return "unknown"
	}
}
