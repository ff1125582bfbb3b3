package controller

import (
	"strings"

	"pressle-logger/models"
	"pressle-logger/utils"
)

// RecordingStateMachine owns the host's recording state. Device input and
// host commands both write to it; the last write wins.
type RecordingStateMachine struct {
	state   models.RecordingState
	metrics *utils.Metrics
}

// NewRecordingStateMachine starts in Idle.
func NewRecordingStateMachine(metrics *utils.Metrics) *RecordingStateMachine {
	return &RecordingStateMachine{state: models.Idle, metrics: metrics}
}

func (m *RecordingStateMachine) State() models.RecordingState {
	return m.state
}

func (m *RecordingStateMachine) IsRecording() bool {
	return m.state == models.Recording
}

// Transition moves to the given state. Repeating the current state is a
// no-op.
func (m *RecordingStateMachine) Transition(to models.RecordingState, cause string) {
	if m.state == to {
		return
	}
	utils.L().Debug("recording state %s -> %s (%s)", m.state, to, cause)
	m.state = to
	m.metrics.Transitions.WithLabelValues(to.String(), causeLabel(cause)).Inc()
}

// causeLabel keeps the metric label set small: the source, not the text.
func causeLabel(cause string) string {
	for _, prefix := range []string{"legacy token", "device event", "host command"} {
		if strings.HasPrefix(cause, prefix) {
			return prefix
		}
	}
	return "other"
}
