package controller

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"pressle-logger/models"
	"pressle-logger/utils"
)

// Intent is a host command request coming from the UI or stdin.
type Intent int

const (
	IntentStart Intent = iota
	IntentStop
	IntentToggle
	IntentQuit
)

var intentNames = [...]string{"start", "stop", "toggle", "quit"}

func (i Intent) String() string {
	if i >= 0 && int(i) < len(intentNames) {
		return intentNames[i]
	}
	return "unknown"
}

// ErrQuit is returned by Dispatch for IntentQuit. Drivers stop on it and
// let deferred cleanup close the sinks.
var ErrQuit = errors.New("quit requested")

// ParseIntent maps a typed command word or key to an intent. A lone space
// toggles.
func ParseIntent(s string) (Intent, bool) {
	if s == " " {
		return IntentToggle, true
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g", "start":
		return IntentStart, true
	case "x", "stop":
		return IntentStop, true
	case "t", "toggle":
		return IntentToggle, true
	case "q", "quit", "exit":
		return IntentQuit, true
	}
	return 0, false
}

// CommandDispatcher sends start/stop to the device and mirrors the
// intended state into the state machine straight away. Device events that
// arrive later still override it.
type CommandDispatcher struct {
	transport io.Writer
	state     *RecordingStateMachine
	metrics   *utils.Metrics
}

func NewCommandDispatcher(transport io.Writer, state *RecordingStateMachine, metrics *utils.Metrics) *CommandDispatcher {
	return &CommandDispatcher{transport: transport, state: state, metrics: metrics}
}

// Dispatch executes one intent.
func (d *CommandDispatcher) Dispatch(intent Intent) error {
	switch intent {
	case IntentStart, IntentStop, IntentToggle, IntentQuit:
		d.metrics.Commands.WithLabelValues(intent.String()).Inc()
	default:
		return fmt.Errorf("unknown intent %d", int(intent))
	}

	switch intent {
	case IntentStart:
		return d.send("start", models.Recording)
	case IntentStop:
		return d.send("stop", models.Idle)
	case IntentToggle:
		if d.state.IsRecording() {
			return d.send("stop", models.Idle)
		}
		return d.send("start", models.Recording)
	default:
		utils.L().Info("quitting")
		return ErrQuit
	}
}

func (d *CommandDispatcher) send(cmd string, to models.RecordingState) error {
	if _, err := io.WriteString(d.transport, cmd+"\n"); err != nil {
		return fmt.Errorf("send %s: %w", cmd, err)
	}
	d.state.Transition(to, "host command "+cmd)
	utils.L().Info("sent: %s", cmd)
	return nil
}
