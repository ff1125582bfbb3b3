package ingest

import (
	"strings"
	"time"

	"pressle-logger/models"
)

// Kind is the classification of one protocol line.
type Kind int

const (
	KindIgnored Kind = iota
	KindTelemetry
	KindEvent
	KindStateToken
)

var kindNames = [...]string{"ignored", "telemetry", "event", "state_token"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Protocol literals.
const (
	headerPrefix  = "timestamp"
	eventPrefix   = "EVENT,"
	tokenRecord   = "RECORDING"
	tokenStopped  = "STOPPED"
	eventStart    = "RECORDING_START"
	eventStopped  = "SESSION_STOPPED"
	telemetryCols = 8
	minEventCols  = 4
)

// Message is the result of classifying one line. Only the field matching
// Kind is meaningful.
type Message struct {
	Kind   Kind
	Sample models.TelemetrySample
	Event  models.EventRecord
	Token  models.RecordingState
}

// Parse classifies a trimmed line. It has no side effects; now becomes
// the host timestamp of any sample or event produced.
func Parse(line string, now time.Time) Message {
	switch {
	case line == "":
		return Message{}
	case strings.HasPrefix(line, headerPrefix):
		return Message{}
	case line == tokenRecord:
		return Message{Kind: KindStateToken, Token: models.Recording}
	case line == tokenStopped:
		return Message{Kind: KindStateToken, Token: models.Idle}
	case strings.HasPrefix(line, eventPrefix):
		ev, ok := parseEvent(line, now)
		if !ok {
			return Message{}
		}
		return Message{Kind: KindEvent, Event: ev}
	default:
		s, ok := parseTelemetry(line, now)
		if !ok {
			return Message{}
		}
		return Message{Kind: KindTelemetry, Sample: s}
	}
}

// parseEvent accepts EVENT,ts,name,state and EVENT,ts,name,value,state[,...].
// The device timestamp is kept as sent.
func parseEvent(line string, now time.Time) (models.EventRecord, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < minEventCols {
		return models.EventRecord{}, false
	}
	ev := models.EventRecord{
		HostTime:     now,
		DeviceTimeMs: parts[1],
		Name:         parts[2],
	}
	switch len(parts) {
	case minEventCols:
		ev.State = parts[3]
	default:
		ev.Value = parts[3]
		ev.State = parts[4]
	}
	return ev, true
}

func parseTelemetry(line string, now time.Time) (models.TelemetrySample, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != telemetryCols {
		return models.TelemetrySample{}, false
	}
	var v [telemetryCols]float64
	for i, p := range parts {
		f, err := models.ParseDecimal(p)
		if err != nil {
			return models.TelemetrySample{}, false
		}
		v[i] = f
	}
	return models.TelemetrySample{
		HostTime:    now,
		DeviceTimeS: v[0] / 1000.0,
		DistanceMM:  v[1],
		AccelX:      v[2],
		AccelY:      v[3],
		AccelZ:      v[4],
		GyroX:       v[5],
		GyroY:       v[6],
		GyroZ:       v[7],
	}, true
}

// EventTransition reports the recording state a device event implies, if
// any.
func EventTransition(name string) (models.RecordingState, bool) {
	switch {
	case name == eventStart:
		return models.Recording, true
	case strings.HasPrefix(name, eventStopped):
		return models.Idle, true
	default:
		return models.Idle, false
	}
}

// StateSink receives the recording transitions implied by device input.
type StateSink interface {
	Transition(to models.RecordingState, cause string)
}

// Classifier parses lines and pushes device-reported state changes into
// the recording state machine as it goes.
type Classifier struct {
	state StateSink
}

func NewClassifier(state StateSink) *Classifier {
	return &Classifier{state: state}
}

// Classify parses line and applies its state side effect, if any.
func (c *Classifier) Classify(line string, now time.Time) Message {
	msg := Parse(line, now)
	switch msg.Kind {
	case KindStateToken:
		c.state.Transition(msg.Token, "legacy token "+line)
	case KindEvent:
		if to, ok := EventTransition(msg.Event.Name); ok {
			c.state.Transition(to, "device event "+msg.Event.Name)
		}
	}
	return msg
}
