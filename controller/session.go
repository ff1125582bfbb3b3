package controller

import (
	"fmt"
	"io"
	"time"

	"pressle-logger/models"
	"pressle-logger/services/ingest"
	"pressle-logger/utils"
	"pressle-logger/views"
)

// Stats counts what the session has seen since startup.
type Stats struct {
	Lines         uint64
	Samples       uint64
	Events        uint64
	Tokens        uint64
	Ignored       uint64
	TelemetryRows uint64
	EventRows     uint64
}

// Session wires the decode path to its consumers. One Tick is one
// decode-classify-update cycle. HandleLine and Dispatch must be called
// from a single goroutine; nothing here is locked. ReadLine only touches
// the line reader, so it may run elsewhere as long as calls do not
// overlap.
type Session struct {
	lines      ingest.LineSource
	state      *RecordingStateMachine
	classifier *ingest.Classifier
	window     *views.WindowBuffer
	sinks      *DualStreamLogger
	dispatcher *CommandDispatcher
	metrics    *utils.Metrics
	now        func() time.Time
	stats      Stats
}

// NewSession reads lines from and writes commands to transport. The
// sinks must have been opened with state as their gate.
func NewSession(transport io.ReadWriter, state *RecordingStateMachine, sinks *DualStreamLogger, metrics *utils.Metrics) *Session {
	return &Session{
		lines:      ingest.NewLineReader(transport),
		state:      state,
		classifier: ingest.NewClassifier(state),
		window:     views.NewWindowBuffer(views.WindowSize),
		sinks:      sinks,
		dispatcher: NewCommandDispatcher(transport, state, metrics),
		metrics:    metrics,
		now:        time.Now,
	}
}

// ReadLine performs the blocking half of a tick: at most one transport
// read bounded by its timeout.
func (s *Session) ReadLine() ([]byte, error) {
	raw, err := s.lines.ReadLine()
	if err != nil {
		return nil, fmt.Errorf("read transport: %w", err)
	}
	return raw, nil
}

// Tick reads one line and handles it.
func (s *Session) Tick() error {
	raw, err := s.ReadLine()
	if err != nil {
		return err
	}
	return s.HandleLine(raw)
}

// HandleLine decodes and classifies one raw line, then updates the state
// machine, the display window and the sinks. A timeout or blank line is
// not counted anywhere. Malformed input is counted as ignored and
// dropped. Only sink failures are returned.
func (s *Session) HandleLine(raw []byte) error {
	line := ingest.Decode(raw)
	if line == "" {
		return nil
	}
	msg := s.classifier.Classify(line, s.now())
	s.metrics.Lines.WithLabelValues(msg.Kind.String()).Inc()
	s.stats.Lines++

	switch msg.Kind {
	case ingest.KindTelemetry:
		s.stats.Samples++
		s.window.Append(msg.Sample)
		s.metrics.WindowSamples.Set(float64(s.window.Len()))
		written, err := s.sinks.LogSample(&msg.Sample)
		if err != nil {
			return err
		}
		if written {
			s.stats.TelemetryRows++
		}
	case ingest.KindEvent:
		s.stats.Events++
		ev := msg.Event
		utils.L().Info("[EVENT] %s value=%s state=%s", ev.Name, ev.Value, ev.State)
		if err := s.sinks.LogEvent(&ev); err != nil {
			return err
		}
		s.stats.EventRows++
	case ingest.KindStateToken:
		s.stats.Tokens++
	default:
		s.stats.Ignored++
	}
	return nil
}

// Dispatch runs a command intent. It returns ErrQuit for IntentQuit.
func (s *Session) Dispatch(intent Intent) error {
	return s.dispatcher.Dispatch(intent)
}

func (s *Session) State() models.RecordingState { return s.state.State() }
func (s *Session) Window() *views.WindowBuffer   { return s.window }
func (s *Session) Stats() Stats                  { return s.stats }

// LogStats prints the session counters.
func (s *Session) LogStats() {
	st := s.stats
	utils.L().Info("stats  state=%s lines=%d samples=%d events=%d tokens=%d ignored=%d telemetry_rows=%d event_rows=%d window=%d",
		s.state.State(), st.Lines, st.Samples, st.Events, st.Tokens, st.Ignored,
		st.TelemetryRows, st.EventRows, s.window.Len())
}
