package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters exported at /metrics.
type Metrics struct {
	Lines         *prometheus.CounterVec
	TelemetryRows prometheus.Counter
	EventRows     prometheus.Counter
	Commands      *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	WindowSamples prometheus.Gauge
}

// NewMetrics registers the pipeline counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lines: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pressle_lines_total",
			Help: "Transport lines by classification kind.",
		}, []string{"kind"}),
		TelemetryRows: f.NewCounter(prometheus.CounterOpts{
			Name: "pressle_telemetry_rows_written_total",
			Help: "Rows appended to the telemetry CSV.",
		}),
		EventRows: f.NewCounter(prometheus.CounterOpts{
			Name: "pressle_event_rows_written_total",
			Help: "Rows appended to the events CSV.",
		}),
		Commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pressle_commands_total",
			Help: "Command intents dispatched.",
		}, []string{"intent"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pressle_recording_transitions_total",
			Help: "Recording state transitions by target state and cause.",
		}, []string{"to", "cause"}),
		WindowSamples: f.NewGauge(prometheus.GaugeOpts{
			Name: "pressle_window_samples",
			Help: "Samples currently held in the live display window.",
		}),
	}
}
