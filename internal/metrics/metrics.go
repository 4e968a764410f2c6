// Package metrics exposes Prometheus instrumentation for the recording and
// extraction pipeline. Counters are registered at package load and served
// from the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "meetscribe"

var (
	// SessionsStarted counts recording sessions started.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "started_total",
		Help:      "Recording sessions started.",
	})

	// SessionsCompleted counts sessions that stopped and produced a result.
	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "completed_total",
		Help:      "Recording sessions stopped with a delivered analysis result.",
	})

	// SessionsNoSpeech counts sessions that stopped with an empty transcript.
	SessionsNoSpeech = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "no_speech_total",
		Help:      "Recording sessions stopped without any detected speech.",
	})

	// FragmentsAppended counts accepted transcript fragments.
	FragmentsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transcript",
		Name:      "fragments_total",
		Help:      "Finalized speech fragments accepted into a transcript.",
	})

	// ExtractionOutcomes counts model extraction outcomes by class: ok,
	// model_error, parse_error, schema_error or superseded.
	ExtractionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "extraction",
		Name:      "outcomes_total",
		Help:      "Model extraction outcomes by class.",
	}, []string{"outcome"})

	// ExtractionDuration tracks the wall time of the full stop pipeline,
	// dominated by the model call.
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "extraction",
		Name:      "duration_seconds",
		Help:      "Wall time of the stop pipeline from cleanup to reconciled result.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	// WebsocketClients tracks currently connected live-update clients.
	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "clients",
		Help:      "Currently connected WebSocket clients.",
	})
)

// Extraction outcome label values.
const (
	OutcomeOK          = "ok"
	OutcomeModelError  = "model_error"
	OutcomeParseError  = "parse_error"
	OutcomeSchemaError = "schema_error"
	OutcomeSuperseded  = "superseded"
)
