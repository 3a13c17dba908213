package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Intake-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wavesprint",
			Subsystem: "intake_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wavesprint",
			Subsystem: "intake_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Leads
	LeadsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wavesprint",
			Subsystem: "intake_api",
			Name:      "leads_created_total",
			Help:      "Total leads created",
		},
	)

	// Intake conversation turns
	IntakeTurnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wavesprint",
			Subsystem: "intake_api",
			Name:      "intake_turns_total",
			Help:      "Total intake conversation turns processed",
		},
	)

	SessionsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wavesprint",
			Subsystem: "intake_api",
			Name:      "sessions_completed_total",
			Help:      "Total intake sessions that reached completion",
		},
	)

	// Completion backend failures
	InferenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wavesprint",
			Subsystem: "intake_api",
			Name:      "inference_errors_total",
			Help:      "Total completion backend call failures",
		},
		[]string{"operation"},
	)
)

// RecordRequest records an HTTP request with duration
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordLeadCreated increments the lead counter
func RecordLeadCreated() {
	LeadsCreatedTotal.Inc()
}

// RecordIntakeTurn increments the turn counter
func RecordIntakeTurn() {
	IntakeTurnsTotal.Inc()
}

// RecordSessionCompleted increments the completed-session counter
func RecordSessionCompleted() {
	SessionsCompletedTotal.Inc()
}

// RecordInferenceError records a completion backend failure
func RecordInferenceError(operation string) {
	InferenceErrorsTotal.WithLabelValues(operation).Inc()
}
