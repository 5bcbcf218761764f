// Package observability exposes the Prometheus metrics of the verification
// pipeline and its upstream clients.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes
const (
	OutcomeAccepted  = "accepted"
	OutcomeCorrected = "corrected"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staycheck_turns_total",
			Help: "Conversation turns processed, by outcome",
		},
		[]string{"outcome"},
	)

	CorrectionAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "staycheck_correction_attempts",
			Help:    "Model drafts needed per turn",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	ValidationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staycheck_validation_issues_total",
			Help: "Validation issues found across all drafts, by kind",
		},
		[]string{"kind"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staycheck_upstream_requests_total",
			Help: "Calls to the hotel-data and language-model APIs, by status",
		},
		[]string{"upstream", "status"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "staycheck_turn_duration_seconds",
			Help:    "Wall time of a conversation turn",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"outcome"},
	)
)

// RecordUpstream counts one upstream call. status is "ok" or an error code.
func RecordUpstream(upstream, status string) {
	UpstreamRequestsTotal.WithLabelValues(upstream, status).Inc()
}

// RecordTurn records the outcome of a finished turn
func RecordTurn(outcome string, attempts int, seconds float64) {
	TurnsTotal.WithLabelValues(outcome).Inc()
	TurnDuration.WithLabelValues(outcome).Observe(seconds)
	if attempts > 0 {
		CorrectionAttempts.Observe(float64(attempts))
	}
}

// RecordIssue counts one validation issue
func RecordIssue(kind string) {
	ValidationIssuesTotal.WithLabelValues(kind).Inc()
}
