package fsm

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome constants.
const (
	outcomeApplied       = "applied"
	outcomeRejected      = "rejected"
	outcomeIllegal       = "illegal"
	outcomeFailed        = "failed"
	outcomePersistFailed = "persist_failed"
	outcomeError         = "error"
)

// Metric definitions with appropriate labels.
var (
	// transitionsTotal counts dispatch outcomes per method and state pair.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_transitions_total",
		Help: "Total number of transition calls by class, method, from state, to state and outcome",
	}, []string{"class", "method", "from_state", "to_state", "outcome"})

	// transitionDuration tracks the time spent in a dispatch, guards and body included.
	transitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fsm_transition_duration_seconds",
		Help:    "Duration of transition calls by class, method and outcome",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"class", "method", "outcome"})

	// guardEvaluationsTotal counts guard list evaluations during dispatch.
	guardEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_guard_evaluations_total",
		Help: "Total number of guard list evaluations by class, method and result",
	}, []string{"class", "method", "result"})

	// indexBuildsTotal counts builds of the per-class transition index.
	indexBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_index_builds_total",
		Help: "Total number of transition index builds by class",
	}, []string{"class"})
)

func recordFire(class, method string, result Result, outcome string, elapsed time.Duration) {
	transitionsTotal.WithLabelValues(
		sanitizeLabel(class),
		method,
		sanitizeState(result.From),
		sanitizeState(result.To),
		outcome,
	).Inc()

	transitionDuration.WithLabelValues(sanitizeLabel(class), method, outcome).Observe(elapsed.Seconds())
}

func recordGuards(class, method string, outcome guardOutcome) {
	result := "passed"
	if !outcome.passed {
		result = "failed_at_" + strconv.Itoa(outcome.index)
	}

	guardEvaluationsTotal.WithLabelValues(sanitizeLabel(class), method, result).Inc()
}

func recordIndexBuild(class string) {
	indexBuildsTotal.WithLabelValues(sanitizeLabel(class)).Inc()
}

// Helper functions for label sanitization.
func sanitizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}

	return value
}

func sanitizeState(state State) string {
	if state == "" {
		return "none"
	}

	return string(state)
}
