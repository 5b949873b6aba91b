package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric outcome constants.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"
	outcomeAborted = "aborted"
)

// Metric definitions with appropriate labels.
var (
	// transitionsTotal tracks successful transitions.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_transitions_total",
		Help: "Total number of successful transitions by workflow, transition, source and target state",
	}, []string{"workflow", "transition", "from_state", "to_state"})

	// transitionFailuresTotal tracks failed or aborted transition attempts.
	transitionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_transition_failures_total",
		Help: "Total number of failed transition attempts by workflow, transition, and reason " +
			"(invalid, forbidden, aborted, or error)",
	}, []string{"workflow", "transition", "reason"})

	// transitionDuration tracks end-to-end transition invocation time.
	transitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_transition_duration_seconds",
		Help:    "Duration of transition invocations by workflow, transition, and outcome",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"workflow", "transition", "outcome"})

	// hookDuration tracks individual hook execution time.
	hookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_hook_duration_seconds",
		Help:    "Duration of hook execution by workflow, transition, and hook kind",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"workflow", "transition", "kind"})
)
