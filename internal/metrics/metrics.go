package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analyze endpoint metrics
var (
	// AnalyzeRequestsTotal counts /analyze requests by outcome
	// (scored, empty, bad_request, scorer_error)
	AnalyzeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyze_requests_total",
			Help: "Total /analyze requests by outcome",
		},
		[]string{"outcome"},
	)

	// ScorerDuration tracks scorer latency in seconds
	ScorerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scorer_duration_seconds",
			Help:    "Sentiment scorer call duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"engine"},
	)
)

// Score cache metrics
var (
	// ScoreCacheLookups counts cache lookups by result (hit, miss, error)
	ScoreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_cache_lookups_total",
			Help: "Score cache lookups by result",
		},
		[]string{"result"},
	)

	// ScorerHealthy is 1 while the last scorer health check passed
	ScorerHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scorer_healthy",
			Help: "Whether the last scorer health check passed (1) or failed (0)",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
