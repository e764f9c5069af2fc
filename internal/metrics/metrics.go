package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_chat_turns_total",
			Help: "Chat turns by terminal state and ranking intent",
		},
		[]string{"state", "intent"},
	)

	ChatStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_chat_state_transitions_total",
			Help: "Chat orchestrator state entries",
		},
		[]string{"state"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rag_generation_duration_seconds",
			Help:    "Latency of calls to the generation service",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"outcome"},
	)

	RankedResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rag_ranked_results",
			Help:    "Number of records returned per ranking",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
		[]string{"intent"},
	)

	SessionAppendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rag_session_append_failures_total",
			Help: "Chat turns that could not be written to the session store",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rag_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)
