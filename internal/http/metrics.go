package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fub",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Total API requests issued, by HTTP method.",
	}, []string{"method"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fub",
		Subsystem: "client",
		Name:      "errors_total",
		Help:      "Total failed API requests, by error kind.",
	}, []string{"kind"})

	sessionReinitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fub",
		Subsystem: "client",
		Name:      "session_reinits_total",
		Help:      "Total session reinitializations triggered by auth failures.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fub",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)
