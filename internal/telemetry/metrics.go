package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Served on /metrics by the HTTP server.
var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsproxy_requests_total",
		Help: "News requests handled, labelled by outcome.",
	}, []string{"outcome"})

	AgentRequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsproxy_agent_request_seconds",
		Help:    "Latency of outbound calls to the news-agent service.",
		Buckets: prometheus.DefBuckets,
	}, []string{"call"})
)
