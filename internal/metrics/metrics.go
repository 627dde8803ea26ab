// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics declares the Prometheus collectors for external API calls
// and the HTTP API. They are registered on the default registry and exposed
// by the serve command at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for ExternalRequestsTotal.
const (
	OutcomeOK      = "ok"
	OutcomeAuth    = "auth_error"
	OutcomeRequest = "request_error"
)

var (
	// ExternalRequestsTotal counts calls to CORE, Gemini, and PDF hosts.
	ExternalRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gapfinder_external_requests_total",
			Help: "Total number of calls to external APIs",
		},
		[]string{"service", "outcome"},
	)

	ExternalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gapfinder_external_request_duration_seconds",
			Help:    "External API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gapfinder_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gapfinder_http_request_duration_seconds",
			Help:    "HTTP API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// IdeasGenerated counts research ideas returned to callers.
	IdeasGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gapfinder_ideas_generated_total",
			Help: "Total number of research ideas produced",
		},
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gapfinder_build_info",
			Help: "Build information",
		},
		[]string{"version"},
	)
)

// ObserveExternal records one external call that started at start.
func ObserveExternal(service, outcome string, start time.Time) {
	ExternalRequestsTotal.WithLabelValues(service, outcome).Inc()
	ExternalRequestDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

// Init sets the build info gauge.
func Init(version string) {
	BuildInfo.WithLabelValues(version).Set(1)
}
