// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Refresh cycle metrics
	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pandemicpulse_refresh_duration_seconds",
			Help:    "Duration of dashboard refresh cycles in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pandemicpulse_refresh_total",
			Help: "Refresh cycles by trigger and outcome",
		},
		[]string{"trigger", "result"}, // trigger: startup, timer, user; result: success, fetch_error, parse_error, render_error, error
	)

	RefreshSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pandemicpulse_refresh_skipped_total",
			Help: "Triggers ignored because a refresh was already in flight",
		},
		[]string{"trigger"},
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pandemicpulse_refresh_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		},
	)

	DataUnavailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pandemicpulse_data_unavailable",
			Help: "1 when the last refresh failed and stale data is being served",
		},
	)

	CountriesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pandemicpulse_countries_loaded",
			Help: "Number of country records in the current dataset",
		},
	)

	// Upstream API metrics
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of statistics API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Statistics API errors by endpoint and kind",
		},
		[]string{"endpoint", "kind"}, // kind: fetch, parse
	)

	UpstreamCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_cache_results_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"}, // hit, miss, bypass
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRefresh records one completed refresh cycle. result is "success" or
// an error kind such as "fetch_error".
func RecordRefresh(trigger, result string, duration time.Duration, countries int) {
	RefreshDuration.Observe(duration.Seconds())
	RefreshTotal.WithLabelValues(trigger, result).Inc()
	if result == "success" {
		RefreshLastSuccess.Set(float64(time.Now().Unix()))
		CountriesLoaded.Set(float64(countries))
		DataUnavailable.Set(0)
		return
	}
	DataUnavailable.Set(1)
}

// RecordUpstreamRequest records one statistics API call. kind is empty on
// success.
func RecordUpstreamRequest(endpoint, kind string, duration time.Duration) {
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if kind != "" {
		UpstreamErrors.WithLabelValues(endpoint, kind).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
