// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package middleware provides HTTP middleware shared by the API router.

All middleware has the standard func(http.Handler) http.Handler shape so it
plugs straight into chi's r.Use.

  - RequestID: accepts a sane upstream X-Request-ID or generates a UUID, and
    seeds the logging context with request and correlation IDs.
  - PrometheusMetrics: request counts, durations and in-flight gauge,
    labelled by chi route pattern rather than raw path.
  - Compression: gzip for text responses. PNG exports and websocket upgrades
    pass through untouched.
  - PerformanceMonitor: sliding window of recent request timings with
    percentile summaries, served at /api/v1/health/performance.

Order in the router:

	RequestID -> PrometheusMetrics -> PerformanceMonitor -> Compression -> handler
*/
package middleware
