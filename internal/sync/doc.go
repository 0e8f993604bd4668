// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package sync fetches statistics from the disease.sh API and runs the refresh
scheduler that keeps the dashboard's Dataset current.

Components:

  - Client: HTTP client for /v3/covid-19/all and /v3/covid-19/countries. Loose
    upstream JSON is normalized into models.StatSnapshot and
    models.CountryRecord at this boundary. Responses are cached for the
    configured TTL and outbound calls are rate limited.
  - CircuitBreakerClient: wraps Client with sony/gobreaker so a dead upstream
    is not hammered every refresh.
  - Manager: the refresh scheduler. It has two states, idle and refreshing.
    Timer ticks, startup and user triggers all go through the same gate and
    at most one refresh is ever in flight.

Error Handling:

Network failures, timeouts, non-200 responses and an open breaker surface as
*FetchError. Payloads that cannot be decoded or normalized surface as
*ParseError. The Manager catches both, along with *charts.RenderError, keeps
the previous Dataset and marks the data as unavailable until the next
successful refresh. There is no retry beyond the next scheduled tick.
*/
package sync
