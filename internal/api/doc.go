// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package api serves the PandemicPulse dashboard over HTTP.

Routes (chi):

	GET  /                            dashboard page (html/template)
	GET  /api/v1/dashboard?theme=     page layout, cards and figures as JSON
	POST /api/v1/refresh              user refresh trigger (202, or 409 while busy)
	GET  /api/v1/countries?limit=     country table sorted by cases
	GET  /api/v1/charts/bar.png       static bar chart export
	GET  /api/v1/charts/donut.png     static donut chart export
	GET  /api/v1/ws                   websocket push of refresh outcomes
	GET  /api/v1/health/live          liveness
	GET  /api/v1/health/ready         readiness (503 until the first dataset)
	GET  /api/v1/health               summary
	GET  /api/v1/health/performance   request timings and upstream state
	GET  /metrics                     Prometheus

Handlers only read the dashboard.Store. The refresh scheduler is its sole
writer; the refresh endpoint asks the scheduler to run and never touches
the Store directly.

Every JSON body uses the models.APIResponse envelope. Errors carry a
machine-readable code (BAD_REQUEST, CONFLICT, SERVICE_UNAVAILABLE, ...).
*/
package api
