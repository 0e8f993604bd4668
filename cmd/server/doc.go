// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package main is the entry point for the PandemicPulse server.

PandemicPulse serves a single-page COVID-19 dashboard built from the public
disease.sh API: summary cards with day-over-day trends, a world choropleth,
a top-countries bar chart and a case distribution donut, with a light/dark
theme toggle and an auto-refresh every five minutes.

# Application Architecture

	RootSupervisor ("pandemicpulse")
	├── DataSupervisor ("data-layer")
	│   ├── Refresh scheduler (fetch, transform, render check, commit)
	│   └── Cache sweeper (expired upstream responses)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket hub (refresh notifications)
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi router)

Component initialization order:

 1. Configuration: koanf v2 from defaults, config.yaml and environment
 2. Logging: zerolog, console or JSON
 3. Upstream client: rate limited, cached, behind a circuit breaker
 4. Store: the single-writer holder of the current dataset
 5. WebSocket hub and refresh scheduler
 6. HTTP handlers and router
 7. Supervisor tree, run until SIGINT or SIGTERM

# Configuration

Common environment variables:

	REFRESH_INTERVAL=5m     auto-refresh period
	HTTP_PORT=8050          listening port
	DEFAULT_THEME=dark      initial theme (light or dark)
	LOG_LEVEL=info          trace, debug, info, warn, error
	LOG_FORMAT=json         json or console
	SOURCE_BASE_URL=...     upstream base URL

# Example Usage

	./pandemicpulse
	DEFAULT_THEME=light HTTP_PORT=9000 ./pandemicpulse
*/
package main
