// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package supervisor runs the server's long-lived components under a
thejerf/suture/v4 supervisor tree.

Tree layout:

	pandemicpulse (root)
	├── data-layer
	│   ├── refresh-scheduler   (sync.Manager via services.RefreshService)
	│   └── cache-sweeper       (upstream response cache eviction)
	├── messaging-layer
	│   └── websocket-hub       (websocket.Hub)
	└── api-layer
	    └── http-server         (net/http server with chi router)

A crashing service is restarted by its layer supervisor with suture's
failure backoff; the other layers keep running, so the HTTP server keeps
serving the last good dashboard while the scheduler restarts.

Supervisor events are logged through sutureslog, which receives a
*slog.Logger backed by the zerolog adapter in internal/logging.
*/
package supervisor
