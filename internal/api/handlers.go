// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/pandemicpulse/internal/cache"
	"github.com/tomtom215/pandemicpulse/internal/charts"
	"github.com/tomtom215/pandemicpulse/internal/config"
	"github.com/tomtom215/pandemicpulse/internal/dashboard"
	"github.com/tomtom215/pandemicpulse/internal/logging"
	"github.com/tomtom215/pandemicpulse/internal/middleware"
	"github.com/tomtom215/pandemicpulse/internal/models"
	ws "github.com/tomtom215/pandemicpulse/internal/websocket"
)

// Refresher is the scheduler surface the handlers use. Satisfied by
// *sync.Manager.
type Refresher interface {
	TriggerRefresh(force bool) error
	State() models.RefreshState
}

// BreakerReporter is satisfied by *sync.CircuitBreakerClient.
type BreakerReporter interface {
	State() string
}

// CacheReporter is satisfied by *sync.Client.
type CacheReporter interface {
	CacheStats() (cache.Stats, bool)
}

// Handler contains dependencies for API handlers.
//
// Methods are split across files:
//   - handlers_dashboard.go: page, dashboard JSON, countries, chart exports
//   - handlers_refresh.go: user refresh trigger
//   - handlers_health.go: probes and diagnostics
//   - handlers_websocket.go: websocket upgrade
type Handler struct {
	store     *dashboard.Store
	refresher Refresher
	config    *config.Config
	wsHub     *ws.Hub
	version   string
	startTime time.Time
	perfMon   *middleware.PerformanceMonitor
	images    *cache.Cache[[]byte]

	breaker       BreakerReporter
	upstreamCache CacheReporter
}

// NewHandler wires the handlers to the store and scheduler. wsHub may be
// nil, in which case the websocket endpoint answers 503.
func NewHandler(store *dashboard.Store, refresher Refresher, cfg *config.Config, wsHub *ws.Hub, version string) *Handler {
	imageTTL := cfg.Refresh.Interval
	if imageTTL <= 0 {
		imageTTL = 5 * time.Minute
	}
	return &Handler{
		store:     store,
		refresher: refresher,
		config:    cfg,
		wsHub:     wsHub,
		version:   version,
		startTime: time.Now(),
		perfMon:   middleware.NewPerformanceMonitor(1000, time.Second),
		images:    cache.New[[]byte](imageTTL),
	}
}

// SetUpstream attaches optional upstream diagnostics reported by the
// performance endpoint.
func (h *Handler) SetUpstream(breaker BreakerReporter, upstreamCache CacheReporter) {
	h.breaker = breaker
	h.upstreamCache = upstreamCache
}

// PerformanceMonitor returns the monitor the router installs as middleware.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// ClearCache drops rendered chart images.
func (h *Handler) ClearCache() {
	h.images.Clear()
}

// OnRefreshed is registered with the scheduler and runs after each
// successful refresh.
func (h *Handler) OnRefreshed(ds *models.Dataset) {
	h.ClearCache()
	logging.Debug().
		Int("countries", len(ds.Countries)).
		Msg("Chart image cache cleared after refresh")
}

func (h *Handler) defaultTheme() charts.Theme {
	return h.config.DefaultTheme()
}

func (h *Handler) pageOptions() dashboard.Options {
	return dashboard.Options{
		Title: h.config.Dashboard.Title,
		TopN:  h.config.Dashboard.TopN,
	}
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin allows same-host pages and configured CORS origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if origin == "http://"+r.Host || origin == "https://"+r.Host {
		return true
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
