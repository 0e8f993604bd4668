// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/cache"
	"github.com/tomtom215/pandemicpulse/internal/middleware"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

// Health returns a summary of the dashboard's data state. It always
// answers 200; "degraded" means the last refresh failed.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ds, status := h.store.Snapshot()

	health := models.HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		HasData:       ds != nil,
		RefreshState:  string(status.State),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if status.Unavailable || ds == nil {
		health.Status = "degraded"
	}
	if h.refresher != nil {
		health.RefreshState = string(h.refresher.State())
	}
	if !status.LastSuccess.IsZero() {
		last := status.LastSuccess
		health.LastRefresh = &last
	}

	respondSuccess(w, r, http.StatusOK, health, datasetMeta(ds, status, time.Now()))
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady answers 503 until the first dataset has loaded. A later
// failed refresh keeps the service ready because the last good data is
// still served.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.store.HasData() {
		respondJSON(w, r, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     map[string]interface{}{"ready": false},
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    ErrCodeServiceUnavailable,
				Message: "No data loaded yet",
			},
		})
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"ready": true}, models.Metadata{})
}

// PerformanceReport is the diagnostics payload.
type PerformanceReport struct {
	Endpoints      []middleware.EndpointStats  `json:"endpoints"`
	Recent         []middleware.RequestMetrics `json:"recent"`
	CircuitBreaker string                      `json:"circuit_breaker,omitempty"`
	UpstreamCache  *cache.Stats                `json:"upstream_cache,omitempty"`
	WSClients      int                         `json:"websocket_clients"`
}

// HealthPerformance reports per-route latency, upstream breaker state and
// response cache counters.
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	report := PerformanceReport{
		Endpoints: h.perfMon.GetStats(),
		Recent:    h.perfMon.GetRecentMetrics(20),
	}
	if h.breaker != nil {
		report.CircuitBreaker = h.breaker.State()
	}
	if h.upstreamCache != nil {
		if stats, ok := h.upstreamCache.CacheStats(); ok {
			report.UpstreamCache = &stats
		}
	}
	if h.wsHub != nil {
		report.WSClients = h.wsHub.GetClientCount()
	}
	respondSuccess(w, r, http.StatusOK, report, models.Metadata{})
}
