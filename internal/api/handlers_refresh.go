// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/logging"
	syncpkg "github.com/tomtom215/pandemicpulse/internal/sync"
)

// RefreshAccepted is returned when a user refresh starts.
type RefreshAccepted struct {
	State   string `json:"state"`
	Trigger string `json:"trigger"`
}

// Refresh asks the scheduler for an immediate refresh that bypasses the
// upstream response cache. A refresh already in flight wins: the request
// gets 409 and nothing new starts.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Refresh scheduler not available", nil)
		return
	}

	err := h.refresher.TriggerRefresh(true)
	switch {
	case err == nil:
		logging.Ctx(r.Context()).Info().Msg("User refresh accepted")
		ds, status := h.store.Snapshot()
		respondSuccess(w, r, http.StatusAccepted, RefreshAccepted{
			State:   "refreshing",
			Trigger: syncpkg.TriggerUser,
		}, datasetMeta(ds, status, time.Now()))
	case errors.Is(err, syncpkg.ErrRefreshInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "A refresh is already in progress", nil)
	case errors.Is(err, syncpkg.ErrNotRunning):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Refresh scheduler not running", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to start refresh", err)
	}
}
