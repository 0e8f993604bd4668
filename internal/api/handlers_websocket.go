// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/logging"
	"github.com/tomtom215/pandemicpulse/internal/models"
	ws "github.com/tomtom215/pandemicpulse/internal/websocket"
)

// registerTimeout bounds the wait for the hub to accept a new client.
const registerTimeout = 5 * time.Second

// StatusMessage is sent to each client right after the upgrade.
type StatusMessage struct {
	State       models.RefreshState `json:"state"`
	HasData     bool                `json:"has_data"`
	Unavailable bool                `json:"unavailable"`
	FetchedAt   *time.Time          `json:"fetched_at,omitempty"`
}

// WebSocket upgrades the connection and registers it with the hub. The
// client receives the current status, then refresh outcomes as they happen.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Enqueue(ws.Message{Type: ws.MessageTypeStatus, Data: h.statusMessage()})

	select {
	case h.wsHub.Register <- client:
		client.Start()
	case <-time.After(registerTimeout):
		logging.Warn().Msg("WebSocket hub did not accept client")
		_ = conn.Close()
	}
}

func (h *Handler) statusMessage() StatusMessage {
	ds, status := h.store.Snapshot()
	msg := StatusMessage{
		State:       status.State,
		HasData:     ds != nil,
		Unavailable: status.Unavailable,
	}
	if ds != nil {
		fetched := ds.FetchedAt
		msg.FetchedAt = &fetched
	}
	return msg
}
