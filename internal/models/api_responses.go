// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package models

import "time"

// APIResponse is the envelope returned by every JSON endpoint.
//
// Status is "success" or "error". On error, Error is populated and Data is nil.
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "data_age_seconds": 42}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and freshness information.
type Metadata struct {
	Timestamp      time.Time `json:"timestamp"`
	DataAgeSeconds int64     `json:"data_age_seconds,omitempty"`
	Stale          bool      `json:"stale,omitempty"`
}

// APIError is a machine-readable error code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the readiness probe payload.
type HealthStatus struct {
	Status        string     `json:"status"`
	Version       string     `json:"version"`
	HasData       bool       `json:"has_data"`
	RefreshState  string     `json:"refresh_state"`
	LastRefresh   *time.Time `json:"last_refresh,omitempty"`
	UptimeSeconds float64    `json:"uptime_seconds"`
}
