// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package models

import "time"

// Dataset is everything one refresh cycle produced. A Dataset is never
// modified after construction; readers may share the pointer freely.
type Dataset struct {
	Snapshot     StatSnapshot    `json:"snapshot"`
	Yesterday    *StatSnapshot   `json:"yesterday,omitempty"`
	Countries    []CountryRecord `json:"countries"`
	Distribution Distribution    `json:"distribution"`
	Trends       Trends          `json:"trends"`
	FetchedAt    time.Time       `json:"fetched_at"`
}

// RefreshState is the scheduler's state machine position.
type RefreshState string

const (
	RefreshIdle       RefreshState = "idle"
	RefreshRefreshing RefreshState = "refreshing"
)

// RefreshStatus describes the outcome of the most recent refresh attempts.
// Unavailable is set when the latest attempt failed; the page keeps showing
// the last good Dataset alongside a "data unavailable" indicator.
type RefreshStatus struct {
	State               RefreshState `json:"state"`
	LastAttempt         time.Time    `json:"last_attempt,omitempty"`
	LastSuccess         time.Time    `json:"last_success,omitempty"`
	LastError           string       `json:"last_error,omitempty"`
	Unavailable         bool         `json:"unavailable"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
}
