// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package sync

import (
	"errors"
	"fmt"

	"github.com/tomtom215/pandemicpulse/internal/charts"
)

var (
	// ErrRefreshInProgress is returned when a trigger arrives while a refresh
	// is already running. The trigger is dropped.
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrNotRunning is returned by TriggerRefresh before Start or after Stop.
	ErrNotRunning = errors.New("refresh scheduler is not running")
)

// FetchError reports a failed request to the statistics API: network error,
// timeout, non-200 status or an open circuit breaker.
type FetchError struct {
	Endpoint   string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that could not be decoded or normalized.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// errorKind classifies err for metrics and the status banner.
func errorKind(err error) string {
	var fe *FetchError
	var pe *ParseError
	var re *charts.RenderError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &fe):
		return "fetch_error"
	case errors.As(err, &pe):
		return "parse_error"
	case errors.As(err, &re):
		return "render_error"
	default:
		return "error"
	}
}
