// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package charts

import "fmt"

// RenderError reports that a chart could not be constructed from the data it
// was given.
type RenderError struct {
	Chart  string
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render %s chart: %s: %v", e.Chart, e.Reason, e.Err)
	}
	return fmt.Sprintf("render %s chart: %s", e.Chart, e.Reason)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func renderErr(chart, reason string) error {
	return &RenderError{Chart: chart, Reason: reason}
}
