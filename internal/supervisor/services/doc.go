// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

// Package services adapts PandemicPulse components to suture.Service.
//
// Each wrapper converts a component's native lifecycle (Start/Stop,
// ListenAndServe/Shutdown, RunWithContext) into the blocking
// Serve(ctx) error form suture expects, and implements fmt.Stringer so
// supervisor logs name the service.
package services
