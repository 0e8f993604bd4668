// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package services

import (
	"context"
	"fmt"
)

// StartStopManager is the refresh scheduler lifecycle.
//
// Satisfied by *sync.Manager.
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// RefreshService runs the refresh scheduler under supervision.
//
// Serve starts the manager, blocks until ctx is cancelled, then stops it.
// Stop waits for any in-flight refresh to return.
type RefreshService struct {
	manager StartStopManager
	name    string
}

// NewRefreshService wraps manager.
func NewRefreshService(manager StartStopManager) *RefreshService {
	return &RefreshService{
		manager: manager,
		name:    "refresh-scheduler",
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("refresh scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("refresh scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *RefreshService) String() string {
	return s.name
}
