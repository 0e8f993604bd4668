// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/models"
)

// ErrNoData is returned by readers before the first successful refresh.
var ErrNoData = errors.New("no data loaded yet")

// Store holds the last good Dataset and the refresh status. The refresh
// scheduler is the only writer. Datasets handed out are never modified.
type Store struct {
	mu      sync.RWMutex
	dataset *models.Dataset
	status  models.RefreshStatus
}

// NewStore returns an empty Store in the idle state.
func NewStore() *Store {
	return &Store{status: models.RefreshStatus{State: models.RefreshIdle}}
}

// BeginRefresh marks a refresh as in flight.
func (s *Store) BeginRefresh(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = models.RefreshRefreshing
	s.status.LastAttempt = at.UTC()
}

// CommitSuccess publishes ds and clears any unavailable flag.
func (s *Store) CommitSuccess(ds *models.Dataset, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
	s.status.State = models.RefreshIdle
	s.status.LastSuccess = at.UTC()
	s.status.LastError = ""
	s.status.Unavailable = false
	s.status.ConsecutiveFailures = 0
}

// CommitFailure records a failed refresh. The current Dataset is kept.
func (s *Store) CommitFailure(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = models.RefreshIdle
	s.status.LastAttempt = at.UTC()
	s.status.Unavailable = true
	s.status.ConsecutiveFailures++
	if err != nil {
		s.status.LastError = err.Error()
	}
}

// Dataset returns the current Dataset or ErrNoData.
func (s *Store) Dataset() (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoData
	}
	return s.dataset, nil
}

// Status returns a copy of the refresh status.
func (s *Store) Status() models.RefreshStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Snapshot returns the Dataset (possibly nil) and status as one consistent
// pair.
func (s *Store) Snapshot() (*models.Dataset, models.RefreshStatus) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset, s.status
}

// HasData reports whether a refresh has ever succeeded.
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset != nil
}
