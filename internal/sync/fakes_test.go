// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package sync

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/models"
)

// fakeSource is a scriptable StatsSource.
type fakeSource struct {
	mu           sync.Mutex
	global       *models.StatSnapshot
	yesterday    *models.StatSnapshot
	countries    []models.CountryRecord
	globalErr    error
	yesterdayErr error
	countriesErr error
	calls        int

	// started is signalled (non-blocking) when FetchGlobal is entered;
	// FetchGlobal then waits on block if it is non-nil.
	started chan struct{}
	block   chan struct{}
	forced  bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		global: &models.StatSnapshot{
			TotalCases: 1000, ActiveCases: 300, Recovered: 600, Deaths: 100,
		},
		yesterday: &models.StatSnapshot{
			TotalCases: 800, ActiveCases: 250, Recovered: 500, Deaths: 50,
		},
		countries: []models.CountryRecord{
			{Name: "Alpha", CountryCode: "AAA", Cases: 400, Deaths: 40, Recovered: 300, Active: 60},
			{Name: "Beta", CountryCode: "BBB", Cases: 600, Deaths: 60, Recovered: 300, Active: 240},
		},
	}
}

func (f *fakeSource) FetchGlobal(ctx context.Context) (*models.StatSnapshot, error) {
	f.mu.Lock()
	f.calls++
	f.forced = forceRefresh(ctx)
	started, block := f.started, f.block
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, &FetchError{Endpoint: endpointGlobal, Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.globalErr != nil {
		return nil, f.globalErr
	}
	s := *f.global
	return &s, nil
}

func (f *fakeSource) FetchGlobalYesterday(context.Context) (*models.StatSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.yesterdayErr != nil {
		return nil, f.yesterdayErr
	}
	s := *f.yesterday
	return &s, nil
}

func (f *fakeSource) FetchByCountry(context.Context) ([]models.CountryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countriesErr != nil {
		return nil, f.countriesErr
	}
	return append([]models.CountryRecord(nil), f.countries...), nil
}

func (f *fakeSource) setErrors(global, countries error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.globalErr = global
	f.countriesErr = countries
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeStore records what the Manager commits.
type fakeStore struct {
	mu        sync.Mutex
	begins    int
	current   *models.Dataset
	successes int
	failures  []error
}

func (s *fakeStore) BeginRefresh(time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begins++
}

func (s *fakeStore) CommitSuccess(ds *models.Dataset, _ time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ds
	s.successes++
}

func (s *fakeStore) CommitFailure(err error, _ time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err)
}

func (s *fakeStore) snapshot() (*models.Dataset, int, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.successes, append([]error(nil), s.failures...)
}

// fakeHub records broadcast message types.
type fakeHub struct {
	mu    sync.Mutex
	types []string
}

func (h *fakeHub) BroadcastJSON(messageType string, _ interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, messageType)
}

func (h *fakeHub) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.types...)
}
