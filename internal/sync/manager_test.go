// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/charts"
	"github.com/tomtom215/pandemicpulse/internal/config"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

func testConfig(interval time.Duration, onStartup bool) *config.Config {
	return &config.Config{
		Source:    config.SourceConfig{IncludeYesterday: true},
		Refresh:   config.RefreshConfig{Interval: interval, OnStartup: onStartup},
		Dashboard: config.DashboardConfig{TopN: 10},
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestManager_RefreshSuccess(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	store := &fakeStore{}
	hub := &fakeHub{}
	m := NewManager(src, store, testConfig(time.Hour, false), hub)

	var refreshed atomic.Int32
	m.SetOnRefreshed(func(*models.Dataset) { refreshed.Add(1) })

	if err := m.Refresh(context.Background(), TriggerUser, false); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	ds, successes, failures := store.snapshot()
	if successes != 1 || len(failures) != 0 {
		t.Fatalf("successes=%d failures=%d", successes, len(failures))
	}
	if ds.Countries[0].Name != "Beta" {
		t.Errorf("countries not sorted by cases: first = %s", ds.Countries[0].Name)
	}
	if ds.Yesterday == nil {
		t.Error("Yesterday should be set")
	}
	if ds.Trends.Cases != 25 {
		t.Errorf("Trends.Cases = %v, want 25", ds.Trends.Cases)
	}
	if refreshed.Load() != 1 {
		t.Errorf("onRefreshed called %d times", refreshed.Load())
	}
	if got := hub.messages(); len(got) != 1 || got[0] != MessageRefreshed {
		t.Errorf("broadcasts = %v", got)
	}
	if m.State() != models.RefreshIdle {
		t.Errorf("State() = %s after refresh", m.State())
	}
}

func TestManager_FailureKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setup     func(*fakeSource)
		wantKind  string
		checkType func(error) bool
	}{
		{
			name: "fetch error",
			setup: func(f *fakeSource) {
				f.setErrors(&FetchError{Endpoint: endpointGlobal, Err: errors.New("timeout")}, nil)
			},
			wantKind:  "fetch_error",
			checkType: func(err error) bool { var e *FetchError; return errors.As(err, &e) },
		},
		{
			name: "parse error",
			setup: func(f *fakeSource) {
				f.setErrors(nil, &ParseError{Endpoint: endpointCountries, Err: errors.New("bad json")})
			},
			wantKind:  "parse_error",
			checkType: func(err error) bool { var e *ParseError; return errors.As(err, &e) },
		},
		{
			name: "render error",
			setup: func(f *fakeSource) {
				f.countries = []models.CountryRecord{{Name: "Nowhere", Cases: 10}}
			},
			wantKind:  "render_error",
			checkType: func(err error) bool { var e *charts.RenderError; return errors.As(err, &e) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := newFakeSource()
			tt.setup(src)
			store := &fakeStore{}
			hub := &fakeHub{}
			m := NewManager(src, store, testConfig(time.Hour, false), hub)

			var failed atomic.Int32
			m.SetOnFailed(func(error) { failed.Add(1) })

			err := m.Refresh(context.Background(), TriggerTimer, false)
			if err == nil || !tt.checkType(err) {
				t.Fatalf("Refresh() error = %T %v", err, err)
			}
			checkStringEqual(t, "kind", errorKind(err), tt.wantKind)

			ds, successes, failures := store.snapshot()
			if ds != nil || successes != 0 {
				t.Error("failed refresh must not commit a dataset")
			}
			if len(failures) != 1 {
				t.Errorf("CommitFailure called %d times, want 1", len(failures))
			}
			if failed.Load() != 1 {
				t.Errorf("onFailed called %d times, want 1", failed.Load())
			}
			if got := hub.messages(); len(got) != 1 || got[0] != MessageRefreshFailed {
				t.Errorf("broadcasts = %v", got)
			}
		})
	}
}

func TestManager_KeepsLastGoodDataset(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	store := &fakeStore{}
	m := NewManager(src, store, testConfig(time.Hour, false), nil)
	ctx := context.Background()

	if err := m.Refresh(ctx, TriggerStartup, false); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}
	good, _, _ := store.snapshot()

	src.setErrors(&FetchError{Endpoint: endpointGlobal, Err: errors.New("down")}, nil)
	if err := m.Refresh(ctx, TriggerTimer, false); err == nil {
		t.Fatal("second Refresh() expected error")
	}

	current, successes, failures := store.snapshot()
	if current != good {
		t.Error("last good dataset was replaced")
	}
	if successes != 1 || len(failures) != 1 {
		t.Errorf("successes=%d failures=%d", successes, len(failures))
	}

	// Recovery on the next tick.
	src.setErrors(nil, nil)
	if err := m.Refresh(ctx, TriggerTimer, false); err != nil {
		t.Fatalf("third Refresh() error = %v", err)
	}
	if current, _, _ := store.snapshot(); current == good {
		t.Error("recovered refresh should publish a new dataset")
	}
}

func TestManager_YesterdayFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.yesterdayErr = &FetchError{Endpoint: endpointGlobal + "?yesterday=true", StatusCode: 404, Err: errors.New("nope")}
	store := &fakeStore{}
	m := NewManager(src, store, testConfig(time.Hour, false), nil)

	if err := m.Refresh(context.Background(), TriggerUser, false); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	ds, _, _ := store.snapshot()
	if ds.Yesterday != nil {
		t.Error("Yesterday should be nil")
	}
	if ds.Trends != (models.Trends{}) {
		t.Errorf("Trends = %+v, want zero", ds.Trends)
	}
}

func TestManager_ConcurrentTriggerIgnored(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.started = make(chan struct{}, 1)
	src.block = make(chan struct{})
	store := &fakeStore{}
	m := NewManager(src, store, testConfig(time.Hour, false), nil)

	done := make(chan error, 1)
	go func() { done <- m.Refresh(context.Background(), TriggerTimer, false) }()

	<-src.started
	if m.State() != models.RefreshRefreshing {
		t.Errorf("State() = %s, want refreshing", m.State())
	}

	if err := m.Refresh(context.Background(), TriggerUser, false); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("second Refresh() error = %v, want ErrRefreshInProgress", err)
	}

	close(src.block)
	if err := <-done; err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}

	if got := src.callCount(); got != 1 {
		t.Errorf("upstream called %d times, want 1", got)
	}
	if _, successes, _ := store.snapshot(); successes != 1 {
		t.Errorf("successes = %d, want 1", successes)
	}
}

func TestManager_StartStop(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	store := &fakeStore{}
	m := NewManager(src, store, testConfig(time.Hour, true), nil)

	if err := m.TriggerRefresh(false); !errors.Is(err, ErrNotRunning) {
		t.Errorf("TriggerRefresh() before Start error = %v, want ErrNotRunning", err)
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}
	if !m.Running() {
		t.Error("Running() = false after Start")
	}

	waitFor(t, "startup refresh", func() bool {
		_, successes, _ := store.snapshot()
		return successes == 1
	})

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := m.Stop(); err == nil {
		t.Error("second Stop() should fail")
	}
	if err := m.TriggerRefresh(false); !errors.Is(err, ErrNotRunning) {
		t.Errorf("TriggerRefresh() after Stop error = %v, want ErrNotRunning", err)
	}
}

func TestManager_TimerTicks(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	store := &fakeStore{}
	m := NewManager(src, store, testConfig(20*time.Millisecond, false), nil)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = m.Stop() }()

	waitFor(t, "two timer refreshes", func() bool {
		_, successes, _ := store.snapshot()
		return successes >= 2
	})
}

func TestManager_TriggerRefresh(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.started = make(chan struct{}, 1)
	src.block = make(chan struct{})
	store := &fakeStore{}
	m := NewManager(src, store, testConfig(time.Hour, false), nil)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = m.Stop() }()

	if err := m.TriggerRefresh(true); err != nil {
		t.Fatalf("TriggerRefresh() error = %v", err)
	}
	<-src.started

	if err := m.TriggerRefresh(false); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("overlapping TriggerRefresh() error = %v, want ErrRefreshInProgress", err)
	}

	close(src.block)
	waitFor(t, "user refresh", func() bool {
		_, successes, _ := store.snapshot()
		return successes == 1 && m.State() == models.RefreshIdle
	})

	src.mu.Lock()
	forced := src.forced
	src.mu.Unlock()
	if !forced {
		t.Error("forced trigger should bypass the cache")
	}
}

func TestManager_StopCancelsInFlightRefresh(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.started = make(chan struct{}, 1)
	src.block = make(chan struct{})
	store := &fakeStore{}
	m := NewManager(src, store, testConfig(time.Hour, true), nil)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	<-src.started

	stopped := make(chan struct{})
	go func() {
		_ = m.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return while a refresh was blocked")
	}

	if _, successes, failures := store.snapshot(); successes != 0 || len(failures) != 1 {
		t.Errorf("successes=%d failures=%d, want 0/1", successes, len(failures))
	}
}

func TestManager_StartRejectsZeroInterval(t *testing.T) {
	t.Parallel()

	m := NewManager(newFakeSource(), &fakeStore{}, testConfig(0, false), nil)
	if err := m.Start(context.Background()); err == nil {
		t.Error("Start() with zero interval should fail")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{&FetchError{Endpoint: "/x", Err: errors.New("e")}, "fetch_error"},
		{&ParseError{Endpoint: "/x", Err: errors.New("e")}, "parse_error"},
		{&charts.RenderError{Chart: "map", Reason: "empty"}, "render_error"},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		checkStringEqual(t, "errorKind", errorKind(tt.err), tt.want)
	}
}

func TestFetchError_Message(t *testing.T) {
	t.Parallel()

	withStatus := &FetchError{Endpoint: "/all", StatusCode: 503, Err: errors.New("busy")}
	checkStringEqual(t, "with status", withStatus.Error(), "fetch /all: HTTP 503: busy")

	noStatus := &FetchError{Endpoint: "/all", Err: context.DeadlineExceeded}
	if !errors.Is(noStatus, context.DeadlineExceeded) {
		t.Error("FetchError should unwrap to its cause")
	}
}
