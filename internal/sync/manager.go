// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/analytics"
	"github.com/tomtom215/pandemicpulse/internal/charts"
	"github.com/tomtom215/pandemicpulse/internal/config"
	"github.com/tomtom215/pandemicpulse/internal/logging"
	"github.com/tomtom215/pandemicpulse/internal/metrics"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

// Refresh triggers, used as the "trigger" metric label.
const (
	TriggerStartup = "startup"
	TriggerTimer   = "timer"
	TriggerUser    = "user"
)

// Broadcast message types.
const (
	MessageRefreshed     = "dashboard_refreshed"
	MessageRefreshFailed = "refresh_failed"
)

// DatasetStore receives the outcome of every refresh. Implemented by
// dashboard.Store.
type DatasetStore interface {
	BeginRefresh(at time.Time)
	CommitSuccess(ds *models.Dataset, at time.Time)
	CommitFailure(err error, at time.Time)
}

// WebSocketHub broadcasts messages to connected browsers. Implemented by
// websocket.Hub.
type WebSocketHub interface {
	BroadcastJSON(messageType string, data interface{})
}

// RefreshedMessage is broadcast after a successful refresh.
type RefreshedMessage struct {
	FetchedAt  time.Time `json:"fetched_at"`
	TotalCases int64     `json:"total_cases"`
	Countries  int       `json:"countries"`
	Trigger    string    `json:"trigger"`
	DurationMs int64     `json:"duration_ms"`
}

// RefreshFailedMessage is broadcast after a failed refresh.
type RefreshFailedMessage struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Trigger string    `json:"trigger"`
	At      time.Time `json:"at"`
}

// Manager is the refresh scheduler. It is idle or refreshing; a trigger that
// arrives while refreshing is dropped with ErrRefreshInProgress. Failures
// never propagate past the Manager: the store keeps the last good Dataset
// and is told the data is unavailable.
type Manager struct {
	source StatsSource
	store  DatasetStore
	wsHub  WebSocketHub

	interval         time.Duration
	onStartup        bool
	includeYesterday bool
	topN             int
	now              func() time.Time

	refreshing atomic.Bool

	mu          sync.RWMutex
	running     bool
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	onRefreshed func(*models.Dataset)
	onFailed    func(error)
}

// NewManager creates a scheduler that pulls from source and publishes into
// store. wsHub may be nil.
func NewManager(source StatsSource, store DatasetStore, cfg *config.Config, wsHub WebSocketHub) *Manager {
	m := &Manager{
		source:           source,
		store:            store,
		wsHub:            wsHub,
		interval:         cfg.Refresh.Interval,
		onStartup:        cfg.Refresh.OnStartup,
		includeYesterday: cfg.Source.IncludeYesterday,
		topN:             cfg.Dashboard.TopN,
		now:              time.Now,
	}

	logging.Info().
		Dur("interval", m.interval).
		Bool("on_startup", m.onStartup).
		Bool("include_yesterday", m.includeYesterday).
		Msg("Refresh scheduler config loaded")

	return m
}

// SetOnRefreshed registers a callback invoked after every successful refresh.
func (m *Manager) SetOnRefreshed(fn func(*models.Dataset)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRefreshed = fn
}

// SetOnFailed registers a callback invoked exactly once per failed refresh.
func (m *Manager) SetOnFailed(fn func(error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFailed = fn
}

// State reports whether a refresh is in flight.
func (m *Manager) State() models.RefreshState {
	if m.refreshing.Load() {
		return models.RefreshRefreshing
	}
	return models.RefreshIdle
}

// Running reports whether Start has been called without a matching Stop.
func (m *Manager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// Start runs the startup refresh (if configured) and the periodic timer in
// the background. It returns immediately.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("refresh scheduler is already running")
	}
	if m.interval <= 0 {
		m.mu.Unlock()
		return fmt.Errorf("refresh interval must be positive, got %s", m.interval)
	}

	logging.Info().Msg("Starting refresh scheduler...")

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	runCtx := m.ctx

	// Add before starting goroutines so Stop cannot Wait early.
	m.wg.Add(1)
	m.mu.Unlock()

	go m.refreshLoop(runCtx)
	return nil
}

// Stop cancels any in-flight refresh and waits for background work to end.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("refresh scheduler is not running")
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	logging.Info().Msg("Stopping refresh scheduler...")
	cancel()
	m.wg.Wait()
	logging.Info().Msg("Refresh scheduler stopped")
	return nil
}

func (m *Manager) refreshLoop(ctx context.Context) {
	defer m.wg.Done()

	if m.onStartup {
		if err := m.Refresh(ctx, TriggerStartup, false); err != nil && !errors.Is(err, ErrRefreshInProgress) {
			logging.Warn().Err(err).Msg("Startup refresh failed (will retry on next tick)")
		}
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Refresh(ctx, TriggerTimer, false); err != nil && !errors.Is(err, ErrRefreshInProgress) {
				logging.Debug().Err(err).Msg("Scheduled refresh failed")
			}
		}
	}
}

// TriggerRefresh starts a user-requested refresh in the background. It
// returns ErrRefreshInProgress without queueing anything when a refresh is
// already running. force bypasses the upstream response cache.
func (m *Manager) TriggerRefresh(force bool) error {
	// Holding the read lock through wg.Add keeps Stop from reaching Wait first.
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.running {
		return ErrNotRunning
	}

	if !m.refreshing.CompareAndSwap(false, true) {
		metrics.RefreshSkipped.WithLabelValues(TriggerUser).Inc()
		return ErrRefreshInProgress
	}

	ctx := m.ctx
	if force {
		ctx = WithForceRefresh(ctx)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.refreshing.Store(false)
		_ = m.run(ctx, TriggerUser)
	}()
	return nil
}

// Refresh runs one refresh cycle synchronously. The returned error is the
// cycle's failure, already recorded in the store; callers only log it.
func (m *Manager) Refresh(ctx context.Context, trigger string, force bool) error {
	if !m.refreshing.CompareAndSwap(false, true) {
		metrics.RefreshSkipped.WithLabelValues(trigger).Inc()
		logging.Debug().Str("trigger", trigger).Msg("Refresh already in progress, trigger ignored")
		return ErrRefreshInProgress
	}
	defer m.refreshing.Store(false)

	if force {
		ctx = WithForceRefresh(ctx)
	}
	return m.run(ctx, trigger)
}

// run executes one cycle. The caller holds the refreshing flag.
func (m *Manager) run(ctx context.Context, trigger string) error {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	start := m.now()
	m.store.BeginRefresh(start)

	ds, err := m.pipeline(ctx)
	duration := m.now().Sub(start)

	if err != nil {
		kind := errorKind(err)
		metrics.RecordRefresh(trigger, kind, duration, -1)
		m.store.CommitFailure(err, m.now())

		logging.Ctx(ctx).Error().
			Err(err).
			Str("trigger", trigger).
			Str("kind", kind).
			Dur("duration", duration).
			Msg("Refresh failed, keeping last good data")

		m.notifyFailed(err)
		if m.wsHub != nil {
			m.wsHub.BroadcastJSON(MessageRefreshFailed, RefreshFailedMessage{
				Kind:    kind,
				Message: err.Error(),
				Trigger: trigger,
				At:      m.now().UTC(),
			})
		}
		return err
	}

	metrics.RecordRefresh(trigger, "success", duration, len(ds.Countries))
	m.store.CommitSuccess(ds, m.now())

	logging.Ctx(ctx).Info().
		Str("trigger", trigger).
		Int("countries", len(ds.Countries)).
		Int64("total_cases", ds.Snapshot.TotalCases).
		Dur("duration", duration).
		Msg("Refresh completed")

	m.notifyRefreshed(ds)
	if m.wsHub != nil {
		m.wsHub.BroadcastJSON(MessageRefreshed, RefreshedMessage{
			FetchedAt:  ds.FetchedAt,
			TotalCases: ds.Snapshot.TotalCases,
			Countries:  len(ds.Countries),
			Trigger:    trigger,
			DurationMs: duration.Milliseconds(),
		})
	}
	return nil
}

// pipeline fetches, transforms and test-renders a new Dataset.
func (m *Manager) pipeline(ctx context.Context) (*models.Dataset, error) {
	global, err := m.source.FetchGlobal(ctx)
	if err != nil {
		return nil, err
	}

	var yesterday *models.StatSnapshot
	if m.includeYesterday {
		// Trends are decoration; losing them does not fail the refresh.
		yesterday, err = m.source.FetchGlobalYesterday(ctx)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Previous-day totals unavailable, trends disabled")
			yesterday = nil
		}
	}

	countries, err := m.source.FetchByCountry(ctx)
	if err != nil {
		return nil, err
	}

	ds := analytics.Build(*global, yesterday, countries, m.now().UTC())

	// Catch render failures here so a bad dataset never replaces a good one.
	if _, err := charts.BuildAll(ds, charts.ThemeDark, m.topN); err != nil {
		return nil, err
	}
	return ds, nil
}

func (m *Manager) notifyRefreshed(ds *models.Dataset) {
	m.mu.RLock()
	fn := m.onRefreshed
	m.mu.RUnlock()
	if fn != nil {
		fn(ds)
	}
}

func (m *Manager) notifyFailed(err error) {
	m.mu.RLock()
	fn := m.onFailed
	m.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}
