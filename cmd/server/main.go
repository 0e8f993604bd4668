// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/api"
	"github.com/tomtom215/pandemicpulse/internal/config"
	"github.com/tomtom215/pandemicpulse/internal/dashboard"
	"github.com/tomtom215/pandemicpulse/internal/logging"
	"github.com/tomtom215/pandemicpulse/internal/metrics"
	"github.com/tomtom215/pandemicpulse/internal/supervisor"
	"github.com/tomtom215/pandemicpulse/internal/supervisor/services"
	"github.com/tomtom215/pandemicpulse/internal/sync"
	ws "github.com/tomtom215/pandemicpulse/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// breakerMinRequests is the sample size before the upstream breaker may trip.
const breakerMinRequests = 10

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.SetAppInfo(version)

	logging.Info().
		Str("version", version).
		Str("source", cfg.Source.BaseURL).
		Dur("refresh_interval", cfg.Refresh.Interval).
		Str("default_theme", cfg.Dashboard.DefaultTheme).
		Msg("Starting PandemicPulse")
	if cfg.IsProduction() && cfg.HasWildcardCORS() {
		logging.Warn().Msg("Wildcard CORS origin configured in production")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	client := sync.NewClient(&cfg.Source)
	source := sync.NewCircuitBreakerClient(client, cfg.Source.BreakerTimeout, breakerMinRequests)

	store := dashboard.NewStore()
	wsHub := ws.NewHub()
	manager := sync.NewManager(source, store, cfg, wsHub)

	handler := api.NewHandler(store, manager, cfg, wsHub, version)
	handler.SetUpstream(source, client)
	manager.SetOnRefreshed(handler.OnRefreshed)

	router := api.NewRouter(handler, cfg)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddDataService(services.NewRefreshService(manager))
	tree.AddDataService(services.NewCacheSweeperService(client, time.Minute))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("PandemicPulse stopped")
}
