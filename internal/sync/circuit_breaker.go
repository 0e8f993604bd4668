// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pandemicpulse/internal/logging"
	"github.com/tomtom215/pandemicpulse/internal/metrics"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

const breakerName = "disease-sh-api"

// CircuitBreakerClient wraps a StatsSource with a circuit breaker. While the
// circuit is open every call fails fast with a *FetchError, so the scheduler
// treats it like any other unreachable upstream.
//
// The breaker runs on wall-clock time. Tests exercise the wrapped source
// directly or use short timeouts.
type CircuitBreakerClient struct {
	source StatsSource
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewCircuitBreakerClient wraps source. The circuit opens after a 60% failure
// rate over at least minRequests calls and stays open for openTimeout.
func NewCircuitBreakerClient(source StatsSource, openTimeout time.Duration, minRequests uint32) *CircuitBreakerClient {
	if openTimeout <= 0 {
		openTimeout = 2 * time.Minute
	}
	if minRequests == 0 {
		minRequests = 10
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     openTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		// A refresh cancelled by shutdown says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerClient{source: source, cb: cb, name: breakerName}
}

// State reports the breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

func (cbc *CircuitBreakerClient) execute(endpoint string, fn func() (any, error)) (any, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Str("endpoint", endpoint).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &FetchError{Endpoint: endpoint, Err: err}
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// castResult type-asserts a breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// FetchGlobal calls the wrapped source with breaker protection.
func (cbc *CircuitBreakerClient) FetchGlobal(ctx context.Context) (*models.StatSnapshot, error) {
	return castResult[*models.StatSnapshot](cbc.execute(endpointGlobal, func() (any, error) {
		return cbc.source.FetchGlobal(ctx)
	}))
}

// FetchGlobalYesterday calls the wrapped source with breaker protection.
func (cbc *CircuitBreakerClient) FetchGlobalYesterday(ctx context.Context) (*models.StatSnapshot, error) {
	return castResult[*models.StatSnapshot](cbc.execute(endpointGlobal+"?yesterday=true", func() (any, error) {
		return cbc.source.FetchGlobalYesterday(ctx)
	}))
}

// FetchByCountry calls the wrapped source with breaker protection.
func (cbc *CircuitBreakerClient) FetchByCountry(ctx context.Context) ([]models.CountryRecord, error) {
	return castResult[[]models.CountryRecord](cbc.execute(endpointCountries, func() (any, error) {
		return cbc.source.FetchByCountry(ctx)
	}))
}
