// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package services

import (
	"context"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/logging"
)

// Sweeper drops expired cache entries. Satisfied by *sync.Client.
type Sweeper interface {
	SweepCache() int
}

// CacheSweeperService periodically evicts expired upstream responses so
// the cache does not hold stale bodies between refreshes.
type CacheSweeperService struct {
	sweeper  Sweeper
	interval time.Duration
	name     string
}

// NewCacheSweeperService wraps sweeper. A non-positive interval
// defaults to one minute.
func NewCacheSweeperService(sweeper Sweeper, interval time.Duration) *CacheSweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheSweeperService{
		sweeper:  sweeper,
		interval: interval,
		name:     "cache-sweeper",
	}
}

// Serve implements suture.Service.
func (c *CacheSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := c.sweeper.SweepCache(); n > 0 {
				logging.Debug().Int("evicted", n).Msg("Swept expired upstream responses")
			}
		}
	}
}

// String implements fmt.Stringer.
func (c *CacheSweeperService) String() string {
	return c.name
}
