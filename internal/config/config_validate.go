// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/charts"
	"github.com/tomtom215/pandemicpulse/internal/logging"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateSource,
		c.validateRefresh,
		c.validateServer,
		c.validateDashboard,
		c.validateRateLimits,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateSource() error {
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SOURCE_BASE_URL must be an absolute http(s) URL, got %q", c.Source.BaseURL)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("SOURCE_TIMEOUT must be positive")
	}
	if c.Source.CacheTTL < 0 {
		return fmt.Errorf("SOURCE_CACHE_TTL must not be negative")
	}
	if c.Source.RequestsPerSecond < 0 {
		return fmt.Errorf("SOURCE_REQUESTS_PER_SECOND must not be negative")
	}
	if c.Source.BreakerTimeout <= 0 {
		return fmt.Errorf("SOURCE_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

const minRefreshInterval = 10 * time.Second

func (c *Config) validateRefresh() error {
	if c.Refresh.Interval < minRefreshInterval {
		return fmt.Errorf("REFRESH_INTERVAL must be at least %v, got %v", minRefreshInterval, c.Refresh.Interval)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDashboard() error {
	if _, err := charts.ParseTheme(c.Dashboard.DefaultTheme); err != nil {
		return fmt.Errorf("DEFAULT_THEME: %w", err)
	}
	if c.Dashboard.TopN < 1 || c.Dashboard.TopN > 50 {
		return fmt.Errorf("TOP_N must be between 1 and 50")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	if c.Security.RefreshRateLimit < 1 {
		return fmt.Errorf("REFRESH_RATE_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// DefaultTheme returns the parsed default theme. Validate guarantees it parses.
func (c *Config) DefaultTheme() charts.Theme {
	theme, err := charts.ParseTheme(c.Dashboard.DefaultTheme)
	if err != nil {
		return charts.ThemeDark
	}
	return theme
}
