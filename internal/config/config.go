// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

// Package config loads PandemicPulse configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Source    SourceConfig    `koanf:"source"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Server    ServerConfig    `koanf:"server"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// SourceConfig describes the upstream statistics API.
type SourceConfig struct {
	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`            // 0 disables the response cache
	IncludeYesterday  bool          `koanf:"include_yesterday"`    // fetch previous-day totals for trend arrows
	RequestsPerSecond float64       `koanf:"requests_per_second"`  // outbound politeness limit
	BreakerTimeout    time.Duration `koanf:"breaker_open_timeout"` // how long the circuit stays open
	UserAgent         string        `koanf:"user_agent"`
}

// RefreshConfig controls the refresh scheduler.
type RefreshConfig struct {
	Interval  time.Duration `koanf:"interval"`
	OnStartup bool          `koanf:"on_startup"`
}

type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// DashboardConfig holds presentation defaults.
type DashboardConfig struct {
	Title        string `koanf:"title"`
	DefaultTheme string `koanf:"default_theme"` // light or dark
	TopN         int    `koanf:"top_n"`
}

type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	RefreshRateLimit  int           `koanf:"refresh_rate_limit"` // manual refreshes per minute per IP
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads the layered configuration and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
