// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"

	"github.com/tomtom215/pandemicpulse/internal/cache"
	"github.com/tomtom215/pandemicpulse/internal/config"
	"github.com/tomtom215/pandemicpulse/internal/metrics"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

const (
	endpointGlobal    = "/v3/covid-19/all"
	endpointCountries = "/v3/covid-19/countries"
)

// maxErrorBodySize caps how much of a non-200 body is kept for the error message.
const maxErrorBodySize = 64 * 1024

// maxBodySize caps a successful response body. The countries payload is
// roughly 150KB.
const maxBodySize = 16 << 20

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// StatsSource is what the refresh scheduler needs from the upstream API.
// Client and CircuitBreakerClient implement it; tests use fakes.
type StatsSource interface {
	FetchGlobal(ctx context.Context) (*models.StatSnapshot, error)
	FetchGlobalYesterday(ctx context.Context) (*models.StatSnapshot, error)
	FetchByCountry(ctx context.Context) ([]models.CountryRecord, error)
}

type forceRefreshKey struct{}

// WithForceRefresh marks ctx so the Client skips its response cache.
func WithForceRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, forceRefreshKey{}, true)
}

func forceRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(forceRefreshKey{}).(bool)
	return v
}

// Client talks to the disease.sh statistics API.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	cache     *cache.Cache[[]byte]
	sanitizer *bluemonday.Policy
}

// NewClient creates a Client from the source configuration. A zero
// RequestsPerSecond disables outbound rate limiting; a zero CacheTTL disables
// the response cache.
func NewClient(cfg *config.SourceConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := int(cfg.RequestsPerSecond)
	if burst < 3 {
		// one refresh issues up to three requests back to back
		burst = 3
	}

	var responses *cache.Cache[[]byte]
	if cfg.CacheTTL > 0 {
		responses = cache.New[[]byte](cfg.CacheTTL)
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:   rate.NewLimiter(limit, burst),
		cache:     responses,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// FetchGlobal returns today's worldwide totals.
func (c *Client) FetchGlobal(ctx context.Context) (*models.StatSnapshot, error) {
	return c.fetchGlobal(ctx, endpointGlobal)
}

// FetchGlobalYesterday returns yesterday's worldwide totals, used for trends.
func (c *Client) FetchGlobalYesterday(ctx context.Context) (*models.StatSnapshot, error) {
	return c.fetchGlobal(ctx, endpointGlobal+"?yesterday=true")
}

func (c *Client) fetchGlobal(ctx context.Context, endpoint string) (*models.StatSnapshot, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	snapshot, err := decodeGlobal(body)
	if err != nil {
		c.invalidate(endpoint)
		metrics.UpstreamErrors.WithLabelValues(endpoint, "parse").Inc()
		return nil, &ParseError{Endpoint: endpoint, Err: err}
	}
	return snapshot, nil
}

// FetchByCountry returns one record per country. Rows that cannot be
// normalized are dropped; a payload with no usable rows is a ParseError.
func (c *Client) FetchByCountry(ctx context.Context) ([]models.CountryRecord, error) {
	body, err := c.get(ctx, endpointCountries)
	if err != nil {
		return nil, err
	}
	records, err := decodeCountries(body, c.sanitizer)
	if err != nil {
		c.invalidate(endpointCountries)
		metrics.UpstreamErrors.WithLabelValues(endpointCountries, "parse").Inc()
		return nil, &ParseError{Endpoint: endpointCountries, Err: err}
	}
	return records, nil
}

// get returns the body for endpoint, from the cache when allowed.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.cache != nil {
		if forceRefresh(ctx) {
			metrics.UpstreamCacheResults.WithLabelValues("bypass").Inc()
		} else if body, ok := c.cache.Get(endpoint); ok {
			metrics.UpstreamCacheResults.WithLabelValues("hit").Inc()
			return body, nil
		} else {
			metrics.UpstreamCacheResults.WithLabelValues("miss").Inc()
		}
	}

	start := time.Now()
	body, err := c.doRequest(ctx, endpoint)
	kind := ""
	if err != nil {
		kind = "fetch"
	}
	metrics.RecordUpstreamRequest(endpoint, kind, time.Since(start))
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(endpoint, body)
	}
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, &FetchError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

func (c *Client) invalidate(endpoint string) {
	if c.cache != nil {
		c.cache.Delete(endpoint)
	}
}

// SweepCache drops expired responses and returns how many were removed.
func (c *Client) SweepCache() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Sweep()
}

// CacheStats reports the response cache counters. ok is false when caching
// is disabled.
func (c *Client) CacheStats() (stats cache.Stats, ok bool) {
	if c.cache == nil {
		return cache.Stats{}, false
	}
	return c.cache.Stats(), true
}
