// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package sync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/config"
)

const globalJSON = `{"updated":1700000000000,"cases":700000000,"todayCases":1000,"deaths":7000000,
"todayDeaths":10,"recovered":600000000,"todayRecovered":500,"active":93000000,"affectedCountries":231}`

const countriesJSON = `[
 {"country":"USA","countryInfo":{"iso2":"US","iso3":"USA","lat":38,"long":-97,"flag":"https://disease.sh/assets/img/flags/us.png"},
  "cases":110000000,"deaths":1200000,"recovered":108000000,"active":800000,"tests":1180000000,"population":334805269},
 {"country":"Bosnia & Herzegovina","countryInfo":{"iso2":"BA","iso3":"BIH","lat":44,"long":18},
  "cases":403000,"deaths":16300,"recovered":386000,"active":700},
 {"country":"Diamond Princess","countryInfo":{"iso2":null,"iso3":null,"lat":0,"long":0},
  "cases":712,"deaths":13,"recovered":699,"active":0}
]`

type testServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func diseaseHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case endpointGlobal:
		_, _ = w.Write([]byte(globalJSON))
	case endpointCountries:
		_, _ = w.Write([]byte(countriesJSON))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(baseURL string, cacheTTL time.Duration) *Client {
	return NewClient(&config.SourceConfig{
		BaseURL:   baseURL,
		Timeout:   2 * time.Second,
		CacheTTL:  cacheTTL,
		UserAgent: "PandemicPulse-test",
	})
}

func TestClient_FetchGlobal(t *testing.T) {
	t.Parallel()

	var gotUA, gotQuery atomic.Value
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		gotQuery.Store(r.URL.RawQuery)
		diseaseHandler(w, r)
	})
	client := newTestClient(srv.URL, 0)

	snap, err := client.FetchGlobal(context.Background())
	if err != nil {
		t.Fatalf("FetchGlobal() error = %v", err)
	}
	if snap.TotalCases != 700000000 || snap.Deaths != 7000000 || snap.Recovered != 600000000 {
		t.Errorf("unexpected totals: %+v", snap)
	}
	if snap.ActiveCases != 93000000 {
		t.Errorf("ActiveCases = %d, want 93000000", snap.ActiveCases)
	}
	if snap.AffectedCountries != 231 {
		t.Errorf("AffectedCountries = %d, want 231", snap.AffectedCountries)
	}
	if want := time.UnixMilli(1700000000000).UTC(); !snap.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", snap.UpdatedAt, want)
	}
	checkStringEqual(t, "User-Agent", gotUA.Load().(string), "PandemicPulse-test")
	checkStringEqual(t, "query", gotQuery.Load().(string), "")
}

func TestClient_FetchGlobalYesterday(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		diseaseHandler(w, r)
	})
	client := newTestClient(srv.URL, time.Minute)

	if _, err := client.FetchGlobalYesterday(context.Background()); err != nil {
		t.Fatalf("FetchGlobalYesterday() error = %v", err)
	}
	checkStringEqual(t, "query", gotQuery.Load().(string), "yesterday=true")

	// Today's totals are cached under a different key.
	if _, err := client.FetchGlobal(context.Background()); err != nil {
		t.Fatalf("FetchGlobal() error = %v", err)
	}
	if got := srv.hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestClient_FetchByCountry(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, diseaseHandler)
	client := newTestClient(srv.URL, 0)

	records, err := client.FetchByCountry(context.Background())
	if err != nil {
		t.Fatalf("FetchByCountry() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	usa := records[0]
	checkStringEqual(t, "Name", usa.Name, "USA")
	checkStringEqual(t, "CountryCode", usa.CountryCode, "USA")
	checkStringEqual(t, "ISO2", usa.ISO2, "US")
	if usa.Population != 334805269 {
		t.Errorf("Population = %d", usa.Population)
	}
	if usa.Coordinates.Lat != 38 || usa.Coordinates.Lon != -97 {
		t.Errorf("Coordinates = %+v", usa.Coordinates)
	}

	checkStringEqual(t, "ampersand name", records[1].Name, "Bosnia & Herzegovina")
	checkStringEmpty(t, "unmapped code", records[2].CountryCode)
}

func TestClient_Cache(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, diseaseHandler)
	client := newTestClient(srv.URL, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.FetchByCountry(ctx); err != nil {
			t.Fatalf("FetchByCountry() error = %v", err)
		}
	}
	if got := srv.hits.Load(); got != 1 {
		t.Errorf("server hits after cached reads = %d, want 1", got)
	}

	if _, err := client.FetchByCountry(WithForceRefresh(ctx)); err != nil {
		t.Fatalf("forced FetchByCountry() error = %v", err)
	}
	if got := srv.hits.Load(); got != 2 {
		t.Errorf("server hits after forced read = %d, want 2", got)
	}
}

func TestClient_CacheDisabled(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, diseaseHandler)
	client := newTestClient(srv.URL, 0)

	for i := 0; i < 2; i++ {
		if _, err := client.FetchGlobal(context.Background()); err != nil {
			t.Fatalf("FetchGlobal() error = %v", err)
		}
	}
	if got := srv.hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestClient_CacheStatsAndSweep(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, diseaseHandler)

	disabled := newTestClient(srv.URL, 0)
	if _, ok := disabled.CacheStats(); ok {
		t.Error("CacheStats() ok = true with caching disabled")
	}
	if got := disabled.SweepCache(); got != 0 {
		t.Errorf("SweepCache() = %d with caching disabled, want 0", got)
	}

	client := newTestClient(srv.URL, time.Minute)
	if _, err := client.FetchGlobal(context.Background()); err != nil {
		t.Fatalf("FetchGlobal() error = %v", err)
	}
	stats, ok := client.CacheStats()
	if !ok {
		t.Fatal("CacheStats() ok = false with caching enabled")
	}
	if stats.Keys != 1 {
		t.Errorf("cached keys = %d, want 1", stats.Keys)
	}
	if got := client.SweepCache(); got != 0 {
		t.Errorf("SweepCache() = %d before expiry, want 0", got)
	}
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantFetch  bool
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream exploded", http.StatusInternalServerError)
			},
			wantFetch:  true,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantFetch:  true,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "html instead of json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>maintenance</html>"))
			},
		},
		{
			name: "missing cases",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"deaths":5}`))
			},
		},
		{
			name: "negative total",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"cases":-5,"deaths":1,"recovered":1}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t, tt.handler)
			client := newTestClient(srv.URL, time.Minute)

			_, err := client.FetchGlobal(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}

			var fe *FetchError
			var pe *ParseError
			if tt.wantFetch {
				if !errors.As(err, &fe) {
					t.Fatalf("error = %T %v, want *FetchError", err, err)
				}
				if fe.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.wantStatus)
				}
				return
			}
			if !errors.As(err, &pe) {
				t.Fatalf("error = %T %v, want *ParseError", err, err)
			}
			checkStringEqual(t, "Endpoint", pe.Endpoint, endpointGlobal)
		})
	}
}

func TestClient_ParseErrorNotCached(t *testing.T) {
	t.Parallel()

	var good atomic.Bool
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if good.Load() {
			diseaseHandler(w, r)
			return
		}
		_, _ = w.Write([]byte("not json"))
	})
	client := newTestClient(srv.URL, time.Minute)

	if _, err := client.FetchGlobal(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
	good.Store(true)
	if _, err := client.FetchGlobal(context.Background()); err != nil {
		t.Fatalf("FetchGlobal() after recovery error = %v", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newTestClient(url, 0)
	_, err := client.FetchByCountry(context.Background())

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %T %v, want *FetchError", err, err)
	}
	if fe.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", fe.StatusCode)
	}
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewClient(&config.SourceConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := client.FetchGlobal(context.Background())

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %T %v, want *FetchError", err, err)
	}
}

func TestReadBodyForError_Truncates(t *testing.T) {
	t.Parallel()

	body := readBodyForError(strings.NewReader(strings.Repeat("x", maxErrorBodySize+10)))
	if !strings.HasSuffix(string(body), "(truncated)") {
		t.Error("expected truncation marker")
	}
	if got := readBodyForError(strings.NewReader("short")); string(got) != "short" {
		t.Errorf("readBodyForError() = %q", got)
	}
}
