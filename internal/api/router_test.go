// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/pandemicpulse/internal/dashboard"
	"github.com/tomtom215/pandemicpulse/internal/middleware"
	ws "github.com/tomtom215/pandemicpulse/internal/websocket"
)

func newTestRouter(t *testing.T, store *dashboard.Store, refresher Refresher, hub *ws.Hub) http.Handler {
	t.Helper()
	cfg := testConfig()
	h := NewHandler(store, refresher, cfg, hub, "test")
	return NewRouter(h, cfg).SetupChi()
}

func serve(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, loadedStore(), &fakeRefresher{}, nil)

	tests := []struct {
		method   string
		target   string
		wantCode int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/v1/dashboard", http.StatusOK},
		{http.MethodGet, "/api/v1/dashboard?theme=light", http.StatusOK},
		{http.MethodGet, "/api/v1/countries?limit=1", http.StatusOK},
		{http.MethodGet, "/api/v1/charts/bar.png", http.StatusOK},
		{http.MethodGet, "/api/v1/charts/donut.png", http.StatusOK},
		{http.MethodGet, "/api/v1/charts/map.png", http.StatusNotFound},
		{http.MethodPost, "/api/v1/refresh", http.StatusAccepted},
		{http.MethodGet, "/api/v1/refresh", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/ws", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/health/live", http.StatusOK},
		{http.MethodGet, "/api/v1/health/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/health/performance", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			t.Parallel()
			rec := serve(router, tt.method, tt.target)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request ID header")
			}
		})
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, loadedStore(), nil, nil)
	rec := serve(router, http.MethodGet, "/api/v1/dashboard")

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRouter_RefreshRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RefreshRateLimit = 1
	h := NewHandler(loadedStore(), &fakeRefresher{}, cfg, nil, "test")
	router := NewRouter(h, cfg).SetupChi()

	if rec := serve(router, http.MethodPost, "/api/v1/refresh"); rec.Code != http.StatusAccepted {
		t.Fatalf("first refresh = %d, want 202", rec.Code)
	}
	rec := serve(router, http.MethodPost, "/api/v1/refresh")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second refresh = %d, want 429", rec.Code)
	}
	resp, _ := decodeEnvelope(t, rec.Body.Bytes())
	if resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", resp.Error)
	}

	// Other API routes keep their own budget.
	if rec := serve(router, http.MethodGet, "/api/v1/dashboard"); rec.Code != http.StatusOK {
		t.Errorf("dashboard after refresh limit = %d", rec.Code)
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RefreshRateLimit = 1
	cfg.Security.RateLimitDisabled = true
	h := NewHandler(loadedStore(), &fakeRefresher{}, cfg, nil, "test")
	router := NewRouter(h, cfg).SetupChi()

	for i := 0; i < 3; i++ {
		if rec := serve(router, http.MethodPost, "/api/v1/refresh"); rec.Code != http.StatusAccepted {
			t.Fatalf("refresh %d = %d, want 202", i, rec.Code)
		}
	}
}

func TestRouter_Compression(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, loadedStore(), nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/charts/bar.png", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("PNG Content-Encoding = %q, want none", got)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, loadedStore(), nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/dashboard", nil)
	req.Header.Set("Origin", "https://allowed.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://allowed.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestWebSocket_GreetingAndBroadcast(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	server := httptest.NewServer(newTestRouter(t, loadedStore(), nil, hub))
	defer server.Close()

	header := http.Header{}
	header.Set("Origin", server.URL)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.Body != nil {
		_ = resp.Body.Close()
	}

	greeting := readWSMessage(t, conn)
	if greeting.Type != ws.MessageTypeStatus {
		t.Fatalf("first message = %q, want %q", greeting.Type, ws.MessageTypeStatus)
	}
	data, ok := greeting.Data.(map[string]interface{})
	if !ok || data["has_data"] != true {
		t.Errorf("greeting data = %#v", greeting.Data)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	hub.BroadcastJSON(ws.MessageTypeRefreshed, map[string]int{"countries": 3})

	msg := readWSMessage(t, conn)
	if msg.Type != ws.MessageTypeRefreshed {
		t.Errorf("broadcast type = %q", msg.Type)
	}
}

func TestWebSocket_RejectsForeignOrigin(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	server := httptest.NewServer(newTestRouter(t, loadedStore(), nil, hub))
	defer server.Close()

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("dial succeeded from a foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()

	h := newTestHandler(loadedStore(), nil)
	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"missing", "", false},
		{"same host", "http://example.com", true},
		{"configured", "https://allowed.example", true},
		{"foreign", "https://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := h.checkWebSocketOrigin(req); got != tt.want {
			t.Errorf("%s: checkWebSocketOrigin = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func readWSMessage(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ws.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return msg
}
