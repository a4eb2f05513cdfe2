package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/pharmly/commands"
	"github.com/giygas/pharmly/config"
	"github.com/giygas/pharmly/handlers"
	"github.com/giygas/pharmly/logging"
)

type stubHealth struct{}

func (stubHealth) HealthCheck() (string, map[string]any, int) {
	return "healthy", map[string]any{}, http.StatusOK
}

func (stubHealth) NextRefresh() time.Time { return time.Time{} }

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Address:        "127.0.0.1",
		Env:            config.EnvTest,
		MaxRequestBody: 1024,
		MaxHeaderSize:  4096,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logging.InitLogger("")

	registry := commands.NewRegistry()
	registry.Register(commands.CmdSearch, func(_ context.Context, payload json.RawMessage) (any, error) {
		return []string{}, nil
	})
	registry.Register(commands.CmdSend, func(_ context.Context, payload json.RawMessage) (any, error) {
		return commands.SendOutput{ConversationID: "c1"}, nil
	})

	s := NewServer(testConfig(), handlers.NewHTTPHandler(registry, stubHealth{}, 0))
	t.Cleanup(s.limiter.Stop)
	return s
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)

	testCases := []struct {
		method   string
		path     string
		body     string
		wantCode int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/search?q=para", "", http.StatusOK},
		{http.MethodPost, "/chat", `{"message":"hi"}`, http.StatusOK},
		{http.MethodGet, "/commands", "", http.StatusOK},
		{http.MethodGet, "/nowhere", "", http.StatusNotFound},
		{http.MethodGet, "/chat", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, req)

			if rr.Code != tc.wantCode {
				t.Errorf("Expected status %d, got %d", tc.wantCode, rr.Code)
			}
		})
	}
}

func TestMetricsExposeHTTPCounters(t *testing.T) {
	s := newTestServer(t)

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "pharmly_http_requests_total") {
		t.Error("Expected pharmly_http_requests_total in /metrics output")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://pharmly.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
}

func TestServerLifecycle(t *testing.T) {
	s := newTestServer(t)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start should return nil after shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown")
	}
}
