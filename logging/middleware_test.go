package logging

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func newCapturingLogger() (*slog.Logger, *strings.Builder) {
	var out strings.Builder
	return slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})), &out
}

func TestRequestLoggerQuietPaths(t *testing.T) {
	logger, out := newCapturingLogger()
	handler := RequestLogger(logger, DefaultQuietPaths...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/health", "/metrics"} {
		out.Reset()
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

		if rr.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rr.Code)
		}
		if out.Len() != 0 {
			t.Errorf("Expected no logs for %s, got: %s", path, out.String())
		}
	}
}

func TestRequestLoggerFields(t *testing.T) {
	logger, out := newCapturingLogger()
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/chat?debug=1", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	logs := out.String()
	for _, want := range []string{"HTTP request", "request_id=req-1", "path=/chat", "query=debug=1", "status_code=201", "bytes_written=5", "level=INFO"} {
		if !strings.Contains(logs, want) {
			t.Errorf("Log should contain %q, got: %s", want, logs)
		}
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusBadGateway, "level=ERROR"},
	}

	for _, tt := range tests {
		logger, out := newCapturingLogger()
		handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/search", nil))

		if !strings.Contains(out.String(), tt.level) {
			t.Errorf("Status %d should log at %s, got: %s", tt.status, tt.level, out.String())
		}
	}
}

func TestRequestLoggerUnknownRequestID(t *testing.T) {
	logger, out := newCapturingLogger()
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/symptoms", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, 12345))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(out.String(), "request_id=unknown") {
		t.Errorf("Expected request_id=unknown, got: %s", out.String())
	}
}
