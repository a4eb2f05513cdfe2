package handlers

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/pharmly/commands"
	"github.com/giygas/pharmly/logging"
	"github.com/giygas/pharmly/state"
	"github.com/giygas/pharmly/validation"
)

// Minimum response size to consider compression (1KB)
const compressionThreshold = 1024

// RespondWithJSON writes a JSON response, gzipped when the client accepts it
// and the body is large enough to be worth it
func RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))

	acceptsGzip := r != nil && strings.Contains(strings.ToLower(r.Header.Get("Accept-Encoding")), "gzip")
	if acceptsGzip && len(data) >= compressionThreshold {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		w.WriteHeader(code)

		gz := gzip.NewWriter(w)
		defer gz.Close()
		if _, err := gz.Write(data); err != nil {
			logging.Warn("Failed to write compressed response", "error", err)
		}
		return
	}

	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	RespondWithJSON(w, r, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// RespondWithErr maps a command error to its HTTP status. Internal errors are
// logged and answered without detail.
func RespondWithErr(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logging.Error("Command failed", "path", r.URL.Path, "error", err)
		message = "Internal server error"
	}
	RespondWithError(w, r, code, message)
}

// StatusFor returns the HTTP status for a command error
func StatusFor(err error) int {
	var (
		vErr *validation.ValidationError
		pErr *commands.PayloadError
		uErr *commands.UpstreamError
	)

	switch {
	case errors.As(err, &vErr), errors.As(err, &pErr):
		return http.StatusBadRequest
	case errors.Is(err, commands.ErrNotFound), errors.Is(err, commands.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, commands.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &uErr):
		return http.StatusBadGateway
	case errors.Is(err, state.ErrTooManyConversations):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
