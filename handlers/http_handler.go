// Package handlers serves the assistant's HTTP endpoints. Every endpoint except
// health goes through the command registry so the CLI and HTTP share one path.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/pharmly/commands"
	"github.com/giygas/pharmly/interfaces"
)

// DefaultMaxUpload bounds a prescription scan held in memory
const DefaultMaxUpload = 5 * 1024 * 1024

// HTTPHandlerImpl holds the dependencies of the HTTP endpoints
type HTTPHandlerImpl struct {
	commands  *commands.Registry
	health    interfaces.HealthChecker
	maxUpload int64
	started   time.Time
}

// NewHTTPHandler creates the handler set. maxUpload <= 0 uses DefaultMaxUpload.
func NewHTTPHandler(registry *commands.Registry, health interfaces.HealthChecker, maxUpload int64) *HTTPHandlerImpl {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &HTTPHandlerImpl{
		commands:  registry,
		health:    health,
		maxUpload: maxUpload,
		started:   time.Now(),
	}
}

// HealthResponse keeps a stable JSON field order
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// HealthCheck reports catalog freshness plus process statistics
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, code := h.health.HealthCheck()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	RespondWithJSON(w, r, code, HealthResponse{
		Status: status,
		Data:   data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory_mb":  m.Alloc / 1024 / 1024,
			"uptime":     formatUptimeHuman(time.Since(h.started)),
		},
	})
}

// ListCommands returns the registered command names
func (h *HTTPHandlerImpl) ListCommands(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, map[string]any{"commands": h.commands.Names()})
}

// execute runs a command and writes its result or mapped error
func (h *HTTPHandlerImpl) execute(w http.ResponseWriter, r *http.Request, name string, payload any, okStatus int) {
	raw, ok := payload.(json.RawMessage)
	if !ok {
		data, err := json.Marshal(payload)
		if err != nil {
			RespondWithErr(w, r, fmt.Errorf("failed to encode %s payload: %w", name, err))
			return
		}
		raw = data
	}

	result, err := h.commands.Execute(r.Context(), name, raw)
	if err != nil {
		if errors.Is(r.Context().Err(), context.Canceled) {
			return
		}
		RespondWithErr(w, r, err)
		return
	}
	RespondWithJSON(w, r, okStatus, result)
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
