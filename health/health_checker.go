// Package health derives the service health from catalog freshness.
package health

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/giygas/pharmly/catalog"
	"github.com/giygas/pharmly/interfaces"
)

var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store   interfaces.CatalogStore
	refresh []clock
	started time.Time
	now     func() time.Time
}

type clock struct{ hour, minute int }

// NewHealthChecker creates a health checker. refreshTimes uses the scheduler
// syntax ("06:00;18:00"); unparsable entries are ignored.
func NewHealthChecker(store interfaces.CatalogStore, refreshTimes string) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		store:   store,
		refresh: parseTimes(refreshTimes),
		started: time.Now(),
		now:     time.Now,
	}
}

// HealthCheck returns the status for the /health endpoint. A seed catalog is
// usable but degraded; an empty or stale one is unhealthy.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	records := h.store.Records()
	source := h.store.Source()
	lastUpdate := h.store.LastUpdated()
	isUpdating := h.store.IsUpdating()

	dataAge := h.now().Sub(lastUpdate)

	switch {
	case len(records) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case source == catalog.SourceSeed:
		status = "degraded"
		httpStatus = http.StatusOK

	case dataAge > 48*time.Hour:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 24*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case isUpdating && dataAge > 6*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"catalog_source": string(source),
		"medicines":      len(records),
		"stock":          catalog.Summarize(records),
		"is_updating":    isUpdating,
		"uptime_seconds": math.Round(h.now().Sub(h.started).Seconds()),
	}
	if !lastUpdate.IsZero() {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["data_age_hours"] = math.Round(dataAge.Hours()*10) / 10
	}
	if next := h.NextRefresh(); !next.IsZero() {
		data["next_refresh"] = next.Format(time.RFC3339)
	}

	return status, data, httpStatus
}

// NextRefresh returns the next configured refresh time after now
func (h *HealthCheckerImpl) NextRefresh() time.Time {
	if len(h.refresh) == 0 {
		return time.Time{}
	}

	now := h.now()
	for _, c := range h.refresh {
		t := time.Date(now.Year(), now.Month(), now.Day(), c.hour, c.minute, 0, 0, now.Location())
		if t.After(now) {
			return t
		}
	}

	first := h.refresh[0]
	return time.Date(now.Year(), now.Month(), now.Day()+1, first.hour, first.minute, 0, 0, now.Location())
}

func parseTimes(s string) []clock {
	var out []clock
	for _, part := range strings.Split(s, ";") {
		hh, mm, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		hour, err1 := strconv.Atoi(hh)
		minute, err2 := strconv.Atoi(mm)
		if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			continue
		}
		out = append(out, clock{hour, minute})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].hour != out[j].hour {
			return out[i].hour < out[j].hour
		}
		return out[i].minute < out[j].minute
	})
	return out
}
