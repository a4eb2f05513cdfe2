// Package scheduler keeps the medicine catalog fresh. It loads the upstream
// inventory at startup and at fixed times of day, replacing the catalog
// wholesale, and falls back to the seed catalog when nothing was ever loaded.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/pharmly/catalog"
	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/interfaces"
	"github.com/giygas/pharmly/logging"
	"github.com/giygas/pharmly/metrics"
	"github.com/giygas/pharmly/validation"
	"github.com/go-co-op/gocron"
	"golang.org/x/sync/singleflight"
)

var (
	_ interfaces.Scheduler        = (*Scheduler)(nil)
	_ interfaces.CatalogRefresher = (*Scheduler)(nil)
)

const (
	// DefaultRefreshTimes are the daily refresh times in gocron At() syntax
	DefaultRefreshTimes = "06:00;18:00"

	refreshTimeout = 30 * time.Second
	staleAfter     = 25 * time.Hour
)

// Scheduler refreshes the catalog store from the inventory source
type Scheduler struct {
	store     interfaces.CatalogStore
	source    interfaces.InventorySource
	validator interfaces.DataValidator
	times     string

	scheduler *gocron.Scheduler
	group     singleflight.Group
	stop      chan struct{}
}

// NewScheduler creates a scheduler. An empty times string uses DefaultRefreshTimes.
func NewScheduler(store interfaces.CatalogStore, source interfaces.InventorySource, times string) *Scheduler {
	if times == "" {
		times = DefaultRefreshTimes
	}
	return &Scheduler{
		store:     store,
		source:    source,
		validator: validation.NewDataValidator(),
		times:     times,
		scheduler: gocron.NewScheduler(time.Local),
		stop:      make(chan struct{}),
	}
}

// Start performs the initial load and schedules the daily refreshes. An
// unreachable upstream is not fatal: the catalog then serves seed data.
func (s *Scheduler) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	source, err := s.Refresh(ctx)
	cancel()
	if err != nil {
		logging.Warn("Initial catalog load failed", "error", err, "source", string(source))
	}

	_, err = s.scheduler.Every(1).Days().At(s.times).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if _, err := s.Refresh(ctx); err != nil {
			logging.Error("Failed to refresh catalog", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule catalog refreshes", "error", err)
		return fmt.Errorf("failed to schedule catalog refreshes: %w", err)
	}

	s.scheduler.StartAsync()
	go s.monitor()

	return nil
}

// Stop stops the scheduled refreshes and the staleness monitor
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// NextRun is the time of the next scheduled refresh, zero before Start
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

// Refresh reloads the catalog. Concurrent callers share one upstream call.
// It returns the source the catalog serves afterwards.
func (s *Scheduler) Refresh(ctx context.Context) (entities.CatalogSource, error) {
	ch := s.group.DoChan("catalog", func() (any, error) {
		return s.refresh(ctx)
	})

	select {
	case <-ctx.Done():
		return s.store.Source(), ctx.Err()
	case res := <-ch:
		return res.Val.(entities.CatalogSource), res.Err
	}
}

func (s *Scheduler) refresh(ctx context.Context) (entities.CatalogSource, error) {
	if !s.store.BeginUpdate() {
		logging.Info("Catalog refresh already in progress, skipping...")
		return s.store.Source(), nil
	}
	defer s.store.EndUpdate()

	logging.Info("Starting catalog refresh")
	start := time.Now()

	records, env := s.source.GetInventory(ctx)
	err := s.check(records, env.OK(), env.Message)
	if err != nil {
		if s.store.Source() == catalog.SourceEmpty {
			s.store.Replace(catalog.Seed(), catalog.SourceSeed)
			s.record(catalog.SourceSeed)
			logging.Warn("Serving seed catalog", "reason", err.Error())
		} else {
			metrics.CatalogRefreshTotal.WithLabelValues("failed").Inc()
		}
		return s.store.Source(), err
	}

	s.store.Replace(records, catalog.SourceUpstream)
	s.record(catalog.SourceUpstream)

	logging.Info("Catalog refresh completed",
		"duration", time.Since(start).String(),
		"medicine_count", len(records),
	)
	return catalog.SourceUpstream, nil
}

func (s *Scheduler) check(records []entities.MedicineRecord, ok bool, message string) error {
	if !ok {
		return fmt.Errorf("inventory unavailable: %s", message)
	}
	if err := s.validator.ValidateCatalog(records); err != nil {
		return fmt.Errorf("inventory rejected: %w", err)
	}
	return nil
}

func (s *Scheduler) record(source entities.CatalogSource) {
	metrics.CatalogRefreshTotal.WithLabelValues(string(source)).Inc()
	metrics.CatalogMedicines.Set(float64(len(s.store.Records())))
}

// monitor warns when the catalog has not been refreshed for a day
func (s *Scheduler) monitor() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.store.Source() != catalog.SourceUpstream || time.Since(s.store.LastUpdated()) > staleAfter {
				logging.Warn("Catalog hasn't been refreshed from upstream in over 25 hours",
					"source", string(s.store.Source()),
					"last_updated", s.store.LastUpdated().Format(time.RFC3339),
				)
			}
		}
	}
}
