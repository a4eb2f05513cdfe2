// Package catalog provides the in-memory medicine catalog with atomic
// wholesale replacement, plus the static reference tables the assistant
// consults (substitutes, stock tiers, demo seed data).
package catalog

import (
	"sync/atomic"
	"time"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/interfaces"
	"github.com/giygas/pharmly/logging"
)

var _ interfaces.CatalogStore = (*Store)(nil)

// Source tells where the current catalog came from
type Source = entities.CatalogSource

const (
	SourceEmpty    Source = "empty"
	SourceSeed     Source = "seed"
	SourceUpstream Source = "upstream"
)

// Store holds the catalog behind atomic pointers so readers never block a
// refresh and a refresh never exposes a half-built list.
type Store struct {
	records     atomic.Value // []entities.MedicineRecord
	byID        atomic.Value // map[int]entities.MedicineRecord
	source      atomic.Value // Source
	lastUpdated atomic.Value // time.Time
	updating    atomic.Bool
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{}
	s.records.Store(make([]entities.MedicineRecord, 0))
	s.byID.Store(make(map[int]entities.MedicineRecord))
	s.source.Store(SourceEmpty)
	s.lastUpdated.Store(time.Time{})
	return s
}

// NewSeededStore creates a store preloaded with the demo catalog
func NewSeededStore() *Store {
	s := NewStore()
	s.Replace(Seed(), SourceSeed)
	return s
}

// Records returns the current catalog. Callers must not modify the slice.
func (s *Store) Records() []entities.MedicineRecord {
	if v := s.records.Load(); v != nil {
		if records, ok := v.([]entities.MedicineRecord); ok {
			return records
		}
	}

	logging.Warn("Catalog records are empty or invalid")
	return []entities.MedicineRecord{}
}

// Get looks a record up by ID
func (s *Store) Get(id int) (entities.MedicineRecord, bool) {
	if v := s.byID.Load(); v != nil {
		if byID, ok := v.(map[int]entities.MedicineRecord); ok {
			rec, found := byID[id]
			return rec, found
		}
	}
	return entities.MedicineRecord{}, false
}

// Source reports where the current records came from
func (s *Store) Source() Source {
	if v, ok := s.source.Load().(Source); ok {
		return v
	}
	return SourceEmpty
}

// LastUpdated returns the time of the last Replace
func (s *Store) LastUpdated() time.Time {
	if v, ok := s.lastUpdated.Load().(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Replace swaps the whole catalog. There is no partial merge: a match
// computed against the previous list stays valid only for that call.
func (s *Store) Replace(records []entities.MedicineRecord, source Source) {
	if records == nil {
		records = make([]entities.MedicineRecord, 0)
	}

	byID := make(map[int]entities.MedicineRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	s.records.Store(records)
	s.byID.Store(byID)
	s.source.Store(source)
	s.lastUpdated.Store(time.Now())
}

// IsUpdating reports whether a refresh is running
func (s *Store) IsUpdating() bool {
	return s.updating.Load()
}

// BeginUpdate returns false when another refresh is already running
func (s *Store) BeginUpdate() bool {
	return s.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the refresh as finished
func (s *Store) EndUpdate() {
	s.updating.Store(false)
}

// Summary counts the current records per stock tier
func (s *Store) Summary() entities.StockSummary {
	return Summarize(s.Records())
}
