package catalog

import (
	"sync"
	"testing"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/logging"
)

func TestNewStore(t *testing.T) {
	logging.InitLogger("")

	s := NewStore()

	if s.IsUpdating() {
		t.Error("NewStore should not be updating")
	}
	if !s.LastUpdated().IsZero() {
		t.Error("NewStore should have zero lastUpdated time")
	}
	if len(s.Records()) != 0 {
		t.Error("NewStore should have no records")
	}
	if s.Source() != SourceEmpty {
		t.Errorf("Expected source %q, got %q", SourceEmpty, s.Source())
	}
}

func TestNewSeededStore(t *testing.T) {
	s := NewSeededStore()

	if len(s.Records()) != len(Seed()) {
		t.Errorf("Expected %d records, got %d", len(Seed()), len(s.Records()))
	}
	if s.Source() != SourceSeed {
		t.Errorf("Expected source %q, got %q", SourceSeed, s.Source())
	}

	rec, ok := s.Get(4)
	if !ok || rec.Name != "Amoxicillin 500mg" {
		t.Errorf("Expected Amoxicillin 500mg for ID 4, got %+v", rec)
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	s := NewSeededStore()
	before := s.Records()

	s.Replace([]entities.MedicineRecord{{ID: 100, Name: "Zinc 50mg", StockQuantity: 3}}, SourceUpstream)

	if len(s.Records()) != 1 {
		t.Fatalf("Expected 1 record after replace, got %d", len(s.Records()))
	}
	if _, ok := s.Get(1); ok {
		t.Error("Old records should not survive a replace")
	}
	if s.Source() != SourceUpstream {
		t.Errorf("Expected source %q, got %q", SourceUpstream, s.Source())
	}
	if s.LastUpdated().IsZero() {
		t.Error("LastUpdated should be set after Replace")
	}

	// a slice read before the swap is untouched
	if len(before) != len(Seed()) {
		t.Errorf("Previously read slice changed length to %d", len(before))
	}
}

func TestReplaceNil(t *testing.T) {
	s := NewSeededStore()
	s.Replace(nil, SourceUpstream)

	if s.Records() == nil {
		t.Fatal("Records should never be nil")
	}
	if len(s.Records()) != 0 {
		t.Errorf("Expected empty catalog, got %d", len(s.Records()))
	}
}

func TestBeginUpdateEndUpdate(t *testing.T) {
	s := NewStore()

	if !s.BeginUpdate() {
		t.Error("BeginUpdate should return true first time")
	}
	if !s.IsUpdating() {
		t.Error("Should be updating after BeginUpdate")
	}
	if s.BeginUpdate() {
		t.Error("BeginUpdate should return false when already updating")
	}

	s.EndUpdate()

	if s.IsUpdating() {
		t.Error("Should not be updating after EndUpdate")
	}
	if !s.BeginUpdate() {
		t.Error("BeginUpdate should return true after EndUpdate")
	}
	s.EndUpdate()
}

func TestConcurrentReadsDuringReplace(t *testing.T) {
	s := NewSeededStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			records := s.Records()
			if len(records) != len(Seed()) && len(records) != 1 {
				t.Errorf("Observed a partial catalog of %d records", len(records))
			}
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.Replace(Seed(), SourceSeed)
			} else {
				s.Replace([]entities.MedicineRecord{{ID: 1, Name: "Only"}}, SourceUpstream)
			}
		}(i)
	}
	wg.Wait()
}

func TestStockTier(t *testing.T) {
	tests := []struct {
		quantity int
		tier     Tier
		label    string
	}{
		{82, TierInStock, "🟢 In Stock"},
		{11, TierInStock, "🟢 In Stock"},
		{10, TierLow, "🟡 Low Stock"},
		{4, TierLow, "🟡 Low Stock"},
		{3, TierCritical, "🔴 Critical"},
		{0, TierCritical, "🔴 Critical"},
	}

	for _, tt := range tests {
		tier := StockTier(tt.quantity)
		if tier != tt.tier {
			t.Errorf("StockTier(%d) = %s, want %s", tt.quantity, tier, tt.tier)
		}
		if tier.Label() != tt.label {
			t.Errorf("Label for %d = %q, want %q", tt.quantity, tier.Label(), tt.label)
		}
	}
}

func TestSummary(t *testing.T) {
	s := NewStore()
	s.Replace([]entities.MedicineRecord{
		{ID: 1, StockQuantity: 50},
		{ID: 2, StockQuantity: 8},
		{ID: 3, StockQuantity: 2},
		{ID: 4, StockQuantity: 3},
	}, SourceUpstream)

	summary := s.Summary()
	if summary.InStock != 1 || summary.Low != 1 || summary.Critical != 2 {
		t.Errorf("Unexpected summary %+v", summary)
	}
}

func TestSearchBadge(t *testing.T) {
	if b := SearchBadge(16); b.Class != "in" || b.Text != "✅ 16 in stock" {
		t.Errorf("Unexpected badge %+v", b)
	}
	if b := SearchBadge(15); b.Class != "low" || b.Text != "⚠️ 15 left" {
		t.Errorf("Unexpected badge %+v", b)
	}
	if b := SearchBadge(3); b.Class != "out" {
		t.Errorf("Unexpected badge %+v", b)
	}
}
