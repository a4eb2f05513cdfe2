package catalog

import (
	"fmt"

	"github.com/giygas/pharmly/entities"
)

// Tier is a three-level stock status
type Tier string

const (
	TierInStock  Tier = "in_stock"
	TierLow      Tier = "low"
	TierCritical Tier = "critical"
)

// StockTier classifies a quantity: above 10 in stock, above 3 low, else critical.
func StockTier(quantity int) Tier {
	switch {
	case quantity > 10:
		return TierInStock
	case quantity > 3:
		return TierLow
	default:
		return TierCritical
	}
}

// Label is the user-facing status text
func (t Tier) Label() string {
	switch t {
	case TierInStock:
		return "🟢 In Stock"
	case TierLow:
		return "🟡 Low Stock"
	default:
		return "🔴 Critical"
	}
}

// Summarize counts records per tier
func Summarize(records []entities.MedicineRecord) entities.StockSummary {
	var summary entities.StockSummary
	for _, rec := range records {
		switch StockTier(rec.StockQuantity) {
		case TierInStock:
			summary.InStock++
		case TierLow:
			summary.Low++
		default:
			summary.Critical++
		}
	}
	return summary
}

// Badge is the search dropdown stock decoration. It uses its own thresholds
// (15 and 3), which differ from StockTier.
type Badge struct {
	Class string `json:"class"`
	Text  string `json:"text"`
}

// SearchBadge decorates a search result with availability
func SearchBadge(quantity int) Badge {
	switch {
	case quantity > 15:
		return Badge{Class: "in", Text: fmt.Sprintf("✅ %d in stock", quantity)}
	case quantity > 3:
		return Badge{Class: "low", Text: fmt.Sprintf("⚠️ %d left", quantity)}
	default:
		return Badge{Class: "out", Text: "❌ Out of stock"}
	}
}
