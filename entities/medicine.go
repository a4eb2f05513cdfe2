// Package entities holds the data model shared by the assistant packages.
package entities

// MedicineRecord is one catalog entry. Records are reference data: the catalog
// replaces them wholesale and never edits one in place.
type MedicineRecord struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	GenericName          string  `json:"genericName"`
	BrandName            string  `json:"brandName"`
	Category             string  `json:"category"`
	StockQuantity        int     `json:"stockQuantity"`
	UnitPrice            float64 `json:"unitPrice"`
	PrescriptionRequired bool    `json:"prescriptionRequired"`
}

// PrescriptionLabel renders the prescription flag the way the pharmacy UI shows it.
func (m MedicineRecord) PrescriptionLabel() string {
	if m.PrescriptionRequired {
		return "Yes"
	}
	return "No"
}

// Substitute is a cheaper generic alternative for a branded or generic name.
type Substitute struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	SavingsPercent int     `json:"savingsPercent"`
}

// SubstituteEntry groups substitutes under the lookup key they are found by.
type SubstituteEntry struct {
	Key          string       `json:"key"`
	Alternatives []Substitute `json:"alternatives"`
}

// StockSummary counts catalog records per stock tier.
type StockSummary struct {
	InStock  int `json:"inStock"`
	Low      int `json:"low"`
	Critical int `json:"critical"`
}

// CatalogSource tells where a catalog was loaded from.
type CatalogSource string
