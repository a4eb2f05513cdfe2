package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/logging"
)

const (
	inventoryPath         = "/inventory"
	inventoryFallbackPath = "/inventory/medicines"
)

// flexBool accepts true/false, 0/1 and "Yes"/"No"
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.ToLower(string(data)), `"`)
	switch s {
	case "true", "yes", "y", "1":
		*b = true
	case "false", "no", "n", "0", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// flexNumber accepts a JSON number or a numeric string
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = flexNumber(v)
	return nil
}

// inventoryRow covers the column names the backend has used over time
type inventoryRow struct {
	ID                   *flexNumber `json:"id"`
	MedicineID           *flexNumber `json:"medicine_id"`
	Name                 string      `json:"name"`
	GenericName          string      `json:"generic_name"`
	BrandName            string      `json:"brand_name"`
	Category             string      `json:"category"`
	StockQuantity        *flexNumber `json:"stock_quantity"`
	Stock                *flexNumber `json:"stock"`
	UnitPrice            *flexNumber `json:"unit_price"`
	Price                *flexNumber `json:"price"`
	PrescriptionRequired flexBool    `json:"prescription_required"`
}

func firstNumber(values ...*flexNumber) float64 {
	for _, v := range values {
		if v != nil {
			return float64(*v)
		}
	}
	return 0
}

func (r inventoryRow) record() entities.MedicineRecord {
	stock := int(firstNumber(r.StockQuantity, r.Stock))
	if stock < 0 {
		stock = 0
	}
	price := firstNumber(r.UnitPrice, r.Price)
	if price < 0 {
		price = 0
	}
	return entities.MedicineRecord{
		ID:                   int(firstNumber(r.ID, r.MedicineID)),
		Name:                 strings.TrimSpace(r.Name),
		GenericName:          r.GenericName,
		BrandName:            r.BrandName,
		Category:             r.Category,
		StockQuantity:        stock,
		UnitPrice:            price,
		PrescriptionRequired: bool(r.PrescriptionRequired),
	}
}

// decodeInventory reads rows from a bare array or from an object carrying
// them under "medicines" or "data".
func decodeInventory(data json.RawMessage) ([]entities.MedicineRecord, error) {
	var rows []inventoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		var wrapped struct {
			Medicines []inventoryRow `json:"medicines"`
			Data      []inventoryRow `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode inventory: %w", err)
		}
		rows = wrapped.Medicines
		if rows == nil {
			rows = wrapped.Data
		}
	}

	records := make([]entities.MedicineRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.record()
		if rec.Name == "" {
			logging.Debug("Skipping inventory row without a name", "id", rec.ID)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetInventory fetches the full medicine list, trying the legacy path when
// the primary one fails.
func (c *Client) GetInventory(ctx context.Context) ([]entities.MedicineRecord, Envelope) {
	env := c.getJSON(ctx, inventoryPath)
	if !env.OK() {
		logging.Info("Primary inventory path failed, trying fallback", "message", env.Message)
		env = c.getJSON(ctx, inventoryFallbackPath)
	}
	if !env.OK() {
		return nil, env
	}

	records, err := decodeInventory(env.Data)
	if err != nil {
		return nil, errorEnvelope(KindServer, err.Error())
	}
	return records, env
}
