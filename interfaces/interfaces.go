// Package interfaces defines the seams between the assistant packages so
// each one can be tested against hand-written fakes.
package interfaces

import (
	"context"
	"time"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/upstream"
)

// CatalogStore is the in-memory medicine catalog. Replace swaps the whole
// list; readers never observe a partial update.
type CatalogStore interface {
	Records() []entities.MedicineRecord
	Get(id int) (entities.MedicineRecord, bool)
	Source() entities.CatalogSource
	LastUpdated() time.Time
	Summary() entities.StockSummary

	Replace(records []entities.MedicineRecord, source entities.CatalogSource)
	BeginUpdate() bool
	EndUpdate()
	IsUpdating() bool
}

// InventorySource loads the full medicine list from the backend
type InventorySource interface {
	GetInventory(ctx context.Context) ([]entities.MedicineRecord, upstream.Envelope)
}

// OrderBackend places orders and verifies prescriptions
type OrderBackend interface {
	CreateOrder(ctx context.Context, order upstream.OrderRequest) upstream.Envelope
	VerifyPrescription(ctx context.Context, req upstream.VerificationRequest) upstream.Envelope
	UploadPrescription(ctx context.Context, customerID string, medicineID int, file upstream.PrescriptionFile) upstream.Envelope
}

// DashboardBackend serves the read-only analytics pass-throughs and the admin
// stock adjustment
type DashboardBackend interface {
	UserMetrics(ctx context.Context, customerID string) upstream.Envelope
	CustomerHistory(ctx context.Context, customerID string) upstream.Envelope
	Admin(ctx context.Context, report string) upstream.Envelope
	UpdateStock(ctx context.Context, medicineID, delta int) upstream.Envelope
}

// AuthBackend exchanges credentials for a token
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (upstream.LoginResult, upstream.Envelope)
}

// SupportBackend forwards free-form questions to the backend support agent
type SupportBackend interface {
	SupportChat(ctx context.Context, customerID, message string) upstream.Envelope
}

// Backend is everything the service consumes from the upstream API
type Backend interface {
	InventorySource
	OrderBackend
	DashboardBackend
	AuthBackend
	SupportBackend
}

// SessionStore persists the backend credential
type SessionStore interface {
	upstream.TokenSource
	Current() entities.SessionAuth
	Save(auth entities.SessionAuth) error
	Clear() error
}

// CatalogRefresher reloads the catalog wholesale
type CatalogRefresher interface {
	Refresh(ctx context.Context) (entities.CatalogSource, error)
}

// Scheduler runs the periodic catalog refresh
type Scheduler interface {
	Start() error
	Stop()
}

// DataValidator checks user input and upstream data. Input checks return the
// trimmed value on success.
type DataValidator interface {
	ValidateMessage(message string) (string, error)
	ValidateSearchQuery(query string) (string, error)
	ValidateLogin(email, password string) error
	ValidateID(field, value string) (string, error)
	ValidateMedicineID(input string) (int, error)
	ValidateQuantity(quantity int) error
	ValidateDrugList(names []string) ([]string, error)
	ValidateCatalog(records []entities.MedicineRecord) error
	ValidateRecord(rec entities.MedicineRecord) error
}

// HealthChecker reports service health with the HTTP status to answer
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
	NextRefresh() time.Time
}
