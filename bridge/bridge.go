// Package bridge turns resolved intents into backend calls and folds the
// outcome back into the conversation state. Its operations never fail: every
// path ends in a result carrying a message fit for the user.
package bridge

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/interfaces"
	"github.com/giygas/pharmly/logging"
	"github.com/giygas/pharmly/metrics"
	"github.com/giygas/pharmly/state"
	"github.com/giygas/pharmly/upstream"
	"github.com/giygas/pharmly/validation"
	"github.com/google/uuid"
)

var validator = validation.NewDataValidator()

const (
	// DefaultVerifyDelay is the simulated processing time of a verification
	DefaultVerifyDelay = 2 * time.Second

	placeholderPrefix  = "LOCAL-"
	orderFailedMessage = "Order failed."
)

// Bridge wraps the order and prescription backends
type Bridge struct {
	backend     interfaces.OrderBackend
	verifyDelay time.Duration
}

// New creates a bridge. verifyDelay is waited before a verification result
// is applied; zero disables it.
func New(backend interfaces.OrderBackend, verifyDelay time.Duration) *Bridge {
	return &Bridge{backend: backend, verifyDelay: verifyDelay}
}

// OrderResult is the outcome of an order placement
type OrderResult struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"orderId,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
	Medicine    string `json:"medicine"`
	Quantity    int    `json:"quantity"`
	Message     string `json:"message"`
}

// PlaceOrder sends the order and renders its confirmation or failure
func (b *Bridge) PlaceOrder(ctx context.Context, customerID string, rec entities.MedicineRecord, quantity int) OrderResult {
	result := OrderResult{Medicine: rec.Name, Quantity: quantity}

	if err := validator.ValidateQuantity(quantity); err != nil {
		result.Message = fmt.Sprintf("%s Please order between 1 and %d units.", orderFailedMessage, validation.MaxQuantity)
		metrics.OrderTotal.WithLabelValues("rejected").Inc()
		logging.Warn("Order rejected before placement", "medicine_id", rec.ID, "error", err)
		return result
	}

	env := b.backend.CreateOrder(ctx, upstream.OrderRequest{
		CustomerID: customerID,
		MedicineID: rec.ID,
		Quantity:   quantity,
	})

	if !env.OK() {
		result.Message = env.Message
		if result.Message == "" {
			result.Message = orderFailedMessage
		}
		metrics.OrderTotal.WithLabelValues("failure").Inc()
		logging.Warn("Order placement failed",
			"medicine_id", rec.ID,
			"quantity", quantity,
			"kind", string(env.Kind),
			"message", env.Message,
		)
		return result
	}

	result.Success = true
	result.OrderID = upstream.OrderID(env)
	if result.OrderID == "" {
		result.OrderID = placeholderPrefix + strings.ToUpper(uuid.NewString()[:8])
		result.Placeholder = true
	}
	result.Message = fmt.Sprintf("✅ Order Confirmed!\n\n• Medicine: %s\n• Quantity: %d\n• Order ID: %s\n\nYour pharmacy has been notified.",
		rec.Name, quantity, result.OrderID)

	metrics.OrderTotal.WithLabelValues("success").Inc()
	logging.Info("Order placed", "medicine_id", rec.ID, "quantity", quantity, "order_id", result.OrderID)
	return result
}

// Upload is a prescription submission. File is optional; without it the
// backend is asked to verify by reference.
type Upload struct {
	CustomerID string
	FileName   string
	File       io.Reader
}

// VerificationResult is what the user is told after a verification
type VerificationResult struct {
	Medicine          string `json:"medicine,omitempty"`
	BackendVerified   bool   `json:"backendVerified"`
	BackendMessage    string `json:"backendMessage,omitempty"`
	PrescriptionCount int    `json:"prescriptionCount"`
	Message           string `json:"message"`
}

// VerifyPrescription submits the prescription for the conversation's pending
// medicine, waits the verification delay and then marks it verified. The
// local state is updated whatever the backend answered; BackendVerified
// tells the two cases apart. Only a cancelled context stops it early.
func (b *Bridge) VerifyPrescription(ctx context.Context, conv *state.Conversation, up Upload) (VerificationResult, error) {
	pending := conv.Selected()

	var env upstream.Envelope
	if up.File != nil {
		env = b.backend.UploadPrescription(ctx, up.CustomerID, pending.ID, upstream.PrescriptionFile{
			Name:    up.FileName,
			Content: up.File,
		})
	} else {
		env = b.backend.VerifyPrescription(ctx, upstream.VerificationRequest{
			CustomerID: up.CustomerID,
			MedicineID: pending.ID,
			FileURL:    "uploaded",
		})
	}

	if err := Sleep(ctx, b.verifyDelay); err != nil {
		return VerificationResult{}, err
	}

	verified := conv.CompleteVerification()

	backend := "confirmed"
	if !env.OK() {
		backend = "optimistic"
		logging.Warn("Prescription verification not confirmed by backend, reporting success anyway",
			"conversation_id", conv.ID(),
			"medicine_id", pending.ID,
			"kind", string(env.Kind),
			"message", env.Message,
		)
	}
	metrics.PrescriptionVerificationTotal.WithLabelValues(backend).Inc()

	name := verified.Name
	if name == "" {
		name = "your medication"
	}
	return VerificationResult{
		Medicine:          verified.Name,
		BackendVerified:   env.OK(),
		BackendMessage:    env.Message,
		PrescriptionCount: conv.PrescriptionCount(),
		Message:           fmt.Sprintf("✅ Prescription verified successfully!\n\nYou can now order %s. Your prescription is saved in your dashboard.", name),
	}, nil
}

// Sleep waits d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
