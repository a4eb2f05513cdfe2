package bridge

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/logging"
	"github.com/giygas/pharmly/state"
	"github.com/giygas/pharmly/upstream"
)

type fakeBackend struct {
	orderEnv  upstream.Envelope
	verifyEnv upstream.Envelope
	uploadEnv upstream.Envelope

	orders   []upstream.OrderRequest
	verifies []upstream.VerificationRequest
	uploads  []string
}

func (f *fakeBackend) CreateOrder(ctx context.Context, order upstream.OrderRequest) upstream.Envelope {
	f.orders = append(f.orders, order)
	return f.orderEnv
}

func (f *fakeBackend) VerifyPrescription(ctx context.Context, req upstream.VerificationRequest) upstream.Envelope {
	f.verifies = append(f.verifies, req)
	return f.verifyEnv
}

func (f *fakeBackend) UploadPrescription(ctx context.Context, customerID string, medicineID int, file upstream.PrescriptionFile) upstream.Envelope {
	content, _ := io.ReadAll(file.Content)
	f.uploads = append(f.uploads, string(content))
	return f.uploadEnv
}

var paracetamol = entities.MedicineRecord{ID: 1, Name: "Paracetamol 500mg", StockQuantity: 82}

func success(data string) upstream.Envelope {
	env := upstream.Envelope{Status: upstream.StatusSuccess}
	if data != "" {
		env.Data = []byte(data)
	}
	return env
}

func TestPlaceOrderWithServerID(t *testing.T) {
	logging.InitLogger("")
	backend := &fakeBackend{orderEnv: success(`{"order_id":42}`)}
	b := New(backend, 0)

	res := b.PlaceOrder(context.Background(), "PAT999", paracetamol, 2)

	if !res.Success || res.OrderID != "42" || res.Placeholder {
		t.Errorf("Unexpected result %+v", res)
	}
	want := "✅ Order Confirmed!\n\n• Medicine: Paracetamol 500mg\n• Quantity: 2\n• Order ID: 42\n\nYour pharmacy has been notified."
	if res.Message != want {
		t.Errorf("Unexpected message:\n%s", res.Message)
	}
	if len(backend.orders) != 1 || backend.orders[0].MedicineID != 1 || backend.orders[0].CustomerID != "PAT999" {
		t.Errorf("Unexpected order sent %+v", backend.orders)
	}
}

func TestPlaceOrderPlaceholderID(t *testing.T) {
	b := New(&fakeBackend{orderEnv: success("")}, 0)

	res := b.PlaceOrder(context.Background(), "PAT999", paracetamol, 1)
	if !res.Success || !res.Placeholder || !strings.HasPrefix(res.OrderID, "LOCAL-") {
		t.Errorf("Expected a placeholder id, got %+v", res)
	}
}

func TestPlaceOrderFailure(t *testing.T) {
	tests := []struct {
		name string
		env  upstream.Envelope
		want string
	}{
		{"server message", upstream.Envelope{Status: upstream.StatusError, Message: "Insufficient stock", Kind: upstream.KindServer}, "Insufficient stock"},
		{"no message", upstream.Envelope{Status: upstream.StatusError, Kind: upstream.KindNetwork}, "Order failed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(&fakeBackend{orderEnv: tt.env}, 0).PlaceOrder(context.Background(), "PAT999", paracetamol, 1)
			if res.Success || res.Message != tt.want {
				t.Errorf("Expected failure %q, got %+v", tt.want, res)
			}
		})
	}
}

func TestPlaceOrderRejectsQuantity(t *testing.T) {
	logging.InitLogger("")

	for _, qty := range []int{0, 5000} {
		backend := &fakeBackend{orderEnv: success(`{"order_id":1}`)}
		res := New(backend, 0).PlaceOrder(context.Background(), "PAT999", paracetamol, qty)

		if res.Success || !strings.HasPrefix(res.Message, "Order failed.") {
			t.Errorf("Quantity %d: expected a local rejection, got %+v", qty, res)
		}
		if len(backend.orders) != 0 {
			t.Errorf("Quantity %d: rejected orders must not reach the backend", qty)
		}
	}
}

func TestVerifyPrescriptionConfirmed(t *testing.T) {
	backend := &fakeBackend{verifyEnv: success("")}
	conv := state.NewConversation("c1")
	conv.Select(entities.SelectedMedicine{ID: 4, Name: "Amoxicillin 500mg"})

	res, err := New(backend, 0).VerifyPrescription(context.Background(), conv, Upload{CustomerID: "PAT999"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !res.BackendVerified || res.Medicine != "Amoxicillin 500mg" || res.PrescriptionCount != 1 {
		t.Errorf("Unexpected result %+v", res)
	}
	if !strings.Contains(res.Message, "You can now order Amoxicillin 500mg.") {
		t.Errorf("Unexpected message %q", res.Message)
	}
	if len(backend.verifies) != 1 || backend.verifies[0].MedicineID != 4 {
		t.Errorf("Expected a verification request for medicine 4, got %+v", backend.verifies)
	}
	if !conv.Selected().IsZero() || len(conv.Verified()) != 1 {
		t.Error("Verification should clear the selection and record the prescription")
	}
}

func TestVerifyPrescriptionOptimisticFallback(t *testing.T) {
	backend := &fakeBackend{uploadEnv: upstream.Envelope{Status: upstream.StatusError, Message: "Upload endpoint failed", Kind: upstream.KindServer}}
	conv := state.NewConversation("c1")

	res, err := New(backend, 0).VerifyPrescription(context.Background(), conv, Upload{
		CustomerID: "PAT999",
		FileName:   "rx.jpg",
		File:       strings.NewReader("scan"),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if res.BackendVerified {
		t.Error("Backend failure must be visible in the result")
	}
	if !strings.HasPrefix(res.Message, "✅ Prescription verified successfully!") {
		t.Errorf("Expected optimistic success message, got %q", res.Message)
	}
	if !strings.Contains(res.Message, "your medication") {
		t.Errorf("Expected generic wording without a pending medicine, got %q", res.Message)
	}
	if len(backend.uploads) != 1 || backend.uploads[0] != "scan" {
		t.Errorf("Expected the file to be uploaded, got %v", backend.uploads)
	}
	if conv.PrescriptionCount() != 1 {
		t.Errorf("Expected counter 1, got %d", conv.PrescriptionCount())
	}
}

func TestVerifyPrescriptionCancelled(t *testing.T) {
	conv := state.NewConversation("c1")
	conv.Select(entities.SelectedMedicine{ID: 4, Name: "Amoxicillin 500mg"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeBackend{verifyEnv: success("")}, time.Hour).VerifyPrescription(ctx, conv, Upload{CustomerID: "PAT999"})
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if conv.Selected().IsZero() {
		t.Error("A cancelled verification must leave the selection pending")
	}
}

func TestSleep(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("Zero sleep should not fail: %v", err)
	}
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Short sleep should not fail: %v", err)
	}
}
