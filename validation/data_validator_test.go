package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/giygas/pharmly/catalog"
	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/logging"
)

func TestNewDataValidator(t *testing.T) {
	validator := NewDataValidator()

	if validator == nil {
		t.Fatal("NewDataValidator returned nil")
	}

	if _, ok := validator.(*DataValidatorImpl); !ok {
		t.Error("NewDataValidator should return *DataValidatorImpl")
	}
}

func TestValidationErrorType(t *testing.T) {
	_, err := NewDataValidator().ValidateMessage("")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if vErr.Field != "message" {
		t.Errorf("Expected field message, got %s", vErr.Field)
	}
	if err.Error() != "message: cannot be empty" {
		t.Errorf("Unexpected error text %q", err.Error())
	}
}

func TestValidateMessage(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{"plain", "I need Paracetamol", "I need Paracetamol", ""},
		{"trimmed", "  hello  ", "hello", ""},
		{"ampersand is fine in chat", "paracetamol & ibuprofen; safe?", "paracetamol & ibuprofen; safe?", ""},
		{"emoji", "🎙️ order 2 aspirin", "🎙️ order 2 aspirin", ""},
		{"at limit", strings.Repeat("é", MaxMessageLength), strings.Repeat("é", MaxMessageLength), ""},
		{"empty", "   ", "", "cannot be empty"},
		{"too long", strings.Repeat("a", MaxMessageLength+1), "", "too long"},
		{"script", "<script>alert(1)</script>", "", "dangerous"},
		{"handler", `<img src=x onerror=alert(1)>`, "", "dangerous"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := validator.ValidateMessage(tc.input)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidateSearchQuery(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		input   string
		wantErr bool
	}{
		{"para", false},
		{"Paracétamol 500mg", false},
		{"vitamin d3 1000 iu", false},
		{"co-amoxiclav 875/125", false},
		{"", true},
		{strings.Repeat("a", MaxQueryLength+1), true},
		{"one two three four five six seven", true},
		{"' or 1=1", true},
		{"drop table medicines", true},
		{"aspirin; rm", true},
		{"aaaaaaaaaaaa", true},
		{"../etc/passwd", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := validator.ValidateSearchQuery(tc.input)
			if tc.wantErr && err == nil {
				t.Errorf("Expected error for %q", tc.input)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected error for %q: %v", tc.input, err)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		email    string
		password string
		field    string
	}{
		{"patient@pharmly.test", "secret", ""},
		{"", "secret", "email"},
		{"patient@pharmly.test", "", "password"},
		{"not-an-email", "secret", "email"},
	}

	for _, tc := range testCases {
		err := validator.ValidateLogin(tc.email, tc.password)
		if tc.field == "" {
			if err != nil {
				t.Errorf("Unexpected error for %q: %v", tc.email, err)
			}
			continue
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Field != tc.field {
			t.Errorf("Expected %s error for (%q, %q), got %v", tc.field, tc.email, tc.password, err)
		}
	}
}

func TestValidateID(t *testing.T) {
	validator := NewDataValidator()

	if got, err := validator.ValidateID("customer_id", " PAT999 "); err != nil || got != "PAT999" {
		t.Errorf("Expected PAT999, got %q, %v", got, err)
	}
	if _, err := validator.ValidateID("conversation_id", "9b2d5c1e-4d6f-4a55-9a3e-0f1c2b3d4e5f"); err != nil {
		t.Errorf("UUIDs should be accepted: %v", err)
	}

	for _, bad := range []string{"", "   ", "a b", "id;drop", strings.Repeat("x", MaxIDLength+1)} {
		if _, err := validator.ValidateID("order_id", bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestValidateMedicineID(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"4", 4, false},
		{"22", 22, false},
		{"", -1, true},
		{" 4", -1, true},
		{"abc", -1, true},
		{"0", -1, true},
		{"-3", -1, true},
	}

	for _, tc := range testCases {
		got, err := validator.ValidateMedicineID(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("For %q expected error %v, got %v", tc.input, tc.wantErr, err)
		}
		if got != tc.want {
			t.Errorf("For %q expected %d, got %d", tc.input, tc.want, got)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	validator := NewDataValidator()

	for _, q := range []int{1, 2, MaxQuantity} {
		if err := validator.ValidateQuantity(q); err != nil {
			t.Errorf("Unexpected error for %d: %v", q, err)
		}
	}
	for _, q := range []int{0, -1, MaxQuantity + 1} {
		if err := validator.ValidateQuantity(q); err == nil {
			t.Errorf("Expected error for %d", q)
		}
	}
}

func TestValidateDrugList(t *testing.T) {
	validator := NewDataValidator()

	got, err := validator.ValidateDrugList([]string{" Warfarin ", "", "Aspirin"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "Warfarin" || got[1] != "Aspirin" {
		t.Errorf("Expected trimmed names without blanks, got %v", got)
	}

	if got, err := validator.ValidateDrugList([]string{"Aspirin"}); err != nil || len(got) != 1 {
		t.Errorf("A single name is left to the checker, got %v, %v", got, err)
	}

	tooMany := make([]string, MaxDrugs+1)
	for i := range tooMany {
		tooMany[i] = "drug"
	}
	if _, err := validator.ValidateDrugList(tooMany); err == nil {
		t.Error("Expected error for too many names")
	}
	if _, err := validator.ValidateDrugList([]string{"<script>"}); err == nil {
		t.Error("Expected error for markup")
	}
}

func TestValidateCatalog(t *testing.T) {
	logging.InitLogger("")
	validator := NewDataValidator()

	if err := validator.ValidateCatalog(catalog.Seed()); err != nil {
		t.Errorf("Seed catalog should be valid: %v", err)
	}

	testCases := []struct {
		name    string
		records []entities.MedicineRecord
		wantErr string
	}{
		{"empty", nil, "no medicines found"},
		{"zero id", []entities.MedicineRecord{{ID: 0, Name: "X"}}, "invalid id"},
		{"blank name", []entities.MedicineRecord{{ID: 1, Name: "  "}}, "empty name"},
		{"negative stock", []entities.MedicineRecord{{ID: 1, Name: "X", StockQuantity: -1}}, "negative stock"},
		{"negative price", []entities.MedicineRecord{{ID: 1, Name: "X", UnitPrice: -0.5}}, "negative price"},
		{"duplicate", []entities.MedicineRecord{{ID: 1, Name: "X"}, {ID: 1, Name: "Y"}}, "duplicate"},
		{"long name", []entities.MedicineRecord{{ID: 1, Name: strings.Repeat("n", MaxNameLength+1)}}, "too long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.ValidateCatalog(tc.records)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHasExcessiveRepetition(t *testing.T) {
	if hasExcessiveRepetition("aaaaaaaaaa") {
		t.Error("Ten repeats should be allowed")
	}
	if !hasExcessiveRepetition("xaaaaaaaaaaa") {
		t.Error("Eleven repeats should be rejected")
	}
}
