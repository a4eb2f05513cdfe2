// Package validation checks user input and upstream catalog data before they
// reach the assistant or the backend.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/interfaces"
	"github.com/giygas/pharmly/logging"
)

const (
	MaxMessageLength = 500
	MaxQueryLength   = 50
	MaxQueryWords    = 6
	MaxIDLength      = 64
	MaxQuantity      = 1000
	MaxDrugs         = 10
	MaxNameLength    = 200
)

var (
	// letters of any script, digits, spaces and the punctuation found in medicine names
	queryRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-\.\+'/%]+$`)
	idRegex    = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

	// markup and script injection, checked on chat messages
	markupPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "<iframe", "<object", "<embed",
		"eval(", "expression(", "@import", "data:text/html",
	}

	// search queries are narrower and also refuse query-language fragments
	queryPatterns = append([]string{
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(", "`", "$(", "${", "../", "..\\", "%2e%2e", "file://",
		"{$ne:", "{$gt:", "{$where:", "{$regex:",
	}, markupPatterns...)
)

// ValidationError is a client-side rejection. It never reaches the upstream.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DataValidatorImpl implements interfaces.DataValidator
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateMessage trims a chat utterance and rejects empty, oversized or
// markup-carrying input.
func (v *DataValidatorImpl) ValidateMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", invalid("message", "cannot be empty")
	}

	if n := utf8.RuneCountInString(message); n > MaxMessageLength {
		return "", invalid("message", "too long: %d characters (maximum %d)", n, MaxMessageLength)
	}

	if containsAny(strings.ToLower(message), markupPatterns) {
		return "", invalid("message", "contains potentially dangerous content")
	}

	return message, nil
}

// ValidateSearchQuery checks a search box query
func (v *DataValidatorImpl) ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", invalid("q", "cannot be empty")
	}

	if utf8.RuneCountInString(query) > MaxQueryLength {
		return "", invalid("q", "too long: maximum %d characters", MaxQueryLength)
	}

	if len(strings.Fields(query)) > MaxQueryWords {
		return "", invalid("q", "too complex: maximum %d words allowed", MaxQueryWords)
	}

	if containsAny(strings.ToLower(query), queryPatterns) {
		return "", invalid("q", "contains potentially dangerous content")
	}

	if !queryRegex.MatchString(query) {
		return "", invalid("q", "contains invalid characters. Only letters, numbers, spaces and - . + ' / %% are allowed")
	}

	if hasExcessiveRepetition(query) {
		return "", invalid("q", "contains excessive character repetition")
	}

	return query, nil
}

// ValidateLogin requires both fields and a plausible email address
func (v *DataValidatorImpl) ValidateLogin(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "cannot be empty")
	}
	if password == "" {
		return invalid("password", "cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// ValidateID checks customer, order and conversation identifiers
func (v *DataValidatorImpl) ValidateID(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "cannot be empty")
	}
	if len(value) > MaxIDLength {
		return "", invalid(field, "too long: maximum %d characters", MaxIDLength)
	}
	if !idRegex.MatchString(value) {
		return "", invalid(field, "contains invalid characters. Only letters, numbers, '-' and '_' are allowed")
	}
	return value, nil
}

// ValidateMedicineID parses a positive numeric medicine id
func (v *DataValidatorImpl) ValidateMedicineID(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return -1, invalid("medicine_id", "cannot be empty")
	}

	if len(input) != len(trimmed) {
		return -1, invalid("medicine_id", "contains invalid characters. Only numeric characters are allowed")
	}

	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, invalid("medicine_id", "contains invalid characters. Only numeric characters are allowed")
	}
	if id <= 0 {
		return -1, invalid("medicine_id", "must be positive")
	}

	return id, nil
}

// ValidateQuantity bounds an order quantity
func (v *DataValidatorImpl) ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return invalid("quantity", "must be at least 1, got: %d", quantity)
	}
	if quantity > MaxQuantity {
		return invalid("quantity", "must be at most %d, got: %d", MaxQuantity, quantity)
	}
	return nil
}

// ValidateDrugList trims the names given to the interaction checker and drops
// blanks. Fewer than two names is not an error here: the checker answers it.
func (v *DataValidatorImpl) ValidateDrugList(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > MaxQueryLength {
			return nil, invalid("drugs", "name too long: maximum %d characters", MaxQueryLength)
		}
		if containsAny(strings.ToLower(name), markupPatterns) {
			return nil, invalid("drugs", "contains potentially dangerous content")
		}
		out = append(out, name)
	}
	if len(out) > MaxDrugs {
		return nil, invalid("drugs", "too many medicines: maximum %d", MaxDrugs)
	}
	return out, nil
}

// ValidateCatalog checks an upstream inventory before it replaces the current
// catalog: it must be non-empty with unique positive ids and named records.
func (v *DataValidatorImpl) ValidateCatalog(records []entities.MedicineRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no medicines found")
	}

	seen := make(map[int]bool, len(records))
	var duplicates []int
	for _, rec := range records {
		if err := v.ValidateRecord(rec); err != nil {
			return fmt.Errorf("invalid medicine %d: %w", rec.ID, err)
		}
		if seen[rec.ID] {
			duplicates = append(duplicates, rec.ID)
		}
		seen[rec.ID] = true
	}

	if len(duplicates) > 0 {
		logging.Error("Duplicate medicine ids detected",
			"count", len(duplicates),
			"duplicates", duplicates,
		)
		return fmt.Errorf("found %d duplicate medicine ids", len(duplicates))
	}

	return nil
}

// ValidateRecord checks a single catalog entry
func (v *DataValidatorImpl) ValidateRecord(rec entities.MedicineRecord) error {
	if rec.ID <= 0 {
		return fmt.Errorf("invalid id: %d", rec.ID)
	}

	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("empty name for medicine %d", rec.ID)
	}

	if len(rec.Name) > MaxNameLength {
		return fmt.Errorf("name too long for medicine %d: %d characters", rec.ID, len(rec.Name))
	}

	if rec.StockQuantity < 0 {
		return fmt.Errorf("negative stock for medicine %d", rec.ID)
	}

	if rec.UnitPrice < 0 {
		return fmt.Errorf("negative price for medicine %d", rec.ID)
	}

	return nil
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// hasExcessiveRepetition reports the same byte repeated more than 10 times in a row
func hasExcessiveRepetition(input string) bool {
	run := 1
	for i := 1; i < len(input); i++ {
		if input[i] == input[i-1] {
			run++
			if run > 10 {
				return true
			}
			continue
		}
		run = 1
	}
	return false
}
