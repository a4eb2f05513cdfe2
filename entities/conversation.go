package entities

import "time"

// Speaker identifies who produced a conversation turn.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// ConversationTurn is one appended message. Seq is the insertion position and
// is the only ordering the log guarantees.
type ConversationTurn struct {
	Seq     int       `json:"seq"`
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	HTML    string    `json:"html,omitempty"`
	At      time.Time `json:"at"`
}

// SelectedMedicine is the medicine implicated in a pending order or
// prescription flow. The zero value means nothing is selected.
type SelectedMedicine struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// IsZero reports whether nothing is selected.
func (s SelectedMedicine) IsZero() bool {
	return s.ID == 0 && s.Name == ""
}

// VerifiedPrescription is an entry of the dashboard prescription list.
type VerifiedPrescription struct {
	MedicineName string    `json:"medicineName"`
	VerifiedAt   time.Time `json:"verifiedAt"`
	ValidMonths  int       `json:"validMonths"`
}

// SessionAuth is the backend-issued credential persisted across restarts.
// An empty Token means unauthenticated.
type SessionAuth struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	Username   string `json:"username,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
}

// Authenticated reports whether a token is present.
func (s SessionAuth) Authenticated() bool {
	return s.Token != ""
}
