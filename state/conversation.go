// Package state holds the application context the assistant reads and
// writes: conversations with their turn logs, the selected-medicine slot and
// the prescription counters.
package state

import (
	"sync"
	"time"

	"github.com/giygas/pharmly/entities"
)

// PrescriptionValidMonths is how long a verified prescription is shown as valid
const PrescriptionValidMonths = 12

// Conversation is one chat session. The turn log is append-only; the
// selection slot is last-write-wins.
type Conversation struct {
	id      string
	created time.Time
	now     func() time.Time

	mu            sync.RWMutex
	turns         []entities.ConversationTurn
	selected      entities.SelectedMedicine
	prescriptions int
	verified      []entities.VerifiedPrescription
}

// NewConversation creates an empty conversation
func NewConversation(id string) *Conversation {
	return &Conversation{
		id:      id,
		created: time.Now(),
		now:     time.Now,
	}
}

// ID returns the conversation identifier
func (c *Conversation) ID() string {
	return c.id
}

// Append adds one turn and returns it with its sequence number
func (c *Conversation) Append(speaker entities.Speaker, text, html string) entities.ConversationTurn {
	c.mu.Lock()
	defer c.mu.Unlock()

	turn := entities.ConversationTurn{
		Seq:     len(c.turns) + 1,
		Speaker: speaker,
		Text:    text,
		HTML:    html,
		At:      c.now(),
	}
	c.turns = append(c.turns, turn)
	return turn
}

// Turns returns a copy of the log in insertion order
func (c *Conversation) Turns() []entities.ConversationTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entities.ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len is the number of turns
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Select overwrites the selection slot
func (c *Conversation) Select(m entities.SelectedMedicine) {
	c.mu.Lock()
	c.selected = m
	c.mu.Unlock()
}

// Selected reads the selection slot
func (c *Conversation) Selected() entities.SelectedMedicine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// ClearSelection empties the selection slot
func (c *Conversation) ClearSelection() {
	c.Select(entities.SelectedMedicine{})
}

// CompleteVerification clears the pending selection, bumps the counter and,
// when a medicine was pending, records it as verified. It returns what was
// pending so callers can word their reply.
func (c *Conversation) CompleteVerification() entities.SelectedMedicine {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.selected
	c.selected = entities.SelectedMedicine{}
	c.prescriptions++
	if !pending.IsZero() {
		c.verified = append(c.verified, entities.VerifiedPrescription{
			MedicineName: pending.Name,
			VerifiedAt:   c.now(),
			ValidMonths:  PrescriptionValidMonths,
		})
	}
	return pending
}

// PrescriptionCount is the locally displayed prescription counter
func (c *Conversation) PrescriptionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prescriptions
}

// Verified lists verified prescriptions in completion order
func (c *Conversation) Verified() []entities.VerifiedPrescription {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]entities.VerifiedPrescription, len(c.verified))
	copy(out, c.verified)
	return out
}

// Snapshot is a consistent read of the whole conversation
type Snapshot struct {
	ID                string                          `json:"id"`
	CreatedAt         time.Time                       `json:"createdAt"`
	Turns             []entities.ConversationTurn     `json:"turns"`
	Selected          *entities.SelectedMedicine      `json:"selected,omitempty"`
	PrescriptionCount int                             `json:"prescriptionCount"`
	Verified          []entities.VerifiedPrescription `json:"verified"`
}

// Snapshot copies everything under one lock
func (c *Conversation) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		ID:                c.id,
		CreatedAt:         c.created,
		Turns:             make([]entities.ConversationTurn, len(c.turns)),
		PrescriptionCount: c.prescriptions,
		Verified:          make([]entities.VerifiedPrescription, len(c.verified)),
	}
	copy(snap.Turns, c.turns)
	copy(snap.Verified, c.verified)
	if !c.selected.IsZero() {
		sel := c.selected
		snap.Selected = &sel
	}
	return snap
}
