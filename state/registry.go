package state

import (
	"errors"
	"sync"

	"github.com/giygas/pharmly/logging"
	"github.com/google/uuid"
)

// DefaultMaxConversations bounds the registry
const DefaultMaxConversations = 10000

// ErrTooManyConversations is returned when the registry is full
var ErrTooManyConversations = errors.New("too many open conversations")

// Registry holds conversations by id
type Registry struct {
	mu    sync.RWMutex
	convs map[string]*Conversation
	max   int
}

// NewRegistry creates a registry holding at most max conversations. A
// non-positive max uses DefaultMaxConversations.
func NewRegistry(max int) *Registry {
	if max <= 0 {
		max = DefaultMaxConversations
	}
	return &Registry{
		convs: make(map[string]*Conversation),
		max:   max,
	}
}

// Create opens a new conversation with a fresh id
func (r *Registry) Create() (*Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.convs) >= r.max {
		return nil, ErrTooManyConversations
	}

	id := uuid.NewString()
	conv := NewConversation(id)
	r.convs[id] = conv
	logging.Debug("Conversation opened", "conversation_id", id)
	return conv, nil
}

// Get returns the conversation for id
func (r *Registry) Get(id string) (*Conversation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.convs[id]
	return conv, ok
}

// GetOrCreate returns the conversation for id, or a new one when id is empty
// or unknown. The bool reports whether a new conversation was made.
func (r *Registry) GetOrCreate(id string) (*Conversation, bool, error) {
	if id != "" {
		if conv, ok := r.Get(id); ok {
			return conv, false, nil
		}
	}
	conv, err := r.Create()
	if err != nil {
		return nil, false, err
	}
	return conv, true, nil
}

// Delete drops a conversation
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.convs, id)
	r.mu.Unlock()
}

// Len is the number of open conversations
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.convs)
}
