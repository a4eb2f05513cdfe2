// Package commands is the explicit command registry that the HTTP layer and
// the CLI both dispatch through. Each command takes a JSON payload and
// returns a JSON-encodable result.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownCommand is returned for names that were never registered
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNotFound is returned when a referenced resource does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when a command needs a logged-in session
	ErrUnauthenticated = errors.New("login required")
	// ErrForbidden is returned when the session role is not allowed
	ErrForbidden = errors.New("not allowed for this role")
)

// Handler runs one command
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// Registry maps command names to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a command. Registering a name twice is a programming error.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("commands: %q registered twice", name))
	}
	r.handlers[name] = h
}

// Lookup returns the handler for name
func (r *Registry) Lookup(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h, nil
}

// Names lists the registered commands alphabetically
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute looks name up and runs it. An empty payload is treated as {}.
func (r *Registry) Execute(ctx context.Context, name string, payload json.RawMessage) (any, error) {
	h, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return h(ctx, payload)
}

// decode unmarshals a payload into T, rejecting unknown fields
func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, &PayloadError{Err: err}
	}
	return v, nil
}

// PayloadError wraps a malformed command payload
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return "invalid payload: " + e.Err.Error()
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}
