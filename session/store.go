// Package session persists the backend-issued credential between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/giygas/pharmly/entities"
	"github.com/giygas/pharmly/interfaces"
	"github.com/giygas/pharmly/logging"
	"github.com/golang-jwt/jwt/v5"
)

var _ interfaces.SessionStore = (*Store)(nil)

// Store keeps the current SessionAuth in memory and mirrors it to a JSON
// file. An empty path keeps the session in memory only.
type Store struct {
	path string
	mu   sync.RWMutex
	auth entities.SessionAuth
}

// Open creates a store and loads the saved session if the file exists
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load rereads the session file. A missing file means unauthenticated.
func (s *Store) Load() (entities.SessionAuth, error) {
	if s.path == "" {
		return s.Current(), nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.set(entities.SessionAuth{})
		return entities.SessionAuth{}, nil
	}
	if err != nil {
		return entities.SessionAuth{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var auth entities.SessionAuth
	if err := json.Unmarshal(data, &auth); err != nil {
		return entities.SessionAuth{}, fmt.Errorf("failed to decode session file %s: %w", s.path, err)
	}
	s.set(auth)
	return auth, nil
}

// Current returns the in-memory session
func (s *Store) Current() entities.SessionAuth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

func (s *Store) set(auth entities.SessionAuth) {
	s.mu.Lock()
	s.auth = auth
	s.mu.Unlock()
}

// Save stores auth. A missing role is taken from the token's role claim.
func (s *Store) Save(auth entities.SessionAuth) error {
	if auth.Role == "" {
		auth.Role = RoleFromToken(auth.Token)
	}

	if s.path != "" {
		data, err := json.MarshalIndent(auth, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		if err := writeFileAtomic(s.path, data); err != nil {
			return err
		}
	}

	s.set(auth)
	logging.Info("Session saved", "role", auth.Role, "user", auth.Username)
	return nil
}

// Clear logs out: the file is removed and the in-memory session emptied
func (s *Store) Clear() error {
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
	}
	s.set(entities.SessionAuth{})
	logging.Info("Session cleared")
	return nil
}

// Token returns the bearer token, empty when logged out
func (s *Store) Token() string {
	return s.Current().Token
}

// RoleFromToken reads the role claim without checking the signature. The
// backend issued the token and remains the one that verifies it.
func RoleFromToken(token string) string {
	claims, ok := parseClaims(token)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// ExpiresAt reads the exp claim of token
func ExpiresAt(token string) (time.Time, bool) {
	claims, ok := parseClaims(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func parseClaims(token string) (jwt.MapClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		logging.Debug("Token is not a readable JWT", "error", err)
		return nil, false
	}
	return claims, true
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set session file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
