// Package session manages the authenticated identity for the current client,
// including restore from durable storage and forced logout on authentication
// failures signaled by the HTTP adapter.
package session

import (
	"log/slog"
	"sync"

	"github.com/budgetiq/budgetiq/internal/model"
)

// State is the lifecycle state of the session store.
type State int

const (
	// StateUninitialized means Restore has not run yet.
	StateUninitialized State = iota
	// StateRestoring means durable storage is being read.
	StateRestoring
	// StateAuthenticated means a token and user are present.
	StateAuthenticated
	// StateAnonymous means no session is active.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Store holds the current session and keeps durable storage in sync.
type Store struct {
	keyring Keyring

	mu      sync.RWMutex
	state   State
	session model.Session
}

// NewStore creates a session store over the given keyring. The store starts
// uninitialized; call Restore before use.
func NewStore(keyring Keyring) *Store {
	return &Store{
		keyring: keyring,
		state:   StateUninitialized,
	}
}

// Restore loads the session from durable storage. It reads local state only,
// never the network. Both entries must be present and well-formed; a partial
// session is cleared and treated as logged out.
func (s *Store) Restore() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateRestoring

	token, err := s.keyring.LoadToken()
	if err != nil {
		slog.Debug("Failed to load saved token", "error", err)
		token = ""
	}

	user, ok, err := s.keyring.LoadUser()
	if err != nil {
		slog.Debug("Failed to load saved user", "error", err)
		ok = false
	}

	if token == "" || !ok {
		if token != "" || ok {
			// One entry survived without the other; drop the leftovers.
			_ = s.keyring.Clear()
		}
		s.session = model.Session{}
		s.state = StateAnonymous
		return s.state
	}

	s.session = model.Session{Token: token, User: user}
	s.state = StateAuthenticated
	return s.state
}

// Login persists both entries and activates the session, replacing any prior
// session unconditionally.
func (s *Store) Login(token string, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keyring.SaveToken(token); err != nil {
		return err
	}
	if err := s.keyring.SaveUser(user); err != nil {
		return err
	}

	s.session = model.Session{Token: token, User: user}
	s.state = StateAuthenticated
	return nil
}

// Logout clears durable storage and transitions to anonymous. Idempotent.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keyring.Clear(); err != nil {
		return err
	}

	s.session = model.Session{}
	s.state = StateAnonymous
	return nil
}

// UpdateUser persists a new user profile, keeping the token unchanged. It is
// a no-op when no session is active.
func (s *Store) UpdateUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return nil
	}

	if err := s.keyring.SaveUser(user); err != nil {
		return err
	}

	s.session.User = user
	return nil
}

// HandleUnauthorized is the forced-logout hook for the HTTP adapter. Any 401
// response clears the persisted session regardless of which endpoint
// produced it.
func (s *Store) HandleUnauthorized() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.keyring.Clear()
	s.session = model.Session{}
	s.state = StateAnonymous
}

// Token returns the current bearer token, or "" when logged out. Implements
// the adapter's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// User returns the current user and whether a session is active.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User, s.state == StateAuthenticated
}

// IsAuthenticated is derived strictly from token presence.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
