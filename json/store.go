package json

import (
	"fmt"

	"parley"
)

// Keys in the persistent medium.
const (
	sessionsKey = "chat_sessions"
	activeIDKey = "active_session_id"
)

// Interface compliance check.
var _ parley.SessionStore = (*Store)(nil)

// Store adapts a [parley.KV] to the [parley.SessionStore] contract.
// Reads degrade quietly: unset, unreadable, or corrupt payloads yield
// empty state, never an error.
type Store struct {
	kv parley.KV
}

// NewStore creates a Store over the given key-value medium.
func NewStore(kv parley.KV) *Store {
	return &Store{kv: kv}
}

// GetAll returns the persisted session collection, or an empty
// collection when storage is unset or corrupt.
func (s *Store) GetAll() []parley.Session {
	data, ok, err := s.kv.Get(sessionsKey)
	if err != nil || !ok {
		return nil
	}
	sessions, err := UnmarshalSessions(data)
	if err != nil {
		return nil
	}
	return sessions
}

// SetAll replaces the persisted session collection.
func (s *Store) SetAll(sessions []parley.Session) error {
	data, err := MarshalSessions(sessions)
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	return s.kv.Set(sessionsKey, data)
}

// GetActiveID returns the persisted active session id, with ok=false
// when none is stored.
func (s *Store) GetActiveID() (string, bool) {
	data, ok, err := s.kv.Get(activeIDKey)
	if err != nil || !ok || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// SetActiveID persists the active session id. An empty id removes the
// stored value.
func (s *Store) SetActiveID(id string) error {
	if id == "" {
		return s.kv.Delete(activeIDKey)
	}
	return s.kv.Set(activeIDKey, []byte(id))
}
