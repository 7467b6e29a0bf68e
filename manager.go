package parley

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// welcomeTitle is the title of the session seeded on first run.
const welcomeTitle = "Welcome Chat"

// Manager owns the in-memory session collection and the active-session
// pointer, and is the only writer of both. All operations are safe for
// concurrent use; every mutation writes through to the SessionStore so
// a crash leaves storage consistent with the last completed operation.
type Manager struct {
	completer Completer
	store     SessionStore

	mu       sync.Mutex
	sessions []Session
	activeID string
	pending  bool
	lastErr  string

	onChange func()
	now      func() time.Time
	newID    func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithOnChange registers a hook invoked after every state change.
// The hook runs outside the manager's lock, so it may call back into
// the manager's read operations.
func WithOnChange(fn func()) Option {
	return func(m *Manager) { m.onChange = fn }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides the id source. Used in tests.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager loads persisted state from store and returns a ready
// Manager. An empty (or corrupt, per the SessionStore contract) store
// seeds a default welcome session and makes it active.
func NewManager(completer Completer, store SessionStore, opts ...Option) *Manager {
	m := &Manager{
		completer: completer,
		store:     store,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(m)
	}

	m.sessions = store.GetAll()
	if len(m.sessions) == 0 {
		now := m.now()
		welcome := Session{ID: m.newID(), Title: welcomeTitle, CreatedAt: now, UpdatedAt: now}
		m.sessions = []Session{welcome}
		m.activeID = welcome.ID
		m.persistLocked()
		return m
	}
	if id, ok := store.GetActiveID(); ok {
		m.activeID = id
	} else {
		m.activeID = m.sessions[0].ID
	}
	return m
}

// Sessions returns a snapshot of the session collection in storage
// order. Messages are shared with the manager's copy but immutable.
func (m *Manager) Sessions() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// SessionsByRecency returns a snapshot ordered most-recently-updated
// first, the display ordering.
func (m *Manager) SessionsByRecency() []Session {
	out := m.Sessions()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// ActiveID returns the active session id, with ok=false when none is
// set. The id is not guaranteed to address an existing session; see
// SwitchSession.
func (m *Manager) ActiveID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID, m.activeID != ""
}

// ActiveSession returns the active session, with ok=false when the
// active id addresses no session in the collection.
func (m *Manager) ActiveSession() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOfLocked(m.activeID); i >= 0 {
		return m.sessions[i], true
	}
	return Session{}, false
}

// Pending reports whether a completion request is in flight.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// LastError returns the user-visible message of the last failed
// operation, or "" if the last send or switch cleared it.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// CreateSession appends a new empty session titled from the creation
// date and makes it active.
func (m *Manager) CreateSession() Session {
	m.mu.Lock()
	now := m.now()
	s := Session{
		ID:        m.newID(),
		Title:     "Chat " + now.Format("1/2/2006"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.sessions = append(m.sessions, s)
	m.activeID = s.ID
	m.persistLocked()
	m.mu.Unlock()
	m.notify()
	return s
}

// DeleteSession removes the session with the given id. Unknown ids are
// a no-op. Deleting the active session repoints the active id to the
// first remaining session in storage order, or clears it when the
// collection becomes empty.
func (m *Manager) DeleteSession(id string) {
	m.mu.Lock()
	i := m.indexOfLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
	if m.activeID == id {
		m.activeID = ""
		if len(m.sessions) > 0 {
			m.activeID = m.sessions[0].ID
		}
	}
	m.persistLocked()
	m.mu.Unlock()
	m.notify()
}

// RenameSession sets the session's title and bumps its UpdatedAt.
// Unknown ids are a no-op. The title is not validated here; callers may
// reject empty input before calling.
func (m *Manager) RenameSession(id, title string) {
	m.mu.Lock()
	i := m.indexOfLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	m.sessions[i].Title = title
	m.sessions[i].UpdatedAt = m.now()
	m.persistLocked()
	m.mu.Unlock()
	m.notify()
}

// SwitchSession sets the active id unconditionally and clears the last
// error. Ids not present in the collection are accepted, matching the
// permissive behavior of the reference UI; operations that resolve the
// active session treat a dangling id as "no active session".
func (m *Manager) SwitchSession(id string) {
	m.mu.Lock()
	m.activeID = id
	m.lastErr = ""
	m.persistLocked()
	m.mu.Unlock()
	m.notify()
}

// ExportSession returns the portable snapshot of the session with the
// given id, with ok=false for unknown ids.
func (m *Manager) ExportSession(id string) (Export, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOfLocked(id)
	if i < 0 {
		return Export{}, false
	}
	s := m.sessions[i]
	return Export{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  s.Messages,
	}, true
}

// SendMessage appends a user message to the active session, relays the
// full conversation to the completer, and appends the assistant reply.
// It is a no-op when the active id addresses no session. The call
// blocks until the reply arrives, the 30-second deadline expires, or
// ctx is cancelled.
//
// The user append is optimistic: it is visible (and persisted) before
// the network call starts. On failure the user message stays and
// LastError carries a human-readable description, "Request timeout"
// for deadline expiry.
func (m *Manager) SendMessage(ctx context.Context, content string) {
	m.mu.Lock()
	idx := m.indexOfLocked(m.activeID)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	sessionID := m.activeID
	now := m.now()
	m.sessions[idx].Messages = append(m.sessions[idx].Messages, Message{
		ID:        m.newID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: now,
	})
	m.sessions[idx].UpdatedAt = now

	// The outbound history and the optimistic append come from the same
	// critical section, so the gateway sees exactly the conversation as
	// of this send even if other operations run while the request is in
	// flight.
	history := make([]Turn, len(m.sessions[idx].Messages))
	for i, msg := range m.sessions[idx].Messages {
		history[i] = msg.Turn()
	}
	m.pending = true
	m.lastErr = ""
	m.persistLocked()
	m.mu.Unlock()
	m.notify()

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	reply, err := m.completer.Complete(reqCtx, history)
	cancel()

	m.mu.Lock()
	m.pending = false
	if err != nil {
		m.lastErr = sendErrorMessage(err)
	} else if i := m.indexOfLocked(sessionID); i >= 0 {
		// The reply targets the session the message was sent from, even
		// if the active session changed while the request was in flight.
		// If that session was deleted meanwhile, the reply is dropped.
		now := m.now()
		m.sessions[i].Messages = append(m.sessions[i].Messages, Message{
			ID:        m.newID(),
			Role:      RoleAssistant,
			Content:   reply,
			Timestamp: now,
		})
		m.sessions[i].UpdatedAt = now
		m.persistLocked()
	}
	m.mu.Unlock()
	m.notify()
}

// sendErrorMessage translates a gateway failure into the user-visible
// last-error string.
func sendErrorMessage(err error) string {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "An error occurred"
}

func (m *Manager) indexOfLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked mirrors the collection and active id to the store.
// Persistence failures are swallowed: the store degrades quietly in
// both directions and the in-memory state stays authoritative.
func (m *Manager) persistLocked() {
	_ = m.store.SetAll(m.sessions)
	_ = m.store.SetActiveID(m.activeID)
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}
