package parley

// KV is a durable, synchronous key-value medium. Get reports ok=false
// for absent keys. Implementations side-effect only the external
// medium; no in-memory cache is kept.
type KV interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// SessionStore is the typed persistence contract the Manager writes
// through on every mutation.
//
// GetAll and GetActiveID degrade quietly: unset or corrupt storage
// yields empty state rather than an error, so a damaged store never
// prevents startup.
type SessionStore interface {
	GetAll() []Session
	SetAll(sessions []Session) error
	GetActiveID() (string, bool)
	// SetActiveID stores the active session id. An empty id clears the
	// stored value.
	SetActiveID(id string) error
}
