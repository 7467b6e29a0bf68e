package parley

import "time"

// Session represents a named conversation session.
type Session struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Export is the portable snapshot produced by the download operation.
// The wire form (ISO-8601 timestamps, message count) is handled by the
// json package.
type Export struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []Message
}
