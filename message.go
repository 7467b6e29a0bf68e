package parley

import "time"

// Message is a single conversation turn. Messages are immutable once
// appended to a session: the order within a session is the send order,
// and individual messages are never removed or reordered.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// Turn is the reduced {role, content} form of a Message. The outbound
// history sent to a Completer is built from Turns, so the gateway never
// sees ids or timestamps.
type Turn struct {
	Role    Role
	Content string
}

// Turn reduces the message to its outbound form.
func (m Message) Turn() Turn {
	return Turn{Role: m.Role, Content: m.Content}
}
