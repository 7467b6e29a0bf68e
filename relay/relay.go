// Package relay implements the HTTP relay between a parley client and
// the completion provider.
//
// [Server] exposes the conversation endpoint: POST /api/chat accepts
// the full message history and returns one assistant reply. [Client] is
// a [parley.Completer] that calls a Server, so a TUI can run without
// holding the provider credential itself. The server keeps no session
// state; sessions live entirely on the client side.
package relay

// ChatRequest is the relay request body.
type ChatRequest struct {
	Messages []TurnDTO `json:"messages"`
}

// TurnDTO is the wire form of a conversation turn.
type TurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the relay success body.
type ChatResponse struct {
	Content string `json:"content"`
}

// ErrorResponse is the relay failure body, paired with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}
