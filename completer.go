package parley

import (
	"context"
	"time"
)

// RequestTimeout is the hard deadline applied to every completion call.
// Exceeding it cancels the in-flight request.
const RequestTimeout = 30 * time.Second

// Completer is a strategy pattern interface for completion backends.
// Complete sends the ordered conversation history and returns the
// assistant's reply. One attempt per call; any retry policy belongs to
// the caller, and the Manager implements none.
type Completer interface {
	Complete(ctx context.Context, history []Turn) (string, error)
}
