package parley

import (
	"errors"
	"fmt"
)

// Sentinel errors for the completion request cycle.
var (
	// ErrTimeout indicates the request deadline was exceeded.
	ErrTimeout = errors.New("request timeout")

	// ErrNoAPIKey indicates the provider credential is not configured.
	// Fatal for the request it surfaces on, never for the process.
	ErrNoAPIKey = errors.New("missing API key")
)

// ProviderError is a non-success response from the completion provider.
type ProviderError struct {
	Status int
	Detail string
}

func (e *ProviderError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("provider returned status %d", e.Status)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.Status, e.Detail)
}
