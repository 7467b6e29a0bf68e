// Package gemini implements [parley.Completer] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between parley's
// conversation turns and the Gemini API types. Each completion is a
// single non-streaming GenerateContent call with a fixed generation
// configuration; retries are the caller's concern.
package gemini

const (
	defaultModel = "gemini-2.0-flash"

	// Generation constants. Fixed, not user-configurable.
	temperature     = 0.7
	maxOutputTokens = 2000

	// noResponseFallback is returned when a success payload carries no
	// text. Lossy on purpose: an empty candidate is not an error.
	noResponseFallback = "No response generated"
)
