package relay

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"parley"
)

// Fixed user-visible error strings of the relay contract.
const (
	noCredentialMessage  = "Gemini API key not configured"
	providerFailMessage  = "Failed to get AI response"
	internalErrorMessage = "Internal server error"
)

// Server handles the relay endpoints. It is an http.Handler.
type Server struct {
	completer parley.Completer
	logger    *slog.Logger
	mux       *http.ServeMux
}

// NewServer creates a Server delegating completions to completer. A nil
// completer means no provider credential is configured; chat requests
// then fail with a fixed 500 message instead of refusing to start.
func NewServer(completer parley.Completer, logger *slog.Logger) *Server {
	s := &Server{completer: completer, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux = mux
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.completer == nil {
		s.logger.Error("chat request without provider credential")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: noCredentialMessage})
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	history := make([]parley.Turn, len(req.Messages))
	for i, m := range req.Messages {
		history[i] = parley.Turn{Role: parley.Role(m.Role), Content: m.Content}
	}

	content, err := s.completer.Complete(r.Context(), history)
	if err != nil {
		status, msg := errorStatus(err)
		s.logger.Error("completion failed", "status", status, "error", err)
		writeJSON(w, status, ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Content: content})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorStatus maps gateway failures onto the relay wire contract: the
// provider's status passes through, timeouts become 504, everything
// else is a 500. Error detail is logged, not forwarded.
func errorStatus(err error) (int, string) {
	var pe *parley.ProviderError
	switch {
	case errors.As(err, &pe):
		return pe.Status, providerFailMessage
	case errors.Is(err, parley.ErrTimeout):
		return http.StatusGatewayTimeout, "Request timeout"
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
