package relay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley"
	"parley/mock"
	"parley/relay"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func postChat(t *testing.T, srv *relay.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestServer_ChatSuccess(t *testing.T) {
	t.Parallel()
	completer := &mock.Completer{
		CompleteFn: func(_ context.Context, history []parley.Turn) (string, error) {
			require.Len(t, history, 2)
			assert.Equal(t, parley.RoleAssistant, history[1].Role)
			return "the reply", nil
		},
	}
	srv := relay.NewServer(completer, nopLogger())

	rec := postChat(t, srv, `{"messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp relay.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "the reply", resp.Content)
}

func TestServer_NoCredential(t *testing.T) {
	t.Parallel()
	srv := relay.NewServer(nil, nopLogger())

	rec := postChat(t, srv, `{"messages":[]}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp relay.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Gemini API key not configured", resp.Error)
}

func TestServer_InvalidBody(t *testing.T) {
	t.Parallel()
	completer := &mock.Completer{
		CompleteFn: func(context.Context, []parley.Turn) (string, error) {
			t.Fatal("completer must not be called")
			return "", nil
		},
	}
	srv := relay.NewServer(completer, nopLogger())

	rec := postChat(t, srv, `{invalid`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ProviderErrorPassesStatus(t *testing.T) {
	t.Parallel()
	completer := &mock.Completer{
		CompleteFn: func(context.Context, []parley.Turn) (string, error) {
			return "", &parley.ProviderError{Status: 403, Detail: "bad key"}
		},
	}
	var logBuf bytes.Buffer
	srv := relay.NewServer(completer, slog.New(slog.NewTextHandler(&logBuf, nil)))

	rec := postChat(t, srv, `{"messages":[{"role":"user","content":"hi"}]}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var resp relay.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to get AI response", resp.Error)
	// Detail is logged, not forwarded.
	assert.Contains(t, logBuf.String(), "bad key")
}

func TestServer_TimeoutMapsTo504(t *testing.T) {
	t.Parallel()
	completer := &mock.Completer{
		CompleteFn: func(context.Context, []parley.Turn) (string, error) {
			return "", parley.ErrTimeout
		},
	}
	srv := relay.NewServer(completer, nopLogger())

	rec := postChat(t, srv, `{"messages":[]}`)

	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	var resp relay.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Request timeout", resp.Error)
}

func TestServer_Health(t *testing.T) {
	t.Parallel()
	srv := relay.NewServer(nil, nopLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
