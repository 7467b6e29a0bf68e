package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"parley"
)

// Interface compliance check.
var _ parley.Completer = (*Client)(nil)

// Client implements [parley.Completer] by relaying the conversation to
// a parley relay server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a relay Client for the server at baseURL. The
// request deadline comes from the caller's context, not the transport.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Complete sends the history to the relay's chat endpoint and returns
// the reply. Deadline expiry maps to [parley.ErrTimeout]; non-2xx
// responses map to [*parley.ProviderError] carrying the relay's error
// string.
func (c *Client) Complete(ctx context.Context, history []parley.Turn) (string, error) {
	reqBody := ChatRequest{Messages: make([]TurnDTO, len(history))}
	for i, t := range history {
		reqBody.Messages[i] = TurnDTO{Role: string(t.Role), Content: t.Content}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", parley.ErrTimeout
		}
		return "", fmt.Errorf("relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
			errResp.Error = "Unknown error"
		}
		return "", &parley.ProviderError{Status: resp.StatusCode, Detail: errResp.Error}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return chatResp.Content, nil
}
