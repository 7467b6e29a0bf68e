package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"parley"
)

// Interface compliance check.
var _ parley.Completer = (*Client)(nil)

// Client implements [parley.Completer] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.0-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", parley.ErrNoAPIKey)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Complete sends one GenerateContent request with the full conversation
// history and returns the reply text. Deadline expiry maps to
// [parley.ErrTimeout]; non-success API responses map to
// [*parley.ProviderError].
func (c *Client) Complete(ctx context.Context, history []parley.Turn) (string, error) {
	temp := float32(temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: maxOutputTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, ConvertTurns(history), config)
	if err != nil {
		return "", translateError(err)
	}
	return ExtractText(resp), nil
}

// ConvertTurns converts conversation turns to genai Contents, mapping
// the assistant role to Gemini's model role. Exported for testing.
func ConvertTurns(turns []parley.Turn) []*genai.Content {
	contents := make([]*genai.Content, len(turns))
	for i, t := range turns {
		role := "user"
		if t.Role == parley.RoleAssistant {
			role = "model"
		}
		contents[i] = &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		}
	}
	return contents
}

// ExtractText returns the first candidate's first part text, or the
// fallback literal when the response carries none. Exported for testing.
func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return noResponseFallback
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return noResponseFallback
	}
	if p := content.Parts[0]; p != nil && p.Text != "" {
		return p.Text
	}
	return noResponseFallback
}

// translateError maps SDK failures onto parley's error taxonomy.
func translateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return parley.ErrTimeout
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &parley.ProviderError{Status: apiErr.Code, Detail: apiErr.Message}
	}
	return fmt.Errorf("gemini: %w", err)
}
