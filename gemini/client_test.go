package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"parley"
	"parley/gemini"
)

func TestConvertTurns_RoleMapping(t *testing.T) {
	t.Parallel()
	turns := []parley.Turn{
		{Role: parley.RoleUser, Content: "Hello"},
		{Role: parley.RoleAssistant, Content: "Hi there"},
		{Role: parley.RoleUser, Content: "How are you?"},
	}
	got := gemini.ConvertTurns(turns)
	require.Len(t, got, 3)

	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "user", got[2].Role)

	require.Len(t, got[1].Parts, 1)
	assert.Equal(t, "Hi there", got[1].Parts[0].Text)
}

func TestConvertTurns_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, gemini.ConvertTurns(nil))
}

func TestExtractText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{
			name: "text in first part",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: "answer"}}},
				}},
			},
			want: "answer",
		},
		{
			name: "nil response",
			resp: nil,
			want: "No response generated",
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
			want: "No response generated",
		},
		{
			name: "candidate without content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{}},
			},
			want: "No response generated",
		},
		{
			name: "empty first part",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: ""}}},
				}},
			},
			want: "No response generated",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, gemini.ExtractText(tt.resp))
		})
	}
}

func TestTranslateError_DeadlineToTimeout(t *testing.T) {
	t.Parallel()
	err := gemini.TranslateError(context.DeadlineExceeded)
	assert.ErrorIs(t, err, parley.ErrTimeout)
}

func TestTranslateError_APIErrorToProviderError(t *testing.T) {
	t.Parallel()
	err := gemini.TranslateError(genai.APIError{Code: 403, Message: "bad key"})

	var pe *parley.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 403, pe.Status)
	assert.Equal(t, "bad key", pe.Detail)
}

func TestTranslateError_TransportErrorWrapped(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := gemini.TranslateError(cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "gemini")
}

func TestNew_MissingKey(t *testing.T) {
	t.Parallel()
	_, err := gemini.New(context.Background(), "")
	assert.ErrorIs(t, err, parley.ErrNoAPIKey)
}
