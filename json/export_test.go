package json_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley"
	parleyjson "parley/json"
)

func TestMarshalExport(t *testing.T) {
	t.Parallel()
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	e := parley.Export{
		ID:        "s1",
		Title:     "Welcome Chat",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
		Messages: []parley.Message{
			{ID: "m1", Role: parley.RoleUser, Content: "Hello", Timestamp: created.Add(time.Minute)},
		},
	}

	data, err := parleyjson.MarshalExport(e)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "s1", got["id"])
	assert.Equal(t, "Welcome Chat", got["title"])
	assert.Equal(t, "2026-08-01T10:00:00.000Z", got["createdAt"])
	assert.Equal(t, "2026-08-01T10:01:00.000Z", got["updatedAt"])
	assert.Equal(t, float64(1), got["messageCount"])

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	msg, ok := msgs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "Hello", msg["content"])
	assert.Equal(t, "2026-08-01T10:01:00.000Z", msg["timestamp"])
	assert.NotContains(t, msg, "id")
}

func TestExportFilename(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1700000000000)
	tests := []struct {
		title string
		want  string
	}{
		{"Welcome Chat", "Welcome-Chat-1700000000000.json"},
		{"a  b\tc", "a-b-c-1700000000000.json"},
		{"notes/2026", "notes-2026-1700000000000.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parleyjson.ExportFilename(tt.title, now))
	}
}
