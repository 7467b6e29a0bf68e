package json_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley"
	parleyjson "parley/json"
)

func testSessions() []parley.Session {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return []parley.Session{
		{
			ID:    "s1",
			Title: "Welcome Chat",
			Messages: []parley.Message{
				{ID: "m1", Role: parley.RoleUser, Content: "Hello", Timestamp: created.Add(time.Minute)},
				{ID: "m2", Role: parley.RoleAssistant, Content: "Hi! How can I help?", Timestamp: created.Add(2 * time.Minute)},
			},
			CreatedAt: created,
			UpdatedAt: created.Add(2 * time.Minute),
		},
		{
			ID:        "s2",
			Title:     "Chat 8/2/2026",
			CreatedAt: created.Add(time.Hour),
			UpdatedAt: created.Add(time.Hour),
		},
	}
}

func TestSessions_RoundTrip(t *testing.T) {
	t.Parallel()
	want := testSessions()

	data, err := parleyjson.MarshalSessions(want)
	require.NoError(t, err)

	got, err := parleyjson.UnmarshalSessions(data)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.Equal(t, want[0].Title, got[0].Title)
	require.Len(t, got[0].Messages, 2)
	assert.Equal(t, want[0].Messages[0], got[0].Messages[0])
	assert.Equal(t, want[0].Messages[1], got[0].Messages[1])
	assert.True(t, want[0].CreatedAt.Equal(got[0].CreatedAt))
	assert.True(t, want[0].UpdatedAt.Equal(got[0].UpdatedAt))
	assert.Empty(t, got[1].Messages)
}

func TestUnmarshalSessions_Corrupt(t *testing.T) {
	t.Parallel()
	_, err := parleyjson.UnmarshalSessions([]byte("{not json"))
	assert.Error(t, err)
}
