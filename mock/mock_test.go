package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley"
	"parley/mock"
)

func TestCompleter_Delegates(t *testing.T) {
	t.Parallel()
	c := &mock.Completer{
		CompleteFn: func(_ context.Context, history []parley.Turn) (string, error) {
			assert.Len(t, history, 1)
			return "reply", nil
		},
	}
	got, err := c.Complete(context.Background(), []parley.Turn{{Role: parley.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "reply", got)
}

func TestKV_MapFallthrough(t *testing.T) {
	t.Parallel()
	kv := &mock.KV{}

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("k", []byte("v")))
	value, ok, err := kv.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, kv.Delete("k"))
	_, ok, err = kv.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKV_FunctionFieldOverride(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	kv := &mock.KV{
		SetFn: func(string, []byte) error { return boom },
	}
	assert.ErrorIs(t, kv.Set("k", nil), boom)
}
