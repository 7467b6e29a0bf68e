// Package mock provides test doubles for parley interfaces using
// function fields.
package mock

import (
	"context"
	"sync"

	"parley"
)

// Interface compliance checks.
var (
	_ parley.Completer = (*Completer)(nil)
	_ parley.KV        = (*KV)(nil)
)

// Completer is a test double for parley.Completer.
// Set CompleteFn before calling Complete.
type Completer struct {
	CompleteFn func(ctx context.Context, history []parley.Turn) (string, error)
}

// Complete delegates to CompleteFn.
func (c *Completer) Complete(ctx context.Context, history []parley.Turn) (string, error) {
	return c.CompleteFn(ctx, history)
}

// KV is an in-memory parley.KV. The zero value is ready to use. Set the
// function fields to override individual operations, e.g. to inject
// failures; unset fields fall through to the in-memory map.
type KV struct {
	GetFn    func(key string) ([]byte, bool, error)
	SetFn    func(key string, value []byte) error
	DeleteFn func(key string) error

	mu   sync.Mutex
	data map[string][]byte
}

// Get delegates to GetFn if set, else reads the in-memory map.
func (kv *KV) Get(key string) ([]byte, bool, error) {
	if kv.GetFn != nil {
		return kv.GetFn(key)
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.data[key]
	return value, ok, nil
}

// Set delegates to SetFn if set, else writes the in-memory map.
func (kv *KV) Set(key string, value []byte) error {
	if kv.SetFn != nil {
		return kv.SetFn(key, value)
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.data == nil {
		kv.data = make(map[string][]byte)
	}
	kv.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete delegates to DeleteFn if set, else removes from the in-memory map.
func (kv *KV) Delete(key string) error {
	if kv.DeleteFn != nil {
		return kv.DeleteFn(key)
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}
