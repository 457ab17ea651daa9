// Package cache stores override snapshots for enumerations refreshed with
// the "once" policy. A Store holds raw bytes; Typed layers JSON encoding on
// top so callers can keep record slices directly.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Store is the byte-level snapshot store implemented by every backend.
type Store interface {
	// Get returns the stored value and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl <= 0 keeps it until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Flush drops every snapshot held by the store.
	Flush(ctx context.Context) error
	Close() error
}

// Typed wraps a Store and encodes values as JSON under a key prefix.
type Typed[V any] struct {
	store  Store
	prefix string
	ttl    time.Duration
}

// NewTyped creates a typed view over store. Keys are namespaced with prefix.
func NewTyped[V any](store Store, prefix string, ttl time.Duration) *Typed[V] {
	return &Typed[V]{
		store:  store,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (t *Typed[V]) key(k string) string {
	if t.prefix == "" {
		return k
	}
	return t.prefix + ":" + k
}

// Get decodes the value stored under key.
func (t *Typed[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var value V
	data, found, err := t.store.Get(ctx, t.key(key))
	if err != nil || !found {
		return value, false, err
	}

	if err = json.Unmarshal(data, &value); err != nil {
		return value, false, err
	}
	return value, true, nil
}

// Set encodes value and stores it under key with the view's ttl.
func (t *Typed[V]) Set(ctx context.Context, key string, value V) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.store.Set(ctx, t.key(key), data, t.ttl)
}

func (t *Typed[V]) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, t.key(key))
}
