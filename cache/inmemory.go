package cache

import (
	"context"
	"sync"
	"time"
)

type inMemoryItem struct {
	value      []byte
	expiration time.Time
}

func (i inMemoryItem) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// InMemoryStore keeps snapshots in process memory. Expired items are dropped
// lazily on access; the store never runs background work.
type InMemoryStore struct {
	mu     sync.RWMutex
	items  map[string]inMemoryItem
	maxAge time.Duration
	closed bool
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	o := NewOptions(opts...)
	return &InMemoryStore{
		items:  map[string]inMemoryItem{},
		maxAge: o.MaxAge,
	}
}

// Get retrieves a snapshot.
func (c *InMemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if item.expired(time.Now()) {
		c.mu.Lock()
		if current, still := c.items[key]; still && current.expired(time.Now()) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return item.value, true, nil
}

// Set stores a snapshot. The store's MaxAge caps the ttl when set.
func (c *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.maxAge > 0 && (ttl <= 0 || ttl > c.maxAge) {
		ttl = c.maxAge
	}

	item := inMemoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiration = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrStoreClosed
	}
	c.items[key] = item
	return nil
}

// Delete removes a snapshot.
func (c *InMemoryStore) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Flush clears all snapshots.
func (c *InMemoryStore) Flush(_ context.Context) error {
	c.mu.Lock()
	c.items = map[string]inMemoryItem{}
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored snapshots, expired ones included.
func (c *InMemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close releases the stored snapshots; later writes fail with ErrStoreClosed.
func (c *InMemoryStore) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.items = map[string]inMemoryItem{}
	return nil
}
