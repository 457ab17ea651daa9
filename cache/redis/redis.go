// Package redis keeps enumeration snapshots in Redis so several processes can
// share the result of a "once" fetch.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pitabwire/selectable/cache"
)

const (
	connectionTimeout = 5 * time.Second
	scanBatch         = 100
)

// Store is a Redis-backed snapshot store. All keys live under the store name.
type Store struct {
	client    *redis.Client
	namespace string
	maxAge    time.Duration
}

// New connects to the Redis server named by the DSN option.
func New(opts ...cache.Option) (*Store, error) {
	o := cache.NewOptions(opts...)

	redisOpts, err := redis.ParseURL(o.DSN.String())
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Store{
		client:    client,
		namespace: o.Name,
		maxAge:    o.MaxAge,
	}, nil
}

func (rc *Store) key(k string) string {
	return rc.namespace + ":" + k
}

// Get retrieves a snapshot.
func (rc *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := rc.client.Get(ctx, rc.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

// Set stores a snapshot, falling back to the store max age when ttl is unset.
func (rc *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = rc.maxAge
	}
	return rc.client.Set(ctx, rc.key(key), value, ttl).Err()
}

// Delete removes a snapshot.
func (rc *Store) Delete(ctx context.Context, key string) error {
	return rc.client.Del(ctx, rc.key(key)).Err()
}

// Flush removes the snapshots of this namespace only; other data in the
// database is left alone.
func (rc *Store) Flush(ctx context.Context) error {
	iter := rc.client.Scan(ctx, 0, rc.namespace+":*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.client.Del(ctx, keys...).Err()
}

// Close closes the Redis connection.
func (rc *Store) Close() error {
	return rc.client.Close()
}
