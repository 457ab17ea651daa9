// Package jetstream keeps enumeration snapshots in a NATS JetStream
// key-value bucket named after the store.
package jetstream

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pitabwire/selectable/cache"
)

// Store is a JetStream KV backed snapshot store. Expiry is a property of the
// bucket, so per-key ttls passed to Set are ignored.
type Store struct {
	conn   *nats.Conn
	bucket nats.KeyValue
}

// New connects to NATS and opens, or creates, the bucket named by the store name.
func New(opts ...cache.Option) (*Store, error) {
	o := cache.NewOptions(opts...)

	natsConn, err := nats.Connect(o.DSN.String())
	if err != nil {
		return nil, err
	}

	js, err := natsConn.JetStream()
	if err != nil {
		natsConn.Close()
		return nil, err
	}

	bucket, err := js.CreateKeyValue(&nats.KeyValueConfig{
		Bucket: o.Name,
		TTL:    o.MaxAge,
	})
	if err != nil {
		var apiErr *nats.APIError
		if !errors.As(err, &apiErr) || apiErr.ErrorCode != nats.JSErrCodeStreamNameInUse {
			natsConn.Close()
			return nil, err
		}

		bucket, err = js.KeyValue(o.Name)
		if err != nil {
			natsConn.Close()
			return nil, err
		}
	}

	return &Store{
		conn:   natsConn,
		bucket: bucket,
	}, nil
}

// KV keys only allow a restricted alphabet; snapshot keys contain ':' and
// locale tags, so they are stored base64url encoded.
func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// Get retrieves a snapshot.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, err := s.bucket.Get(encodeKey(key))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return entry.Value(), true, nil
}

// Set stores a snapshot.
func (s *Store) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	_, err := s.bucket.Put(encodeKey(key), value)
	return err
}

// Delete removes a snapshot.
func (s *Store) Delete(_ context.Context, key string) error {
	err := s.bucket.Delete(encodeKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Flush purges every snapshot in the bucket.
func (s *Store) Flush(_ context.Context) error {
	keys, err := s.bucket.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil
		}
		return err
	}

	for _, key := range keys {
		if err = s.bucket.Purge(key); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the NATS connection.
func (s *Store) Close() error {
	s.conn.Close()
	return nil
}
