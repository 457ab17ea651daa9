// Package valkey keeps enumeration snapshots in Valkey using the official client.
package valkey

import (
	"context"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/pitabwire/selectable/cache"
)

const (
	connectionTimeout = 5 * time.Second
	scanBatch         = 100
)

// Store is a Valkey-backed snapshot store. All keys live under the store name.
type Store struct {
	client    valkey.Client
	namespace string
	maxAge    time.Duration
}

// New connects to the Valkey server named by the DSN option. Both valkey://
// and redis:// URLs are accepted.
func New(opts ...cache.Option) (*Store, error) {
	o := cache.NewOptions(opts...)

	dsn := o.DSN.String()
	if strings.HasPrefix(dsn, "valkey://") {
		dsn = "redis://" + strings.TrimPrefix(dsn, "valkey://")
	}

	valkeyOpts, err := valkey.ParseURL(dsn)
	if err != nil {
		return nil, err
	}

	client, err := valkey.NewClient(valkeyOpts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if pingErr := client.Do(ctx, client.B().Ping().Build()).Error(); pingErr != nil {
		client.Close()
		return nil, pingErr
	}

	return &Store{
		client:    client,
		namespace: o.Name,
		maxAge:    o.MaxAge,
	}, nil
}

func (vc *Store) key(k string) string {
	return vc.namespace + ":" + k
}

// Get retrieves a snapshot.
func (vc *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	resp := vc.client.Do(ctx, vc.client.B().Get().Key(vc.key(key)).Build())
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	val, err := resp.AsBytes()
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores a snapshot, falling back to the store max age when ttl is unset.
func (vc *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = vc.maxAge
	}

	set := vc.client.B().Set().Key(vc.key(key)).Value(valkey.BinaryString(value))
	if ttl <= 0 {
		return vc.client.Do(ctx, set.Build()).Error()
	}

	// Valkey expiry has second granularity.
	seconds := int64(ttl.Seconds())
	if seconds == 0 {
		seconds = 1
	}
	return vc.client.Do(ctx, set.ExSeconds(seconds).Build()).Error()
}

// Delete removes a snapshot.
func (vc *Store) Delete(ctx context.Context, key string) error {
	return vc.client.Do(ctx, vc.client.B().Del().Key(vc.key(key)).Build()).Error()
}

// Flush removes the snapshots of this namespace only.
func (vc *Store) Flush(ctx context.Context) error {
	var cursor uint64
	for {
		resp := vc.client.Do(ctx, vc.client.B().Scan().Cursor(cursor).Match(vc.namespace+":*").Count(scanBatch).Build())
		entry, err := resp.AsScanEntry()
		if err != nil {
			return err
		}

		if len(entry.Elements) > 0 {
			if err = vc.client.Do(ctx, vc.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return err
			}
		}

		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

// Close closes the Valkey connection.
func (vc *Store) Close() error {
	vc.client.Close()
	return nil
}
