package catalog

import (
	"fmt"

	"github.com/pitabwire/selectable/cache"
	"github.com/pitabwire/selectable/cache/jetstream"
	"github.com/pitabwire/selectable/cache/redis"
	"github.com/pitabwire/selectable/cache/valkey"
	"github.com/pitabwire/selectable/config"
)

// OpenStore opens the snapshot store named by the cache URL: mem:// keeps
// snapshots in process, redis:// and valkey:// use those servers and nats://
// a JetStream key value bucket.
func OpenStore(cfg config.ConfigurationCache) (cache.Store, error) {
	dsn := cfg.GetCacheURL()
	opts := []cache.Option{
		cache.WithDSN(dsn),
		cache.WithName(cfg.GetCacheName()),
		cache.WithMaxAge(cfg.GetCacheMaxAge()),
	}

	var (
		store cache.Store
		err   error
	)
	switch {
	case dsn == "" || dsn.IsMem():
		return cache.NewInMemoryStore(opts...), nil
	case dsn.IsRedis():
		store, err = remote(redis.New(opts...))
	case dsn.IsValkey():
		store, err = remote(valkey.New(opts...))
	case dsn.IsNats():
		store, err = remote(jetstream.New(opts...))
	default:
		return nil, fmt.Errorf("unsupported cache url %s", dsn.Redacted())
	}
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dsn.Redacted(), err)
	}
	return store, nil
}

func remote[S cache.Store](store S, err error) (cache.Store, error) {
	if err != nil {
		return nil, err
	}
	return store, nil
}
