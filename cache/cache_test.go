package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/selectable/cache"
	cachejetstream "github.com/pitabwire/selectable/cache/jetstream"
	cacheredis "github.com/pitabwire/selectable/cache/redis"
	cachevalkey "github.com/pitabwire/selectable/cache/valkey"
	"github.com/pitabwire/selectable/data"
	"github.com/pitabwire/selectable/internal/testsupport"
	"github.com/pitabwire/selectable/source"
)

// StoreTestSuite runs the store contract against every backend.
type StoreTestSuite struct {
	suite.Suite
	stores map[string]func() cache.Store
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{stores: map[string]func() cache.Store{
		"InMemory": func() cache.Store { return cache.NewInMemoryStore(cache.WithName("suite")) },
	}})
}

func TestRemoteStores(t *testing.T) {
	if testing.Short() {
		t.Skip("remote stores need containers")
	}

	valkeyDSN := testsupport.Valkey(t)
	natsDSN := testsupport.Nats(t)

	open := func(build func(...cache.Option) (cache.Store, error), dsn data.DSN, name string) func() cache.Store {
		return func() cache.Store {
			store, err := build(cache.WithDSN(dsn), cache.WithName(name))
			if err != nil {
				t.Fatalf("could not open %s store: %v", name, err)
			}
			return store
		}
	}

	suite.Run(t, &StoreTestSuite{stores: map[string]func() cache.Store{
		"Redis": open(func(o ...cache.Option) (cache.Store, error) {
			return cacheredis.New(o...)
		}, valkeyDSN, "redis_suite"),
		"Valkey": open(func(o ...cache.Option) (cache.Store, error) {
			return cachevalkey.New(o...)
		}, testsupport.ValkeyAs(valkeyDSN), "valkey_suite"),
		"JetStream": open(func(o ...cache.Option) (cache.Store, error) {
			return cachejetstream.New(o...)
		}, natsDSN, "jetstream_suite"),
	}})
}

func (s *StoreTestSuite) each(fn func(name string, store cache.Store)) {
	for name, build := range s.stores {
		s.Run(name, func() {
			store := build()
			defer func() { _ = store.Close() }()
			fn(name, store)
		})
	}
}

func (s *StoreTestSuite) TestBasicOperations() {
	ctx := context.Background()

	s.each(func(name string, store cache.Store) {
		tests := []struct {
			testName string
			key      string
			value    []byte
			ttl      time.Duration
		}{
			{"Simple value", "product_type:gen:", []byte(`[{"id":"01"}]`), 0},
			{"With TTL", "product_type:gen:ja", []byte(`[{"id":"02"}]`), time.Hour},
			{"Large value", "large:gen:", make([]byte, 1024), 0},
		}

		for _, tt := range tests {
			s.Run(tt.testName, func() {
				key := name + ":" + tt.key
				s.Require().NoError(store.Set(ctx, key, tt.value, tt.ttl))

				value, found, err := store.Get(ctx, key)
				s.Require().NoError(err)
				s.True(found)
				s.Equal(tt.value, value)

				s.Require().NoError(store.Delete(ctx, key))

				_, found, err = store.Get(ctx, key)
				s.Require().NoError(err)
				s.False(found)
			})
		}
	})
}

func (s *StoreTestSuite) TestMissingKeys() {
	ctx := context.Background()

	s.each(func(name string, store cache.Store) {
		_, found, err := store.Get(ctx, name+":missing")
		s.Require().NoError(err)
		s.False(found)

		s.Require().NoError(store.Delete(ctx, name+":missing"))
	})
}

func (s *StoreTestSuite) TestFlush() {
	ctx := context.Background()

	s.each(func(name string, store cache.Store) {
		for i := range 5 {
			key := fmt.Sprintf("flush:%s:%d", name, i)
			s.Require().NoError(store.Set(ctx, key, []byte("snapshot"), 0))
		}

		s.Require().NoError(store.Flush(ctx))

		_, found, err := store.Get(ctx, fmt.Sprintf("flush:%s:0", name))
		s.Require().NoError(err)
		s.False(found)
	})
}

func (s *StoreTestSuite) TestConcurrentAccess() {
	ctx := context.Background()

	s.each(func(name string, store cache.Store) {
		const goroutines = 20
		const iterations = 5

		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := range goroutines {
			go func(id int) {
				defer wg.Done()
				for j := range iterations {
					key := fmt.Sprintf("concurrent:%s:%d:%d", name, id, j)
					_ = store.Set(ctx, key, []byte("snapshot"), time.Hour)
				}
			}(i)
		}
		wg.Wait()

		for i := range goroutines {
			for j := range iterations {
				key := fmt.Sprintf("concurrent:%s:%d:%d", name, i, j)
				_, found, err := store.Get(ctx, key)
				s.Require().NoError(err)
				s.True(found, "Key %s should exist", key)
			}
		}
	})
}

func (s *StoreTestSuite) TestTypedSnapshots() {
	ctx := context.Background()

	s.each(func(_ string, store cache.Store) {
		snapshots := cache.NewTyped[[]source.Record[string]](store, "typed", 0)

		records := []source.Record[string]{{ID: "09", Name: "Others"}, {ID: "02"}}
		s.Require().NoError(snapshots.Set(ctx, "product_type:en", records))

		got, found, err := snapshots.Get(ctx, "product_type:en")
		s.Require().NoError(err)
		s.True(found)
		s.Equal(records, got)

		s.Require().NoError(snapshots.Delete(ctx, "product_type:en"))
		_, found, err = snapshots.Get(ctx, "product_type:en")
		s.Require().NoError(err)
		s.False(found)
	})
}
