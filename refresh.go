package selectable

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pitabwire/util"

	"github.com/pitabwire/selectable/cache"
	"github.com/pitabwire/selectable/source"
)

// snapshot is the in-process copy of one fetch under the once policy.
type snapshot[ID comparable] struct {
	records []source.Record[ID]
	expires time.Time
}

func (s snapshot[ID]) expired(now time.Time) bool {
	return !s.expires.IsZero() && now.After(s.expires)
}

// refresher decides when the override source is queried.
type refresher[ID comparable] struct {
	name       string
	generation string
	src        source.Source[ID]
	policy     Policy
	ttl        time.Duration

	// shared is the store other enums and processes of the same generation
	// read from. Only snapshots that decode back to the fetched records go there.
	shared *cache.Typed[[]source.Record[ID]]

	// mu guards local and the compute-if-absent transition of once snapshots.
	mu    sync.Mutex
	local map[string]snapshot[ID]
}

func newRefresher[ID comparable](name string, src source.Source[ID], policy Policy, o *enumOptions) *refresher[ID] {
	r := &refresher[ID]{
		name:       name,
		generation: o.generation,
		src:        src,
		policy:     policy,
		ttl:        o.snapshotTTL,
	}
	if src != nil && policy == Once {
		r.shared = cache.NewTyped[[]source.Record[ID]](o.store, "selectable:"+name, o.snapshotTTL)
		r.local = map[string]snapshot[ID]{}
	}
	return r
}

// records returns the override records to merge for a read in locale.
func (r *refresher[ID]) records(ctx context.Context, locale string) ([]source.Record[ID], error) {
	if r.src == nil {
		return nil, nil
	}

	if !r.src.LocaleSensitive() {
		locale = ""
	}

	if r.policy == EveryTime {
		return r.src.Fetch(ctx, locale)
	}

	key := r.generation + ":" + locale
	log := util.Log(ctx).WithField("enumeration", r.name).WithField("snapshot", key)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if snap, ok := r.local[key]; ok && !snap.expired(now) {
		return snap.records, nil
	}

	records, found, err := r.shared.Get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("could not read shared override snapshot, fetching again")
	} else if found {
		r.keep(key, records, now)
		return records, nil
	}

	records, err = r.src.Fetch(ctx, locale)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []source.Record[ID]{}
	}
	r.keep(key, records, now)

	if !survivesEncoding(records) {
		log.Debug("override snapshot does not survive encoding, keeping it in process only")
		return records, nil
	}
	if err = r.shared.Set(ctx, key, records); err != nil {
		log.WithError(err).Warn("could not store shared override snapshot")
	}
	return records, nil
}

func (r *refresher[ID]) keep(key string, records []source.Record[ID], now time.Time) {
	snap := snapshot[ID]{records: records}
	if r.ttl > 0 {
		snap.expires = now.Add(r.ttl)
	}
	r.local[key] = snap
}

// survivesEncoding reports whether records decode back unchanged from the
// JSON the shared store holds. Interface ids lose their numeric type, struct
// ids without exported fields lose their value and invalid UTF-8 in names is
// replaced, so such snapshots are never shared.
func survivesEncoding[ID comparable](records []source.Record[ID]) bool {
	data, err := json.Marshal(records)
	if err != nil {
		return false
	}
	var decoded []source.Record[ID]
	if err = json.Unmarshal(data, &decoded); err != nil || len(decoded) != len(records) {
		return false
	}
	for i := range records {
		if decoded[i] != records[i] {
			return false
		}
	}
	return true
}
