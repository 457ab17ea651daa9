package selectable

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/pitabwire/selectable/cache"
	"github.com/pitabwire/selectable/localization"
)

// Enum is a named, ordered enumeration. Its declared entries never change;
// the effective list is recomputed from them on every read according to the
// refresh policy.
type Enum[ID comparable] struct {
	name      string
	attribute string
	scope     []string
	statics   []Entry[ID]

	defaultID *ID

	translator    Translator
	defaultLocale string
	refresh       *refresher[ID]
}

// New validates def and builds an Enum from it.
func New[ID comparable](def Definition[ID], opts ...Option) (*Enum[ID], error) {
	if def.Name == "" {
		return nil, ErrMissingName
	}

	o := &enumOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = cache.NewInMemoryStore()
	}
	if o.generation == "" {
		o.generation = xid.New().String()
	}

	statics, err := declare(def)
	if err != nil {
		return nil, err
	}

	e := &Enum[ID]{
		name:          def.Name,
		attribute:     def.Attribute,
		scope:         def.scope(),
		statics:       statics,
		translator:    o.translator,
		defaultLocale: o.defaultLocale,
		refresh:       newRefresher(def.Name, def.Source, def.Policy, o),
	}

	switch {
	case def.Default != nil:
		id := *def.Default
		e.defaultID = &id
	case def.DefaultKey != "":
		id, ok := lookupKey(statics, def.DefaultKey)
		if !ok {
			return nil, fmt.Errorf("%w: key %q of %s", ErrUnknownDefault, def.DefaultKey, def.Name)
		}
		e.defaultID = &id
	}

	if o.registry != nil {
		o.registry.Register(e)
	}
	return e, nil
}

// MustNew is like New but panics on an invalid definition.
func MustNew[ID comparable](def Definition[ID], opts ...Option) *Enum[ID] {
	e, err := New(def, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func declare[ID comparable](def Definition[ID]) ([]Entry[ID], error) {
	ids := make(map[ID]struct{}, len(def.Entries))
	keys := make(map[string]struct{}, len(def.Entries))
	statics := make([]Entry[ID], 0, len(def.Entries))

	for _, d := range def.Entries {
		if d.Key == "" {
			return nil, fmt.Errorf("%w: id %v of %s", ErrEmptyKey, d.ID, def.Name)
		}
		if _, dup := ids[d.ID]; dup {
			return nil, fmt.Errorf("%w: %v in %s", ErrDuplicateID, d.ID, def.Name)
		}
		if _, dup := keys[d.Key]; dup {
			return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateKey, d.Key, def.Name)
		}
		ids[d.ID] = struct{}{}
		keys[d.Key] = struct{}{}
		statics = append(statics, newStaticEntry(d))
	}
	return statics, nil
}

func lookupKey[ID comparable](entries []Entry[ID], key string) (ID, bool) {
	for _, e := range entries {
		if e.key == key {
			return e.id, true
		}
	}
	var zero ID
	return zero, false
}

func (e *Enum[ID]) Name() string {
	return e.name
}

// Attribute returns the host field name, empty for standalone enumerations.
func (e *Enum[ID]) Attribute() string {
	return e.attribute
}

// Scope returns the translation scope, nil when names are never translated.
func (e *Enum[ID]) Scope() []string {
	if len(e.scope) == 0 {
		return nil
	}
	return append([]string(nil), e.scope...)
}

// Default returns the id new host values start with.
func (e *Enum[ID]) Default() (ID, bool) {
	if e.defaultID == nil {
		var zero ID
		return zero, false
	}
	return *e.defaultID, true
}

// Declared returns the static entries in declaration order, untranslated.
func (e *Enum[ID]) Declared() []Entry[ID] {
	return append([]Entry[ID](nil), e.statics...)
}

// Locale returns the locale a read with ctx resolves names for.
func (e *Enum[ID]) Locale(ctx context.Context) string {
	return localization.Locale(ctx, e.defaultLocale)
}

// List returns the effective list for the locale carried by ctx. Errors come
// only from the override source.
func (e *Enum[ID]) List(ctx context.Context) (*List[ID], error) {
	records, err := e.refresh.records(ctx, e.Locale(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch overrides of %s: %w", e.name, err)
	}

	entries := merge(e.statics, records)
	resolveNames(ctx, e.translator, e.scope, entries)
	return newList(entries), nil
}

// Entries returns the effective entries.
func (e *Enum[ID]) Entries(ctx context.Context) ([]Entry[ID], error) {
	l, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	return l.Entries(), nil
}

func (e *Enum[ID]) EntryByID(ctx context.Context, id ID) (Entry[ID], bool, error) {
	l, err := e.List(ctx)
	if err != nil {
		return Entry[ID]{}, false, err
	}
	entry, ok := l.EntryByID(id)
	return entry, ok, nil
}

func (e *Enum[ID]) EntryByKey(ctx context.Context, key string) (Entry[ID], bool, error) {
	l, err := e.List(ctx)
	if err != nil {
		return Entry[ID]{}, false, err
	}
	entry, ok := l.EntryByKey(key)
	return entry, ok, nil
}

func (e *Enum[ID]) IDByKey(ctx context.Context, key string) (ID, bool, error) {
	l, err := e.List(ctx)
	if err != nil {
		var zero ID
		return zero, false, err
	}
	id, ok := l.IDByKey(key)
	return id, ok, nil
}

func (e *Enum[ID]) KeyByID(ctx context.Context, id ID) (string, bool, error) {
	l, err := e.List(ctx)
	if err != nil {
		return "", false, err
	}
	key, ok := l.KeyByID(id)
	return key, ok, nil
}

func (e *Enum[ID]) NameByKey(ctx context.Context, key string) (string, bool, error) {
	l, err := e.List(ctx)
	if err != nil {
		return "", false, err
	}
	name, ok := l.NameByKey(key)
	return name, ok, nil
}

func (e *Enum[ID]) NameByID(ctx context.Context, id ID) (string, bool, error) {
	l, err := e.List(ctx)
	if err != nil {
		return "", false, err
	}
	name, ok := l.NameByID(id)
	return name, ok, nil
}

// Options returns (name, id) pairs in effective order.
func (e *Enum[ID]) Options(ctx context.Context) ([]SelectOption[ID], error) {
	l, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	return l.Options(), nil
}

// Translations returns key to name for the current locale. It satisfies Exportable.
func (e *Enum[ID]) Translations(ctx context.Context) (map[string]string, error) {
	l, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, l.Len())
	for _, entry := range l.entries {
		out[entry.key] = entry.name
	}
	return out, nil
}

// Summary describes the enumeration for registry listings and the HTTP surface.
func (e *Enum[ID]) Summary(ctx context.Context) (Summary, error) {
	l, err := e.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Name:      e.name,
		Attribute: e.attribute,
		Scope:     e.Scope(),
		Locale:    e.Locale(ctx),
		Entries:   l.HashArray(),
	}, nil
}
