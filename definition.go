package selectable

import (
	"time"

	"github.com/pitabwire/selectable/cache"
	"github.com/pitabwire/selectable/source"
)

// EntryDef declares one static entry.
type EntryDef[ID comparable] struct {
	ID    ID
	Key   string
	Name  string
	Attrs Attrs
}

// Definition is the immutable configuration an Enum is built from.
type Definition[ID comparable] struct {
	// Name identifies the enumeration, usually the host type name.
	Name string
	// Attribute is the host field the enumeration is attached to, e.g. "product_type_cd".
	Attribute string
	// Scope is the translation catalog path. When empty and both Name and
	// Attribute are set, it defaults to selectable_attrs.<Name>.<Attribute>.
	Scope   []string
	Entries []EntryDef[ID]

	// Default pre-populates new host values. DefaultKey is resolved to an id
	// when Default is nil.
	Default    *ID
	DefaultKey string

	Source source.Source[ID]
	Policy Policy
}

// DefaultScopeRoot is the first element of the scope given to host-attached enumerations.
const DefaultScopeRoot = "selectable_attrs"

func (d Definition[ID]) scope() []string {
	if len(d.Scope) > 0 {
		return append([]string(nil), d.Scope...)
	}
	if d.Name != "" && d.Attribute != "" {
		return []string{DefaultScopeRoot, d.Name, d.Attribute}
	}
	return nil
}

type enumOptions struct {
	translator    Translator
	store         cache.Store
	snapshotTTL   time.Duration
	registry      *Registry
	defaultLocale string
	generation    string
}

// Option configures the collaborators of an Enum.
type Option func(*enumOptions)

// WithTranslator sets the catalog used to resolve display names.
func WithTranslator(t Translator) Option {
	return func(o *enumOptions) {
		o.translator = t
	}
}

// WithStore sets where override snapshots of the once policy are kept.
// The default is a private in-memory store.
func WithStore(store cache.Store) Option {
	return func(o *enumOptions) {
		o.store = store
	}
}

// WithSnapshotTTL bounds how long a once snapshot is kept in the store.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(o *enumOptions) {
		o.snapshotTTL = ttl
	}
}

// WithRegistry registers the enumeration on construction.
func WithRegistry(r *Registry) Option {
	return func(o *enumOptions) {
		o.registry = r
	}
}

// WithDefaultLocale is the locale used when the context carries none.
func WithDefaultLocale(locale string) Option {
	return func(o *enumOptions) {
		o.defaultLocale = locale
	}
}

// WithGeneration pins the cache generation. Enumerations sharing a store and
// a generation share their once snapshots.
func WithGeneration(generation string) Option {
	return func(o *enumOptions) {
		o.generation = generation
	}
}
