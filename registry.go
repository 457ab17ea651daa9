package selectable

import (
	"context"
	"slices"
	"sync"
)

// Summary is a locale-resolved description of an enumeration.
type Summary struct {
	Name      string           `json:"name"                yaml:"name"`
	Attribute string           `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Scope     []string         `json:"scope,omitempty"     yaml:"scope,omitempty"`
	Locale    string           `json:"locale,omitempty"    yaml:"locale,omitempty"`
	Entries   []map[string]any `json:"entries"             yaml:"entries"`
}

// Exportable is the id-agnostic view of an Enum used by the registry and Export.
type Exportable interface {
	Name() string
	Attribute() string
	Scope() []string
	Translations(ctx context.Context) (map[string]string, error)
	Summary(ctx context.Context) (Summary, error)
}

// RegistryKey identifies an enumeration in a Registry: its name, followed by
// the host attribute when it has one.
func RegistryKey(e Exportable) string {
	if e.Attribute() == "" {
		return e.Name()
	}
	return e.Name() + "." + e.Attribute()
}

// Registry keeps enumerations in registration order. Registering a key again
// replaces the earlier enumeration in place.
type Registry struct {
	mu    sync.RWMutex
	order []string
	enums map[string]Exportable
}

func NewRegistry() *Registry {
	return &Registry{enums: make(map[string]Exportable)}
}

func (r *Registry) Register(e Exportable) {
	key := RegistryKey(e)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.enums[key]; !ok {
		r.order = append(r.order, key)
	}
	r.enums[key] = e
}

func (r *Registry) Lookup(key string) (Exportable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.enums[key]
	return e, ok
}

// Keys returns the registry keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// All returns the registered enumerations in registration order.
func (r *Registry) All() []Exportable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Exportable, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.enums[k])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Export exports every registered enumeration.
func (r *Registry) Export(ctx context.Context) (map[string]any, error) {
	return Export(ctx, r.All()...)
}
