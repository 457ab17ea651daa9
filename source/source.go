// Package source provides the override sources an enumeration can consult
// at read time. A source returns ordered (id, name) records; their order
// defines the effective order of the enumeration and an empty name means
// "keep the declared name".
package source

import (
	"context"
)

// Record is one override row: an active id and an optional display name.
type Record[ID comparable] struct {
	ID   ID     `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name,omitempty"`
}

// Source fetches the current override records.
type Source[ID comparable] interface {
	// Fetch returns records in the order they should appear. Locale-insensitive
	// sources ignore the locale argument.
	Fetch(ctx context.Context, locale string) ([]Record[ID], error)
	// LocaleSensitive reports whether Fetch results depend on the locale.
	LocaleSensitive() bool
}

type funcSource[ID comparable] struct {
	fetch func(ctx context.Context) ([]Record[ID], error)
}

// Func adapts a locale-insensitive fetch function.
func Func[ID comparable](fetch func(ctx context.Context) ([]Record[ID], error)) Source[ID] {
	return &funcSource[ID]{fetch: fetch}
}

func (f *funcSource[ID]) Fetch(ctx context.Context, _ string) ([]Record[ID], error) {
	return f.fetch(ctx)
}

func (f *funcSource[ID]) LocaleSensitive() bool {
	return false
}

type localeFuncSource[ID comparable] struct {
	fetch func(ctx context.Context, locale string) ([]Record[ID], error)
}

// LocaleFunc adapts a fetch function whose result depends on the locale.
func LocaleFunc[ID comparable](fetch func(ctx context.Context, locale string) ([]Record[ID], error)) Source[ID] {
	return &localeFuncSource[ID]{fetch: fetch}
}

func (f *localeFuncSource[ID]) Fetch(ctx context.Context, locale string) ([]Record[ID], error) {
	return f.fetch(ctx, locale)
}

func (f *localeFuncSource[ID]) LocaleSensitive() bool {
	return true
}

// Static returns a source that always yields the same records.
func Static[ID comparable](records ...Record[ID]) Source[ID] {
	snapshot := append([]Record[ID](nil), records...)
	return Func(func(_ context.Context) ([]Record[ID], error) {
		return append([]Record[ID](nil), snapshot...), nil
	})
}
