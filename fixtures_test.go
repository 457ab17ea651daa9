package selectable_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pitabwire/selectable"
	"github.com/pitabwire/selectable/localization"
	"github.com/pitabwire/selectable/source"
)

func products() []selectable.EntryDef[string] {
	return []selectable.EntryDef[string]{
		{ID: "01", Key: "book", Name: "書籍", Attrs: selectable.Attrs{"discount": 0.8}},
		{ID: "02", Key: "dvd", Name: "DVD", Attrs: selectable.Attrs{"discount": 0.2}},
		{ID: "03", Key: "cd", Name: "CD", Attrs: selectable.Attrs{"discount": 0.5}},
		{ID: "09", Key: "other", Name: "その他", Attrs: selectable.Attrs{"discount": 1}},
	}
}

func enum1() []selectable.EntryDef[int] {
	return []selectable.EntryDef[int]{
		{ID: 1, Key: "entry1", Name: "エントリ1"},
		{ID: 2, Key: "entry2", Name: "エントリ2"},
		{ID: 3, Key: "entry3", Name: "エントリ3"},
	}
}

// itemMasters plays the override table: rows per locale, "" for locale-free rows.
type itemMasters struct {
	mu      sync.Mutex
	rows    map[string][]source.Record[string]
	fetches atomic.Int32
	delay   time.Duration
	err     error
}

func newItemMasters() *itemMasters {
	return &itemMasters{rows: map[string][]source.Record[string]{}}
}

func (m *itemMasters) set(locale string, records ...source.Record[string]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[locale] = records
}

func (m *itemMasters) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *itemMasters) fetch(_ context.Context, locale string) ([]source.Record[string], error) {
	m.fetches.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]source.Record[string](nil), m.rows[locale]...), nil
}

func (m *itemMasters) Source() source.Source[string] {
	return source.Func(func(ctx context.Context) ([]source.Record[string], error) {
		return m.fetch(ctx, "")
	})
}

func (m *itemMasters) LocaleSource() source.Source[string] {
	return source.LocaleFunc(m.fetch)
}

func rec(id, name string) source.Record[string] {
	return source.Record[string]{ID: id, Name: name}
}

var errDatabaseDown = errors.New("database down")

func inLocale(locale string) context.Context {
	return localization.WithLocale(context.Background(), locale)
}
