package source

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/pitabwire/selectable/datastore"
)

type itemMastersOptions struct {
	localized bool
}

// ItemMastersOption configures ItemMasters.
type ItemMastersOption func(*itemMastersOptions)

// Localized restricts rows to the locale of the read.
func Localized() ItemMastersOption {
	return func(o *itemMastersOptions) {
		o.localized = true
	}
}

type itemMasters struct {
	db       *gorm.DB
	category string
	opts     itemMastersOptions
}

// ItemMasters reads the item_masters rows of category ordered by item_no.
func ItemMasters(db *gorm.DB, category string, opts ...ItemMastersOption) Source[string] {
	im := &itemMasters{db: db, category: category}
	for _, opt := range opts {
		opt(&im.opts)
	}
	return im
}

func (s *itemMasters) Fetch(ctx context.Context, locale string) ([]Record[string], error) {
	var rows []datastore.ItemMaster

	q := s.db.WithContext(ctx).
		Select("item_cd", "name").
		Where("category_name = ?", s.category)
	if s.opts.localized {
		q = q.Where("locale = ?", locale)
	}

	if err := q.Order("item_no").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("item_masters %s: %w", s.category, err)
	}

	records := make([]Record[string], len(rows))
	for i, row := range rows {
		records[i] = Record[string]{ID: row.ItemCd}
		if row.Name != nil {
			records[i].Name = *row.Name
		}
	}
	return records, nil
}

func (s *itemMasters) LocaleSensitive() bool {
	return s.opts.localized
}

type querySource[ID comparable] struct {
	db        *gorm.DB
	query     string
	args      []any
	localized bool
}

// Query runs raw SQL whose first two columns are the id and the optional name.
func Query[ID comparable](db *gorm.DB, query string, args ...any) Source[ID] {
	return &querySource[ID]{db: db, query: query, args: args}
}

// LocaleQuery is like Query, binding the locale of the read to @locale. Other
// arguments must be named too.
func LocaleQuery[ID comparable](db *gorm.DB, query string, args ...any) Source[ID] {
	return &querySource[ID]{db: db, query: query, args: args, localized: true}
}

func (s *querySource[ID]) Fetch(ctx context.Context, locale string) ([]Record[ID], error) {
	args := s.args
	if s.localized {
		args = append([]any{sql.Named("locale", locale)}, s.args...)
	}

	rows, err := s.db.WithContext(ctx).Raw(s.query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []Record[ID]
	for rows.Next() {
		var (
			id   ID
			name sql.NullString
		)
		if err = rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		records = append(records, Record[ID]{ID: id, Name: name.String})
	}
	return records, rows.Err()
}

func (s *querySource[ID]) LocaleSensitive() bool {
	return s.localized
}
