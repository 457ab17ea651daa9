// Package naming derives the accessor names of a host field bound to an
// enumeration, e.g. product_type_cd gives product_type_key,
// product_type_name and product_type_options.
package naming

import "regexp"

// DefaultPattern strips the code suffixes host fields usually carry.
var DefaultPattern = regexp.MustCompile(`(_cd$|_code$|_cds$|_codes$)`)

type options struct {
	pattern  *regexp.Regexp
	baseName string
}

type Option func(*options)

// WithPattern replaces DefaultPattern. Every match is removed from the field name.
func WithPattern(re *regexp.Regexp) Option {
	return func(o *options) {
		if re != nil {
			o.pattern = re
		}
	}
}

// WithBaseName sets the base name outright, bypassing the pattern.
func WithBaseName(base string) Option {
	return func(o *options) {
		o.baseName = base
	}
}

// Names holds the field name and the base every accessor name is built from.
type Names struct {
	Field string
	Base  string
}

// New derives the names for field. When stripping leaves nothing, the field
// name itself is the base.
func New(field string, opts ...Option) Names {
	o := &options{pattern: DefaultPattern}
	for _, opt := range opts {
		opt(o)
	}

	base := o.baseName
	if base == "" {
		base = o.pattern.ReplaceAllString(field, "")
	}
	if base == "" {
		base = field
	}
	return Names{Field: field, Base: base}
}

func (n Names) with(suffix string) string {
	return n.Base + "_" + suffix
}

func (n Names) Key() string       { return n.with("key") }
func (n Names) Name() string      { return n.with("name") }
func (n Names) Entry() string     { return n.with("entry") }
func (n Names) Options() string   { return n.with("options") }
func (n Names) IDs() string       { return n.with("ids") }
func (n Names) Keys() string      { return n.with("keys") }
func (n Names) Names() string     { return n.with("names") }
func (n Names) IDByKey() string   { return n.with("id_by_key") }
func (n Names) KeyByID() string   { return n.with("key_by_id") }
func (n Names) NameByKey() string { return n.with("name_by_key") }
func (n Names) NameByID() string  { return n.with("name_by_id") }
func (n Names) Entries() string   { return n.with("entries") }
func (n Names) HashArray() string { return n.with("hash_array") }

// Accessors lists every derived name.
func (n Names) Accessors() []string {
	return []string{
		n.Key(), n.Name(), n.Entry(), n.Options(),
		n.IDs(), n.Keys(), n.Names(),
		n.IDByKey(), n.KeyByID(), n.NameByKey(), n.NameByID(),
		n.Entries(), n.HashArray(),
	}
}
