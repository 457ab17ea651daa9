package selectable

import (
	"fmt"
	"maps"
)

// Origin tells whether an entry was declared in code or synthesised from override data.
type Origin int

const (
	// OriginStatic marks entries declared in a Definition.
	OriginStatic Origin = iota
	// OriginDynamic marks entries that exist only because the override source returned their id.
	OriginDynamic
)

func (o Origin) String() string {
	switch o {
	case OriginStatic:
		return "static"
	case OriginDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Attrs holds the extra attributes of a declared entry, e.g. a discount factor.
type Attrs map[string]any

// Entry is one member of an enumeration. Entries are values and never change
// once built; the merge produces copies carrying the resolved name.
type Entry[ID comparable] struct {
	id     ID
	key    string
	name   string
	attrs  Attrs
	origin Origin
}

func newStaticEntry[ID comparable](def EntryDef[ID]) Entry[ID] {
	var attrs Attrs
	if len(def.Attrs) > 0 {
		attrs = maps.Clone(def.Attrs)
	}
	return Entry[ID]{
		id:     def.ID,
		key:    def.Key,
		name:   def.Name,
		attrs:  attrs,
		origin: OriginStatic,
	}
}

func newDynamicEntry[ID comparable](id ID, key, name string) Entry[ID] {
	if name == "" {
		name = fmt.Sprint(id)
	}
	return Entry[ID]{
		id:     id,
		key:    key,
		name:   name,
		origin: OriginDynamic,
	}
}

// ID returns the persisted value of the entry.
func (e Entry[ID]) ID() ID {
	return e.id
}

// Key returns the symbolic name of the entry.
func (e Entry[ID]) Key() string {
	return e.key
}

// Name returns the display name resolved for the read that produced the entry.
func (e Entry[ID]) Name() string {
	return e.name
}

func (e Entry[ID]) Origin() Origin {
	return e.origin
}

// IsDynamic reports whether the entry was synthesised from an override record.
func (e Entry[ID]) IsDynamic() bool {
	return e.origin == OriginDynamic
}

// Attr returns the named extra attribute. Attributes explicitly declared with
// a zero value are found; only undeclared names yield ErrAttributeNotFound.
func (e Entry[ID]) Attr(name string) (any, error) {
	v, ok := e.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on entry %q", ErrAttributeNotFound, name, e.key)
	}
	return v, nil
}

// HasAttr reports whether the attribute was declared.
func (e Entry[ID]) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// Attrs returns a copy of the extra attributes.
func (e Entry[ID]) Attrs() Attrs {
	return maps.Clone(e.attrs)
}

// ToMap exposes id, key, name and every extra attribute in one map.
func (e Entry[ID]) ToMap() map[string]any {
	m := make(map[string]any, len(e.attrs)+3)
	for k, v := range e.attrs {
		m[k] = v
	}
	m["id"] = e.id
	m["key"] = e.key
	m["name"] = e.name
	return m
}

func (e Entry[ID]) withName(name string) Entry[ID] {
	e.name = name
	return e
}

func (e Entry[ID]) String() string {
	return fmt.Sprintf("%s(%v)", e.key, e.id)
}
