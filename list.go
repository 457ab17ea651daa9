package selectable

// SelectOption is one (name, id) pair used to populate a selection control.
type SelectOption[ID comparable] struct {
	Name string `json:"name" yaml:"name"`
	ID   ID     `json:"id"   yaml:"id"`
}

// List is an immutable snapshot of the effective entries. Lookups of unknown
// ids or keys report absence and never fail.
type List[ID comparable] struct {
	entries []Entry[ID]
	byID    map[ID]int
	byKey   map[string]int
}

func newList[ID comparable](entries []Entry[ID]) *List[ID] {
	l := &List[ID]{
		entries: entries,
		byID:    make(map[ID]int, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		l.byID[e.id] = i
		l.byKey[e.key] = i
	}
	return l
}

func (l *List[ID]) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in effective order.
func (l *List[ID]) Entries() []Entry[ID] {
	return append([]Entry[ID](nil), l.entries...)
}

func (l *List[ID]) EntryByID(id ID) (Entry[ID], bool) {
	i, ok := l.byID[id]
	if !ok {
		return Entry[ID]{}, false
	}
	return l.entries[i], true
}

func (l *List[ID]) EntryByKey(key string) (Entry[ID], bool) {
	if key == "" {
		return Entry[ID]{}, false
	}
	i, ok := l.byKey[key]
	if !ok {
		return Entry[ID]{}, false
	}
	return l.entries[i], true
}

func (l *List[ID]) IDByKey(key string) (ID, bool) {
	e, ok := l.EntryByKey(key)
	return e.id, ok
}

func (l *List[ID]) KeyByID(id ID) (string, bool) {
	e, ok := l.EntryByID(id)
	return e.key, ok
}

func (l *List[ID]) NameByKey(key string) (string, bool) {
	e, ok := l.EntryByKey(key)
	return e.name, ok
}

func (l *List[ID]) NameByID(id ID) (string, bool) {
	e, ok := l.EntryByID(id)
	return e.name, ok
}

// IDs returns every id in effective order.
func (l *List[ID]) IDs() []ID {
	out := make([]ID, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.id
	}
	return out
}

func (l *List[ID]) Keys() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.key
	}
	return out
}

func (l *List[ID]) Names() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.name
	}
	return out
}

// IDsByKeys projects keys to ids in the given order, skipping unknown keys.
func (l *List[ID]) IDsByKeys(keys ...string) []ID {
	out := make([]ID, 0, len(keys))
	for _, k := range keys {
		if id, ok := l.IDByKey(k); ok {
			out = append(out, id)
		}
	}
	return out
}

// KeysByIDs projects ids to keys in the given order, skipping unknown ids.
func (l *List[ID]) KeysByIDs(ids ...ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if k, ok := l.KeyByID(id); ok {
			out = append(out, k)
		}
	}
	return out
}

// NamesByIDs projects ids to names in the given order, skipping unknown ids.
func (l *List[ID]) NamesByIDs(ids ...ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := l.NameByID(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// NamesByKeys projects keys to names in the given order, skipping unknown keys.
func (l *List[ID]) NamesByKeys(keys ...string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if n, ok := l.NameByKey(k); ok {
			out = append(out, n)
		}
	}
	return out
}

func (l *List[ID]) Options() []SelectOption[ID] {
	out := make([]SelectOption[ID], len(l.entries))
	for i, e := range l.entries {
		out[i] = SelectOption[ID]{Name: e.name, ID: e.id}
	}
	return out
}

// HashArray returns one map per entry with id, key, name and every declared
// attribute. Dynamic entries only carry id, key and name.
func (l *List[ID]) HashArray() []map[string]any {
	out := make([]map[string]any, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.ToMap()
	}
	return out
}
