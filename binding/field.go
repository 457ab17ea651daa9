package binding

import "database/sql"

// Field is the one id-valued host field a Binding reads and writes.
type Field[ID comparable] interface {
	Get() (ID, bool)
	Set(ID)
}

type ptrField[ID comparable] struct {
	p **ID
}

// Ptr binds a nullable pointer field; nil means absent.
func Ptr[ID comparable](p **ID) Field[ID] {
	return ptrField[ID]{p: p}
}

func (f ptrField[ID]) Get() (ID, bool) {
	if *f.p == nil {
		var zero ID
		return zero, false
	}
	return **f.p, true
}

func (f ptrField[ID]) Set(id ID) {
	*f.p = &id
}

type valueField[ID comparable] struct {
	p *ID
}

// Value binds a plain field; the zero value means absent.
func Value[ID comparable](p *ID) Field[ID] {
	return valueField[ID]{p: p}
}

func (f valueField[ID]) Get() (ID, bool) {
	var zero ID
	if *f.p == zero {
		return zero, false
	}
	return *f.p, true
}

func (f valueField[ID]) Set(id ID) {
	*f.p = id
}

type nullField[ID comparable] struct {
	p *sql.Null[ID]
}

// Null binds a sql.Null column, as found on gorm models.
func Null[ID comparable](p *sql.Null[ID]) Field[ID] {
	return nullField[ID]{p: p}
}

func (f nullField[ID]) Get() (ID, bool) {
	return f.p.V, f.p.Valid
}

func (f nullField[ID]) Set(id ID) {
	*f.p = sql.Null[ID]{V: id, Valid: true}
}
