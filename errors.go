package selectable

import "errors"

var (
	// ErrAttributeNotFound is returned by Entry.Attr for attributes that were never declared.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrDuplicateID is returned when two declared entries share an id.
	ErrDuplicateID = errors.New("duplicate entry id")
	// ErrDuplicateKey is returned when two declared entries share a key.
	ErrDuplicateKey = errors.New("duplicate entry key")
	// ErrEmptyKey is returned when an entry is declared without a key.
	ErrEmptyKey = errors.New("entry key is empty")
	// ErrUnknownDefault is returned when the declared default id or key matches no entry.
	ErrUnknownDefault = errors.New("default does not match any entry")
	// ErrUnknownPolicy is returned by ParsePolicy for unsupported policy names.
	ErrUnknownPolicy = errors.New("unknown refresh policy")
	// ErrMissingName is returned when a definition has no name.
	ErrMissingName = errors.New("enumeration name is required")
)
