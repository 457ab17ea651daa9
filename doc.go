// Package selectable maintains small, named, ordered enumerations whose
// entries carry an id, a symbolic key, a display name and extra attributes.
//
// Entries are declared once in a Definition. At read time an optional
// override source can rename, reorder or extend them, and a Translator can
// resolve display names for the locale carried on the context. Consumers
// never hold their own copy of the valid values; they ask an Enum for the
// effective List instead.
package selectable
