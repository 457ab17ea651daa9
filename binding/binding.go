// Package binding attaches an enumeration to one field of a host record:
// reading and writing it by id or key, pre-populating defaults and
// validating that the stored id is an effective entry.
package binding

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/pitabwire/selectable"
	"github.com/pitabwire/selectable/localization"
	"github.com/pitabwire/selectable/naming"
)

// Renderer renders validation messages. localization.Manager implements it.
type Renderer interface {
	Render(ctx context.Context, messageID, defaultMessage string, data map[string]any) string
}

type options struct {
	naming   []naming.Option
	renderer Renderer
}

type Option func(*options)

// WithNaming controls how accessor names are derived from the field name.
func WithNaming(opts ...naming.Option) Option {
	return func(o *options) {
		o.naming = append(o.naming, opts...)
	}
}

// WithRenderer sets the catalog validation messages are rendered from.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// Binding ties an Enum to a named host field.
type Binding[ID comparable] struct {
	enum     *selectable.Enum[ID]
	names    naming.Names
	renderer Renderer
}

// Bind attaches enum to the host field called field.
func Bind[ID comparable](enum *selectable.Enum[ID], field string, opts ...Option) *Binding[ID] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.renderer == nil {
		o.renderer = localization.NewFallbackManager(language.English)
	}

	return &Binding[ID]{
		enum:     enum,
		names:    naming.New(field, o.naming...),
		renderer: o.renderer,
	}
}

func (b *Binding[ID]) Enum() *selectable.Enum[ID] {
	return b.enum
}

func (b *Binding[ID]) Names() naming.Names {
	return b.names
}

// ID returns the stored id, valid or not.
func (b *Binding[ID]) ID(f Field[ID]) (ID, bool) {
	return f.Get()
}

// SetID stores id verbatim, even when no entry has it, so validation can flag it.
func (b *Binding[ID]) SetID(f Field[ID], id ID) {
	f.Set(id)
}

// SetKey stores the id of key. An unknown key leaves the field unchanged and
// reports false.
func (b *Binding[ID]) SetKey(ctx context.Context, f Field[ID], key string) (bool, error) {
	id, ok, err := b.enum.IDByKey(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	f.Set(id)
	return true, nil
}

// Entry returns the effective entry of the stored id.
func (b *Binding[ID]) Entry(ctx context.Context, f Field[ID]) (selectable.Entry[ID], bool, error) {
	id, ok := f.Get()
	if !ok {
		return selectable.Entry[ID]{}, false, nil
	}
	return b.enum.EntryByID(ctx, id)
}

func (b *Binding[ID]) Key(ctx context.Context, f Field[ID]) (string, bool, error) {
	e, ok, err := b.Entry(ctx, f)
	return e.Key(), ok, err
}

func (b *Binding[ID]) Name(ctx context.Context, f Field[ID]) (string, bool, error) {
	e, ok, err := b.Entry(ctx, f)
	return e.Name(), ok, err
}

// ApplyDefault stores the enumeration default when the field is absent and
// reports whether it did.
func (b *Binding[ID]) ApplyDefault(f Field[ID]) bool {
	if _, present := f.Get(); present {
		return false
	}
	id, ok := b.enum.Default()
	if !ok {
		return false
	}
	f.Set(id)
	return true
}

// DefaultMessage is used when a Rule names no message.
const DefaultMessage = "is not included in the list"

// Rule configures Validate. The message template receives .Entries, the
// comma-joined effective names, .Value and .Field.
type Rule struct {
	AllowNil  bool
	MessageID string
	Message   string
}

// FieldError reports a stored id that is not an effective entry.
type FieldError struct {
	Field   string
	Value   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Message
}

// Validate checks the stored id against the effective list for the locale of
// ctx. It returns a *FieldError for invalid values and the source error when
// the list cannot be read.
func (b *Binding[ID]) Validate(ctx context.Context, f Field[ID], rule Rule) error {
	id, present := f.Get()
	if !present && rule.AllowNil {
		return nil
	}

	list, err := b.enum.List(ctx)
	if err != nil {
		return err
	}

	value := ""
	if present {
		if _, ok := list.EntryByID(id); ok {
			return nil
		}
		value = fmt.Sprint(id)
	}

	message := rule.Message
	if message == "" {
		message = DefaultMessage
	}
	messageID := rule.MessageID
	if messageID == "" {
		messageID = "selectable." + b.names.Field + ".inclusion"
	}

	return &FieldError{
		Field: b.names.Field,
		Value: value,
		Message: b.renderer.Render(ctx, messageID, message, map[string]any{
			"Entries": strings.Join(list.Names(), ", "),
			"Value":   value,
			"Field":   b.names.Field,
		}),
	}
}
