package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pitabwire/util"
	"gorm.io/gorm"

	"github.com/pitabwire/selectable"
	"github.com/pitabwire/selectable/binding"
	"github.com/pitabwire/selectable/cache"
	"github.com/pitabwire/selectable/config"
	"github.com/pitabwire/selectable/datastore"
	"github.com/pitabwire/selectable/localization"
	"github.com/pitabwire/selectable/naming"
	"github.com/pitabwire/selectable/source"
	"github.com/pitabwire/selectable/telemetry"
)

var (
	// ErrUnknownEnumeration is returned for a key no declaration was built under.
	ErrUnknownEnumeration = errors.New("unknown enumeration")
	// ErrNoDatabase is returned when a declaration reads override rows but no
	// database was configured.
	ErrNoDatabase = errors.New("override source needs a database")
)

type options struct {
	db            *gorm.DB
	store         cache.Store
	manager       localization.Manager
	defaultLocale string
	naming        []naming.Option
	telemetry     []telemetry.Option
	snapshotTTL   time.Duration
	cacheName     string
	sources       map[string]source.Source[string]
}

type Option func(*options)

// WithDB sets the database declared sources read from.
func WithDB(db *gorm.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithStore shares one snapshot store between every enumeration.
func WithStore(store cache.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithManager resolves names and validation messages from the manager's catalog.
func WithManager(m localization.Manager) Option {
	return func(o *options) {
		o.manager = m
	}
}

func WithDefaultLocale(locale string) Option {
	return func(o *options) {
		o.defaultLocale = locale
	}
}

// WithNaming applies accessor naming options to every binding.
func WithNaming(opts ...naming.Option) Option {
	return func(o *options) {
		o.naming = append(o.naming, opts...)
	}
}

// WithTelemetry sets the providers source fetches are traced with.
func WithTelemetry(opts ...telemetry.Option) Option {
	return func(o *options) {
		o.telemetry = append(o.telemetry, opts...)
	}
}

func WithSnapshotTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.snapshotTTL = ttl
	}
}

// WithCacheName namespaces snapshot generations, so catalogs sharing a store
// under different names never read each other's snapshots.
func WithCacheName(name string) Option {
	return func(o *options) {
		o.cacheName = name
	}
}

// WithSource gives the enumeration built under key an override source in
// place of the declared one.
func WithSource(key string, src source.Source[string]) Option {
	return func(o *options) {
		if o.sources == nil {
			o.sources = map[string]source.Source[string]{}
		}
		o.sources[key] = src
	}
}

// Catalog holds the enumerations built from a set of declarations.
type Catalog struct {
	registry *selectable.Registry
	enums    map[string]*selectable.Enum[string]
	bindings map[string]*binding.Binding[string]
	closers  []func() error
}

// Build validates decls and builds one enumeration per declaration. A later
// declaration with the same key replaces the earlier one.
func Build(decls []Declaration, opts ...Option) (*Catalog, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = cache.NewInMemoryStore()
	}

	c := &Catalog{
		registry: selectable.NewRegistry(),
		enums:    make(map[string]*selectable.Enum[string], len(decls)),
		bindings: make(map[string]*binding.Binding[string]),
	}

	for _, d := range decls {
		if err := c.add(d, o); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(d Declaration, o *options) error {
	if err := d.Validate(); err != nil {
		return err
	}

	src, policy, err := o.source(d)
	if err != nil {
		return err
	}

	enumOpts := []selectable.Option{
		selectable.WithStore(o.store),
		selectable.WithRegistry(c.registry),
		selectable.WithSnapshotTTL(o.snapshotTTL),
		selectable.WithDefaultLocale(o.defaultLocale),
	}
	if gen, genErr := generation(o.cacheName, d); genErr == nil {
		enumOpts = append(enumOpts, selectable.WithGeneration(gen))
	}
	if o.manager != nil {
		enumOpts = append(enumOpts, selectable.WithTranslator(o.manager))
	}

	e, err := selectable.New(selectable.Definition[string]{
		Name:       d.Name,
		Attribute:  d.Attribute,
		Scope:      d.Scope,
		Entries:    d.definitionEntries(),
		Default:    d.Default,
		DefaultKey: d.DefaultKey,
		Source:     src,
		Policy:     policy,
	}, enumOpts...)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Key(), err)
	}
	c.enums[d.Key()] = e

	if d.Attribute == "" {
		delete(c.bindings, d.Key())
		return nil
	}

	bindOpts := []binding.Option{binding.WithNaming(o.naming...)}
	if d.Accessor != "" {
		bindOpts = append(bindOpts, binding.WithNaming(naming.WithBaseName(d.Accessor)))
	}
	if o.manager != nil {
		bindOpts = append(bindOpts, binding.WithRenderer(o.manager))
	}
	c.bindings[d.Key()] = binding.Bind(e, d.Attribute, bindOpts...)
	return nil
}

// generation derives the snapshot generation of d from its content, so every
// process built from the same declaration reads the same shared snapshots and
// a changed declaration starts afresh.
func generation(cacheName string, d Declaration) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(cacheName+"\x00"), data...))
	return hex.EncodeToString(sum[:12]), nil
}

func (o *options) source(d Declaration) (source.Source[string], selectable.Policy, error) {
	policy := selectable.Once
	if d.Source != nil {
		var err error
		if policy, err = selectable.ParsePolicy(d.Source.Policy); err != nil {
			return nil, policy, fmt.Errorf("%s: %w", d.Key(), err)
		}
	}

	if src, ok := o.sources[d.Key()]; ok {
		return source.Traced(d.Key(), src, o.telemetry...), policy, nil
	}
	if d.Source == nil {
		return nil, policy, nil
	}
	if o.db == nil {
		return nil, policy, fmt.Errorf("%s: %w", d.Key(), ErrNoDatabase)
	}

	var src source.Source[string]
	switch {
	case d.Source.Category != "":
		var imOpts []source.ItemMastersOption
		if d.Source.Locale {
			imOpts = append(imOpts, source.Localized())
		}
		src = source.ItemMasters(o.db, d.Source.Category, imOpts...)
	case d.Source.Locale:
		src = source.LocaleQuery[string](o.db, d.Source.Query)
	default:
		src = source.Query[string](o.db, d.Source.Query)
	}
	return source.Traced(d.Key(), src, o.telemetry...), policy, nil
}

// Open loads the declarations directory named by cfg and builds them with the
// configured snapshot store, database and translation catalog.
func Open(ctx context.Context, cfg *config.Configuration) (*Catalog, error) {
	decls, err := LoadDir(cfg.GetDeclarationsDir())
	if err != nil {
		return nil, fmt.Errorf("load declarations: %w", err)
	}

	namingOpts, err := cfg.NamingOptions()
	if err != nil {
		return nil, err
	}

	manager, err := localization.NewManager(cfg.TranslationsDir(), cfg.Locale(), cfg.Languages()...)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	closers := []func() error{store.Close}

	opts := []Option{
		WithStore(store),
		WithManager(manager),
		WithDefaultLocale(cfg.Locale()),
		WithNaming(namingOpts...),
		WithSnapshotTTL(cfg.GetCacheMaxAge()),
		WithCacheName(cfg.GetCacheName()),
	}

	if dsn := cfg.GetDatabaseURL(); dsn != "" {
		db, dbErr := datastore.Open(ctx, dsn, datastore.WithTraceConfig(cfg))
		if dbErr != nil {
			_ = store.Close()
			return nil, dbErr
		}
		closers = append(closers, func() error { return datastore.Close(db) })
		opts = append(opts, WithDB(db))
	}

	c, err := Build(decls, opts...)
	if err != nil {
		for _, closeFn := range slices.Backward(closers) {
			_ = closeFn()
		}
		return nil, err
	}
	c.closers = closers

	util.Log(ctx).WithField("enumerations", c.registry.Len()).
		WithField("cache", cfg.GetCacheURL().Redacted()).
		Info("catalog ready")
	return c, nil
}

// Close releases the store and database opened by Open.
func (c *Catalog) Close() error {
	var errs []error
	for _, closeFn := range slices.Backward(c.closers) {
		errs = append(errs, closeFn())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Catalog) Registry() *selectable.Registry {
	return c.registry
}

// Keys returns the enumeration keys in declaration order.
func (c *Catalog) Keys() []string {
	return c.registry.Keys()
}

func (c *Catalog) Enum(key string) (*selectable.Enum[string], bool) {
	e, ok := c.enums[key]
	return e, ok
}

// Binding returns the host binding of a host-attached enumeration.
func (c *Catalog) Binding(key string) (*binding.Binding[string], bool) {
	b, ok := c.bindings[key]
	return b, ok
}

// Options returns the select options of an enumeration for the locale of ctx.
func (c *Catalog) Options(ctx context.Context, key string) ([]selectable.SelectOption[string], error) {
	e, ok := c.enums[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnumeration, key)
	}
	return e.Options(ctx)
}

// Summary describes one enumeration for the locale of ctx.
func (c *Catalog) Summary(ctx context.Context, key string) (selectable.Summary, error) {
	e, ok := c.enums[key]
	if !ok {
		return selectable.Summary{}, fmt.Errorf("%w: %s", ErrUnknownEnumeration, key)
	}
	return e.Summary(ctx)
}

func (c *Catalog) Export(ctx context.Context) (map[string]any, error) {
	return c.registry.Export(ctx)
}

// Check reads every enumeration once and reports the ones whose source fails
// or whose default is not an effective entry.
func (c *Catalog) Check(ctx context.Context) error {
	var errs []error
	for _, key := range c.Keys() {
		e := c.enums[key]
		list, err := e.List(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}

		if id, ok := e.Default(); ok {
			if _, found := list.EntryByID(id); !found {
				errs = append(errs, fmt.Errorf("%s: default %q is not an entry", key, id))
			}
		}

		util.Log(ctx).WithField("enumeration", key).WithField("entries", list.Len()).Debug("checked")
	}
	return errors.Join(errs...)
}
