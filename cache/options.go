package cache

import (
	"time"

	"github.com/pitabwire/selectable/data"
)

// Option configures a snapshot store backend.
type Option func(*Options)

// Options holds the settings shared by all store backends.
type Options struct {
	DSN    data.DSN
	Name   string
	MaxAge time.Duration
}

// WithDSN sets the connection string of a remote backend.
func WithDSN(dsn data.DSN) Option {
	return func(o *Options) {
		o.DSN = dsn
	}
}

// WithName sets the bucket or key namespace used by the backend.
func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithMaxAge bounds how long a snapshot may live in the backend. Zero keeps
// snapshots until the process or bucket goes away.
func WithMaxAge(maxAge time.Duration) Option {
	return func(o *Options) {
		o.MaxAge = maxAge
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Name: "selectable",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
