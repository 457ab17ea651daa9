// Package data holds small helpers shared by the storage backends: the DSN
// type used to pick a snapshot store or database, and not-found checks.
package data

import (
	"net/url"
	"regexp"
	"strings"
)

// Schemes understood by the catalog when picking backends.
const (
	PostgresScheme = "postgres"
	MemScheme      = "mem://"
	RedisScheme    = "redis://"
	ValkeyScheme   = "valkey://"
	NatsScheme     = "nats://"
)

//nolint:gochecknoglobals // compiled once, read-only
var keyValueDSN = regexp.MustCompile(
	`(?i)^(user=\S+|password=\S+|host=\S+|port=\d+|dbname=\S+|sslmode=\S+)(\s+\S+=\S+)*$`,
)

// A DSN for conveniently handling a URI connection string.
type DSN string

// IsPostgres accepts both postgres URLs and libpq key/value strings.
func (d DSN) IsPostgres() bool {
	lower := strings.ToLower(string(d))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return true
	}
	return keyValueDSN.MatchString(string(d))
}

func (d DSN) IsMem() bool {
	return string(d) == "" || strings.HasPrefix(string(d), MemScheme)
}

func (d DSN) IsRedis() bool {
	return strings.HasPrefix(string(d), RedisScheme)
}

func (d DSN) IsValkey() bool {
	return strings.HasPrefix(string(d), ValkeyScheme)
}

func (d DSN) IsNats() bool {
	return strings.HasPrefix(string(d), NatsScheme)
}

// IsCache reports whether the DSN names a snapshot store backend.
func (d DSN) IsCache() bool {
	return d.IsMem() || d.IsRedis() || d.IsValkey() || d.IsNats()
}

func (d DSN) ToURI() (*url.URL, error) {
	return url.Parse(string(d))
}

// Host returns the host:port part of a URL DSN, or the DSN itself when it
// cannot be parsed as a URL.
func (d DSN) Host() string {
	u, err := d.ToURI()
	if err != nil || u.Host == "" {
		return string(d)
	}
	return u.Host
}

// Redacted hides the password of a URL DSN so it can be logged.
func (d DSN) Redacted() string {
	u, err := d.ToURI()
	if err != nil {
		return ""
	}
	return u.Redacted()
}

func (d DSN) String() string {
	return string(d)
}
