package config

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/pitabwire/selectable/data"
	"github.com/pitabwire/selectable/naming"
)

type contextKey string

func (c contextKey) String() string {
	return "selectable/config/" + string(c)
}

const (
	ctxKeyConfiguration = contextKey("configurationKey")

	DefaultSlowQueryThreshold = 200 * time.Millisecond
)

// ToContext adds configuration to the current supplied context.
func ToContext(ctx context.Context, config any) context.Context {
	return context.WithValue(ctx, ctxKeyConfiguration, config)
}

// FromContext extracts configuration from the supplied context if any exist.
func FromContext[T any](ctx context.Context) T {
	if cfg, ok := ctx.Value(ctxKeyConfiguration).(T); ok {
		return cfg
	}
	var zero T
	return zero
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

type Configuration struct {
	LogLevel      string `envDefault:"info"                      env:"LOG_LEVEL"       yaml:"log_level"`
	LogTimeFormat string `envDefault:"2006-01-02T15:04:05Z07:00" env:"LOG_TIME_FORMAT" yaml:"log_time_format"`
	LogColored    bool   `envDefault:"true"                      env:"LOG_COLORED"     yaml:"log_colored"`

	DefaultLocale        string   `envDefault:"en"           env:"DEFAULT_LOCALE"        yaml:"default_locale"`
	TranslationsFolder   string   `envDefault:"localization" env:"TRANSLATIONS_FOLDER"   yaml:"translations_folder"`
	TranslationLanguages []string `envDefault:"en"           env:"TRANSLATION_LANGUAGES" yaml:"translation_languages"`

	DeclarationsDir     string `envDefault:"enumerations" env:"DECLARATIONS_DIR"       yaml:"declarations_dir"`
	AccessorNamePattern string `                          env:"ACCESSOR_NAME_PATTERN"  yaml:"accessor_name_pattern"`

	DatabaseURL                   string `                   env:"DATABASE_URL"                  yaml:"database_url"`
	DatabaseTraceQueries          bool   `envDefault:"false" env:"DATABASE_LOG_QUERIES"          yaml:"database_log_queries"`
	DatabaseSlowQueryLogThreshold string `envDefault:"200ms" env:"DATABASE_SLOW_QUERY_THRESHOLD" yaml:"database_slow_query_threshold"`

	CacheURL    string        `envDefault:"mem://"     env:"CACHE_URL"     yaml:"cache_url"`
	CacheName   string        `envDefault:"selectable" env:"CACHE_NAME"    yaml:"cache_name"`
	CacheMaxAge time.Duration `envDefault:"24h"        env:"CACHE_MAX_AGE" yaml:"cache_max_age"`

	HTTPServerPort string `envDefault:":8080" env:"HTTP_PORT" yaml:"http_server_port"`
}

type ConfigurationLogLevel interface {
	LoggingLevel() string
	LoggingTimeFormat() string
	LoggingColored() bool
	LoggingLevelIsDebug() bool
}

var _ ConfigurationLogLevel = new(Configuration)

func (c *Configuration) LoggingLevel() string {
	return c.LogLevel
}

func (c *Configuration) LoggingTimeFormat() string {
	return c.LogTimeFormat
}

func (c *Configuration) LoggingColored() bool {
	return c.LogColored
}

func (c *Configuration) LoggingLevelIsDebug() bool {
	return c.LoggingLevel() == "debug" || c.LoggingLevel() == "trace"
}

type ConfigurationLocalization interface {
	Locale() string
	TranslationsDir() string
	Languages() []string
}

var _ ConfigurationLocalization = new(Configuration)

func (c *Configuration) Locale() string {
	if c.DefaultLocale == "" {
		return "en"
	}
	return c.DefaultLocale
}

func (c *Configuration) TranslationsDir() string {
	return c.TranslationsFolder
}

func (c *Configuration) Languages() []string {
	var out []string
	for _, l := range c.TranslationLanguages {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

type ConfigurationDeclarations interface {
	GetDeclarationsDir() string
	// NamingOptions returns the accessor naming options, failing on a bad pattern.
	NamingOptions() ([]naming.Option, error)
}

var _ ConfigurationDeclarations = new(Configuration)

func (c *Configuration) GetDeclarationsDir() string {
	return c.DeclarationsDir
}

func (c *Configuration) NamingOptions() ([]naming.Option, error) {
	if c.AccessorNamePattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.AccessorNamePattern)
	if err != nil {
		return nil, fmt.Errorf("ACCESSOR_NAME_PATTERN: %w", err)
	}
	return []naming.Option{naming.WithPattern(re)}, nil
}

type ConfigurationDatabase interface {
	GetDatabaseURL() data.DSN
}

type ConfigurationDatabaseTracing interface {
	CanDatabaseTraceQueries() bool
	GetDatabaseSlowQueryLogThreshold() time.Duration
}

var (
	_ ConfigurationDatabase        = new(Configuration)
	_ ConfigurationDatabaseTracing = new(Configuration)
)

func (c *Configuration) GetDatabaseURL() data.DSN {
	return data.DSN(c.DatabaseURL)
}

func (c *Configuration) CanDatabaseTraceQueries() bool {
	return c.DatabaseTraceQueries
}

func (c *Configuration) GetDatabaseSlowQueryLogThreshold() time.Duration {
	threshold, err := time.ParseDuration(c.DatabaseSlowQueryLogThreshold)
	if err != nil || threshold <= 0 {
		return DefaultSlowQueryThreshold
	}
	return threshold
}

type ConfigurationCache interface {
	GetCacheURL() data.DSN
	GetCacheName() string
	GetCacheMaxAge() time.Duration
}

var _ ConfigurationCache = new(Configuration)

func (c *Configuration) GetCacheURL() data.DSN {
	return data.DSN(c.CacheURL)
}

func (c *Configuration) GetCacheName() string {
	return c.CacheName
}

func (c *Configuration) GetCacheMaxAge() time.Duration {
	return c.CacheMaxAge
}

type ConfigurationPorts interface {
	HTTPPort() string
}

var _ ConfigurationPorts = new(Configuration)

func (c *Configuration) HTTPPort() string {
	if i, err := strconv.Atoi(c.HTTPServerPort); err == nil && i > 0 {
		return fmt.Sprintf(":%s", strings.TrimSpace(c.HTTPServerPort))
	}

	if strings.HasPrefix(c.HTTPServerPort, ":") || strings.Contains(c.HTTPServerPort, ":") {
		return c.HTTPServerPort
	}

	return ":8080"
}
