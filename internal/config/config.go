// Package config loads the server and CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/store"
)

// Config holds every MT_* setting.
type Config struct {
	Addr        string        `env:"MT_ADDR"         envDefault:":8080"`
	RoutePrefix string        `env:"MT_ROUTE_PREFIX" envDefault:"/admin"`
	Dialect     string        `env:"MT_DB_DIALECT"   envDefault:"memory"`
	DSN         string        `env:"MT_DB_DSN"`
	Table       string        `env:"MT_DB_TABLE"`
	Languages   []string      `env:"MT_LANGUAGES"    envDefault:"en,de" envSeparator:","`
	Default     string        `env:"MT_DEFAULT_LANGUAGE"`
	SchemaDir   string        `env:"MT_SCHEMA_DIR"`
	OpenAPI     string        `env:"MT_OPENAPI"`
	Tolerance   time.Duration `env:"MT_TOLERANCE"    envDefault:"30s"`
	WriteRate   float64       `env:"MT_WRITE_RATE"   envDefault:"0"`
	WriteBurst  int           `env:"MT_WRITE_BURST"  envDefault:"10"`
	StaffToken  string        `env:"MT_STAFF_TOKEN"`
	Seed        bool          `env:"MT_SEED"         envDefault:"true"`
	Theme       string        `env:"MT_THEME"`
	Variant     string        `env:"MT_THEME_VARIANT"`
}

// Load reads the optional dotenv files and parses the environment. Missing
// dotenv files are ignored; variables already set win over file values.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return Parse(nil)
}

// Parse parses cfg from the process environment, or from environ when it is
// non-nil.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the dialect and language settings.
func (c Config) Validate() error {
	switch c.StoreDialect() {
	case "memory":
	case string(store.DialectSQLite), string(store.DialectPostgres):
		if strings.TrimSpace(c.DSN) == "" {
			return fmt.Errorf("config: MT_DB_DSN is required for dialect %q", c.Dialect)
		}
	default:
		return fmt.Errorf("config: unsupported dialect %q", c.Dialect)
	}
	if _, err := c.LanguageRegistry(); err != nil {
		return err
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("config: negative tolerance %s", c.Tolerance)
	}
	return nil
}

// StoreDialect returns the normalised dialect name.
func (c Config) StoreDialect() string {
	return strings.ToLower(strings.TrimSpace(c.Dialect))
}

// LanguageRegistry builds the configured languages. MT_DEFAULT_LANGUAGE,
// when set, must be one of them; otherwise the first code is the default.
func (c Config) LanguageRegistry() (*languages.Registry, error) {
	var opts []languages.Option
	if def := strings.TrimSpace(c.Default); def != "" {
		opts = append(opts, languages.WithDefault(def))
	}
	reg, err := languages.New(c.Languages, opts...)
	if err != nil {
		return nil, fmt.Errorf("config: languages: %w", err)
	}
	return reg, nil
}
