package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Config{
		Addr:        ":8080",
		RoutePrefix: "/admin",
		Dialect:     "memory",
		Languages:   []string{"en", "de"},
		Tolerance:   30 * time.Second,
		WriteBurst:  10,
		Seed:        true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"MT_DB_DIALECT":       "sqlite",
		"MT_DB_DSN":           "file:mt.db",
		"MT_LANGUAGES":        "en,fr,ar",
		"MT_DEFAULT_LANGUAGE": "fr",
		"MT_TOLERANCE":        "1m",
		"MT_WRITE_RATE":       "2.5",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.StoreDialect() != "sqlite" || cfg.Tolerance != time.Minute || cfg.WriteRate != 2.5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	langs, err := cfg.LanguageRegistry()
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	if langs.Default() != "fr" {
		t.Fatalf("expected default fr, got %q", langs.Default())
	}
	if diff := cmp.Diff([]string{"en", "fr", "ar"}, langs.Codes()); diff != "" {
		t.Fatalf("codes mismatch:\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown dialect":  {"MT_DB_DIALECT": "mysql"},
		"missing dsn":      {"MT_DB_DIALECT": "postgres"},
		"bad default":      {"MT_DEFAULT_LANGUAGE": "it"},
		"bad tolerance":    {"MT_TOLERANCE": "soon"},
		"negative":         {"MT_TOLERANCE": "-1s"},
		"invalid language": {"MT_LANGUAGES": "en,!!"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(environ); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MT_ADDR=:9999\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("MT_ADDR", "")
	os.Unsetenv("MT_ADDR")

	cfg, err := Load(filepath.Join(dir, "missing.env"), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("expected dotenv value, got %q", cfg.Addr)
	}
}
