// Package app wires configuration, schema, storage and panel services for
// the server and CLI commands.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-modeltranslation/internal/config"
	"github.com/goliatone/go-modeltranslation/pkg/admin"
	"github.com/goliatone/go-modeltranslation/pkg/adminschema"
	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/model"
	pkgopenapi "github.com/goliatone/go-modeltranslation/pkg/openapi"
	"github.com/goliatone/go-modeltranslation/pkg/panel"
	"github.com/goliatone/go-modeltranslation/pkg/status"
	"github.com/goliatone/go-modeltranslation/pkg/store"
)

// App is a bootstrapped set of model panels.
type App struct {
	Config    config.Config
	Languages *languages.Registry
	Services  []*panel.Service

	db     *sql.DB
	logger *slog.Logger
}

// Option customises Bootstrap.
type Option func(*bootstrap)

type bootstrap struct {
	logger   *slog.Logger
	schemaFS fs.FS
	now      func() time.Time
}

// WithLogger sets the logger used while bootstrapping.
func WithLogger(logger *slog.Logger) Option {
	return func(b *bootstrap) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSchemaFS overrides the schema filesystem chosen from the config.
func WithSchemaFS(fsys fs.FS) Option {
	return func(b *bootstrap) {
		b.schemaFS = fsys
	}
}

// WithClock overrides the clock used by the services and demo rows.
func WithClock(now func() time.Time) Option {
	return func(b *bootstrap) {
		if now != nil {
			b.now = now
		}
	}
}

type entry struct {
	reg   *model.Registry
	admin *admin.Admin
}

// Bootstrap loads the models named by cfg, opens their stores and builds a
// panel service per model.
func Bootstrap(ctx context.Context, cfg config.Config, options ...Option) (*App, error) {
	b := bootstrap{logger: slog.New(slog.DiscardHandler), now: time.Now}
	for _, opt := range options {
		if opt != nil {
			opt(&b)
		}
	}

	langs, err := cfg.LanguageRegistry()
	if err != nil {
		return nil, err
	}
	entries, err := b.models(ctx, cfg, langs)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("app: no translatable models configured")
	}

	a := &App{Config: cfg, Languages: langs, logger: b.logger}
	if dialect := cfg.StoreDialect(); dialect != "memory" {
		a.db, err = store.Open(ctx, store.Dialect(dialect), cfg.DSN)
		if err != nil {
			return nil, err
		}
	}

	for _, e := range entries {
		st, err := a.storeFor(ctx, e.reg, cfg.Seed, b.now())
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		svc, err := panel.New(e.admin, st,
			panel.WithClock(b.now),
			panel.WithStatusOptions(status.WithTolerance(cfg.Tolerance)),
		)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("app: %s.%s: %w", e.reg.App(), e.reg.Model(), err)
		}
		a.Services = append(a.Services, svc)
		b.logger.Info("model registered", "app", e.reg.App(), "model", e.reg.Model(),
			"fields", len(e.reg.Fields()), "languages", strings.Join(langs.Codes(), ","))
	}
	return a, nil
}

// Service finds the service for "<app>.<model>" or a bare model name.
func (a *App) Service(id string) (*panel.Service, bool) {
	if a == nil {
		return nil, false
	}
	for _, svc := range a.Services {
		reg := svc.Admin().Registry()
		if id == reg.App()+"."+reg.Model() || id == reg.Model() {
			return svc, true
		}
	}
	return nil, false
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (b bootstrap) models(ctx context.Context, cfg config.Config, langs *languages.Registry) ([]entry, error) {
	if src := strings.TrimSpace(cfg.OpenAPI); src != "" {
		return b.openAPIModels(ctx, src, langs)
	}

	fsys := b.schemaFS
	if fsys == nil {
		if dir := strings.TrimSpace(cfg.SchemaDir); dir != "" {
			fsys = os.DirFS(dir)
		} else {
			fsys = adminschema.EmbeddedFS()
		}
	}
	schemas, err := adminschema.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	var out []entry
	for _, id := range schemas.IDs() {
		m, _ := schemas.Model(id)
		reg, adm, err := m.Build(langs)
		if err != nil {
			return nil, err
		}
		out = append(out, entry{reg: reg, admin: adm})
	}
	return out, nil
}

func (b bootstrap) openAPIModels(ctx context.Context, raw string, langs *languages.Registry) ([]entry, error) {
	var src pkgopenapi.Source
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		src = pkgopenapi.SourceFromURL(raw)
	} else {
		src = pkgopenapi.SourceFromFile(raw)
	}
	doc, err := pkgopenapi.NewLoader(pkgopenapi.WithHTTPFallback(10*time.Second)).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	regs, err := pkgopenapi.Registrations(ctx, doc)
	if err != nil {
		return nil, err
	}
	var out []entry
	for _, r := range regs {
		reg, err := model.Register(r, langs)
		if err != nil {
			return nil, fmt.Errorf("app: register %s: %w", r.Model, err)
		}
		adm, err := admin.New(reg, admin.Declaration{})
		if err != nil {
			return nil, fmt.Errorf("app: admin %s: %w", r.Model, err)
		}
		out = append(out, entry{reg: reg, admin: adm})
	}
	return out, nil
}

func (a *App) storeFor(ctx context.Context, reg *model.Registry, seed bool, now time.Time) (store.Store, error) {
	rows := demoRows(reg, now)
	if a.db == nil {
		mem := store.NewMemory()
		if seed {
			for _, row := range rows {
				mem.Put(model.NewMapRecord(row.id, row.values))
			}
		}
		return mem, nil
	}

	table := tableName(a.Config.Table, reg)
	key := primaryKey(reg)
	sqlStore, err := store.NewSQL(a.db, table, store.Columns(reg),
		store.WithDialect(store.Dialect(a.Config.StoreDialect())),
		store.WithKeyColumn(key),
	)
	if err != nil {
		return nil, err
	}
	if err := sqlStore.CreateTable(ctx); err != nil {
		return nil, err
	}
	if !seed {
		return sqlStore, nil
	}
	existing, err := sqlStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return sqlStore, nil
	}
	for _, row := range rows {
		delete(row.values, key)
		if err := sqlStore.Insert(ctx, row.id, row.values); err != nil {
			return nil, err
		}
	}
	a.logger.Info("demo rows inserted", "table", table, "rows", len(rows))
	return sqlStore, nil
}

func tableName(configured string, reg *model.Registry) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if reg.App() == "" {
		return reg.Model()
	}
	return reg.App() + "_" + reg.Model()
}

func primaryKey(reg *model.Registry) string {
	for _, col := range reg.Columns() {
		if col.PrimaryKey {
			return col.Name
		}
	}
	return "id"
}
