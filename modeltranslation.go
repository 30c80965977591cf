// Package modeltranslation exposes the common entry points of the module:
// registering translatable fields, building admin panels and mounting the
// translation grid endpoints.
package modeltranslation

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-modeltranslation/components/translations"
	"github.com/goliatone/go-modeltranslation/pkg/admin"
	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/model"
	pkgopenapi "github.com/goliatone/go-modeltranslation/pkg/openapi"
	"github.com/goliatone/go-modeltranslation/pkg/panel"
	"github.com/goliatone/go-modeltranslation/pkg/store"
)

// Registration aliases model.Registration for callers declaring models.
type Registration = model.Registration

// Declaration aliases admin.Declaration.
type Declaration = admin.Declaration

// Change aliases panel.Change, the payload of the write endpoints.
type Change = panel.Change

// Register validates codes and registers reg against them. The first code is
// the default language.
func Register(reg Registration, codes ...string) (*model.Registry, error) {
	langs, err := languages.New(codes)
	if err != nil {
		return nil, err
	}
	return model.Register(reg, langs)
}

// NewPanel builds the admin for reg and binds it to st.
func NewPanel(reg *model.Registry, decl Declaration, st store.Store, options ...panel.Option) (*panel.Service, error) {
	a, err := admin.New(reg, decl)
	if err != nil {
		return nil, err
	}
	return panel.New(a, st, options...)
}

// NewComponent mounts the translation endpoints of services.
func NewComponent(services []*panel.Service, options ...translations.OptionFn) (*translations.Component, error) {
	return translations.New(services, options...)
}

// RegistrationsFromOpenAPI loads src and returns the models it marks as
// translatable.
func RegistrationsFromOpenAPI(ctx context.Context, src pkgopenapi.Source, options ...pkgopenapi.LoaderOption) ([]Registration, error) {
	doc, err := pkgopenapi.NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return pkgopenapi.Registrations(ctx, doc)
}

// EmbeddedTemplates exposes the built-in grid templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return translations.TemplatesFS()
}
