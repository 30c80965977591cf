// Package admin patches a host model admin so translatable fields are edited
// through their per-language derived fields.
//
// An Admin is built once per registered model admin. Construction localizes
// the prepopulated fields and, for non-inline admins, the list_editable and
// list_display columns. Form construction goes through FormField, which
// copies the original widget onto every derived field and moves the
// required contract from the original field to the default-language field.
package admin

import (
	"context"
	"errors"

	"github.com/goliatone/go-modeltranslation/pkg/fieldspec"
	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/model"
	"github.com/goliatone/go-modeltranslation/pkg/widgets"
)

// Option customises an Admin.
type Option func(*Admin)

// WithFormFieldFactory sets the host factory used to build form fields.
func WithFormFieldFactory(factory FormFieldFactory) Option {
	return func(a *Admin) {
		if factory != nil {
			a.factory = factory
		}
	}
}

// WithWidgets sets the strategy registry applied by BuildForm.
func WithWidgets(reg *widgets.Registry) Option {
	return func(a *Admin) {
		a.widgets = reg
	}
}

// WithDecorators appends form decorators run at the end of BuildForm.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(a *Admin) {
		for _, dec := range decorators {
			if dec != nil {
				a.decorators = append(a.decorators, dec)
			}
		}
	}
}

// WithLanguage sets the language used to localize prepopulation sources of
// untranslated destinations at construction time. The registry's
// prepopulate language still wins when configured.
func WithLanguage(code string) Option {
	return func(a *Admin) {
		a.constructLang = code
	}
}

// WithMedia attaches static assets the host should include on admin pages.
func WithMedia(media Media) Option {
	return func(a *Admin) {
		a.media = media.Clone()
	}
}

// Admin is the translation-aware view of one model admin declaration.
type Admin struct {
	reg           *model.Registry
	langs         *languages.Registry
	decl          Declaration
	inline        bool
	factory       FormFieldFactory
	widgets       *widgets.Registry
	decorators    []model.Decorator
	constructLang string
	media         Media
	both          map[string]struct{}

	prepopulated []fieldspec.Prepopulated
	listEditable []string
	listDisplay  []string
}

// New builds a model admin.
func New(reg *model.Registry, decl Declaration, options ...Option) (*Admin, error) {
	return build(reg, decl, false, options)
}

// NewInline builds an inline admin. Inlines share the field patching but
// never touch list columns or group fieldsets.
func NewInline(reg *model.Registry, decl Declaration, options ...Option) (*Admin, error) {
	return build(reg, decl, true, options)
}

func build(reg *model.Registry, decl Declaration, inline bool, options []Option) (*Admin, error) {
	if reg == nil {
		return nil, errors.New("admin: translation registry is required")
	}
	a := &Admin{
		reg:     reg,
		langs:   reg.Languages(),
		decl:    decl.Clone(),
		inline:  inline,
		factory: DefaultFactory{},
		widgets: widgets.NewRegistry(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	if a.decl.ListPerPage <= 0 {
		a.decl.ListPerPage = DefaultListPerPage
	}
	a.both = make(map[string]struct{}, len(a.decl.BothEmptyValuesFields))
	for _, name := range a.decl.BothEmptyValuesFields {
		a.both[name] = struct{}{}
	}

	a.prepopulated = a.localizePrepopulated(a.constructLang)
	if inline {
		a.listEditable = a.decl.ListEditable
		a.listDisplay = a.decl.ListDisplay
	} else {
		a.listEditable, a.listDisplay = fieldspec.ExpandListColumns(a.decl.ListEditable, a.decl.ListDisplay, reg)
	}
	return a, nil
}

// MustNew panics on construction errors.
func MustNew(reg *model.Registry, decl Declaration, options ...Option) *Admin {
	a, err := New(reg, decl, options...)
	if err != nil {
		panic(err)
	}
	return a
}

// Registry returns the model translation registry.
func (a *Admin) Registry() *model.Registry {
	if a == nil {
		return nil
	}
	return a.reg
}

// Inline reports whether the admin is an inline admin.
func (a *Admin) Inline() bool {
	return a != nil && a.inline
}

// Declaration returns a copy of the declaration as supplied.
func (a *Admin) Declaration() Declaration {
	if a == nil {
		return Declaration{}
	}
	return a.decl.Clone()
}

// Media returns the static assets attached to the admin.
func (a *Admin) Media() Media {
	if a == nil {
		return Media{}
	}
	return a.media.Clone()
}

// Prepopulated returns the rules localized at construction time.
func (a *Admin) Prepopulated() []fieldspec.Prepopulated {
	if a == nil {
		return nil
	}
	return clonePrepopulated(a.prepopulated)
}

// PrepopulatedFor localizes the declared rules for the request language
// stored in ctx.
func (a *Admin) PrepopulatedFor(ctx context.Context) []fieldspec.Prepopulated {
	if a == nil {
		return nil
	}
	return a.localizePrepopulated(a.langs.ActiveOrDefault(ctx))
}

func (a *Admin) localizePrepopulated(active string) []fieldspec.Prepopulated {
	if active == "" {
		active = a.langs.Default()
	}
	return fieldspec.ExpandPrepopulated(a.decl.Prepopulated, a.reg, fieldspec.PrepopulateLanguages{
		Available: a.langs.Codes(),
		Pinned:    a.langs.Prepopulate(),
		Active:    active,
	})
}

// ListEditable returns the patched list_editable columns.
func (a *Admin) ListEditable() []string {
	if a == nil {
		return nil
	}
	return cloneStrings(a.listEditable)
}

// ListDisplay returns the patched list_display columns.
func (a *Admin) ListDisplay() []string {
	if a == nil {
		return nil
	}
	return cloneStrings(a.listDisplay)
}

// ListFilter returns the declared list_filter fields the grid can filter on.
func (a *Admin) ListFilter() []string {
	if a == nil {
		return nil
	}
	return cloneStrings(a.decl.ListFilter)
}

// ListPerPage returns the page size of list views.
func (a *Admin) ListPerPage() int {
	if a == nil {
		return DefaultListPerPage
	}
	return a.decl.ListPerPage
}

// DeclaredFieldsets expands declared fieldsets, or wraps declared fields in
// one untitled fieldset. It returns nil when neither is declared.
func (a *Admin) DeclaredFieldsets() []fieldspec.Fieldset {
	if a == nil {
		return nil
	}
	if len(a.decl.Fieldsets) > 0 {
		return fieldspec.ExpandFieldsets(a.decl.Fieldsets, a.reg)
	}
	fields := a.decl.Fields
	if len(fields) == 0 && len(a.decl.FormFields) > 0 {
		fields = fieldspec.Names(a.decl.FormFields...)
	}
	if len(fields) == 0 {
		return nil
	}
	return []fieldspec.Fieldset{{Label: "", Fields: fieldspec.Expand(fields, a.reg)}}
}

// ReadonlyFields returns the expanded readonly fields.
func (a *Admin) ReadonlyFields() []string {
	if a == nil {
		return nil
	}
	return fieldspec.ExpandNames(a.decl.ReadonlyFields, a.reg)
}

// FormOptions carries the arguments passed to the host form factory.
type FormOptions struct {
	Exclude []string
}

// FormOptions composes the exclude list for forms and inline formsets:
// declared excludes, readonly fields and, when the admin declares no
// excludes, the custom form's excludes. The result is expanded and always
// ends with every translatable original.
func (a *Admin) FormOptions() FormOptions {
	if a == nil {
		return FormOptions{}
	}
	exclude := append([]string{}, a.decl.Exclude...)
	exclude = append(exclude, a.ReadonlyFields()...)
	if len(a.decl.Exclude) == 0 {
		exclude = append(exclude, a.decl.FormExclude...)
	}
	expanded := fieldspec.ExpandNames(exclude, a.reg)
	if len(expanded) == 0 {
		expanded = nil
	}
	return FormOptions{Exclude: fieldspec.ExcludeOriginals(expanded, a.reg.Fields())}
}

// Fieldsets returns the declared fieldsets, or derives them from a built
// form: the form's fields plus readonly fields in one untitled fieldset,
// regrouped per translatable field when GroupFieldsets is set on a
// non-inline admin.
func (a *Admin) Fieldsets(form *model.Form) []fieldspec.Fieldset {
	if a == nil {
		return nil
	}
	if declared := a.DeclaredFieldsets(); declared != nil {
		return declared
	}
	names := fieldspec.ExpandNames(form.Names(), a.reg)
	names = append(names, a.ReadonlyFields()...)
	sets := []fieldspec.Fieldset{{Label: "", Fields: fieldspec.Names(fieldspec.ExpandNames(names, a.reg)...)}}
	if a.inline || !a.decl.GroupFieldsets {
		return sets
	}
	return fieldspec.GroupFieldsets(fieldspec.FlattenFieldsets(sets), a.reg.Columns(), a.reg)
}

// TranslationFieldExcludes lists the derived fields of the given languages.
func (a *Admin) TranslationFieldExcludes(langs ...string) []string {
	if a == nil {
		return nil
	}
	return fieldspec.LanguageExcludes(a.reg, langs)
}

// TranslationFields lists the translatable originals in panel order:
// TranslationFieldOrder first, then the remaining fields in registration
// order.
func (a *Admin) TranslationFields() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.reg.Fields()))
	seen := make(map[string]struct{})
	for _, name := range a.decl.TranslationFieldOrder {
		if !a.reg.IsTranslatable(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range a.reg.Fields() {
		if _, dup := seen[name]; dup {
			continue
		}
		out = append(out, name)
	}
	return out
}

// EditableFor returns the columns editable in the panel for one language.
func (a *Admin) EditableFor(lang string) []string {
	if a == nil {
		return nil
	}
	fields := a.TranslationFields()
	out := make([]string, 0, len(fields))
	for _, name := range fields {
		if desc, ok := a.reg.Lookup(name, lang); ok {
			out = append(out, desc.Name)
		}
	}
	return out
}

// BothEmptyValues reports whether original keeps empty and missing apart.
func (a *Admin) BothEmptyValues(original string) bool {
	if a == nil {
		return false
	}
	_, ok := a.both[original]
	return ok
}
