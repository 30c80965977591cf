package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-modeltranslation/pkg/fieldspec"
	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/model"
	"github.com/goliatone/go-modeltranslation/pkg/widgets"
)

// CSS classes added to translation widgets.
const (
	ClassTranslation = "mt"
	ClassFieldPrefix = "mt-field"
	ClassBidi        = "mt-bidi"
	ClassDefault     = "mt-default"
)

// FormFieldFactory builds the host form field of a column. A nil field with
// a nil error means the column has no form representation.
type FormFieldFactory interface {
	FormField(ctx context.Context, col model.Column) (*model.FormField, error)
}

// FormFieldFactoryFunc adapts a function into a FormFieldFactory.
type FormFieldFactoryFunc func(ctx context.Context, col model.Column) (*model.FormField, error)

// FormField calls the underlying function.
func (fn FormFieldFactoryFunc) FormField(ctx context.Context, col model.Column) (*model.FormField, error) {
	return fn(ctx, col)
}

// DefaultFactory builds form fields from column metadata alone.
type DefaultFactory struct{}

// FormField returns a field for editable columns.
func (DefaultFactory) FormField(_ context.Context, col model.Column) (*model.FormField, error) {
	if !col.Editable() {
		return nil, nil
	}
	return &model.FormField{
		Name:     col.Name,
		Label:    col.Label(),
		Required: col.Mandatory,
		Blank:    !col.Mandatory,
		Widget:   widgets.ForType(col.Type),
	}, nil
}

// FormBuild is the ledger of one form construction pass. It remembers which
// originals were required before they were relaxed, so the default-language
// field can take over the contract even when the original form field is
// recomputed.
type FormBuild struct {
	wasRequired map[string]bool
	promoted    map[string]string
}

// NewFormBuild starts a construction pass.
func NewFormBuild() *FormBuild {
	return &FormBuild{
		wasRequired: make(map[string]bool),
		promoted:    make(map[string]string),
	}
}

func ledgerKey(modelName, field string) string {
	return modelName + "." + field
}

func (b *FormBuild) markRequired(modelName, field string) {
	if b == nil {
		return
	}
	if b.wasRequired == nil {
		b.wasRequired = make(map[string]bool)
	}
	b.wasRequired[ledgerKey(modelName, field)] = true
}

// WasRequired reports whether the original field was required before the
// pass relaxed it.
func (b *FormBuild) WasRequired(modelName, field string) bool {
	if b == nil {
		return false
	}
	return b.wasRequired[ledgerKey(modelName, field)]
}

func (b *FormBuild) markPromoted(modelName, field, derived string) {
	if b == nil {
		return
	}
	if b.promoted == nil {
		b.promoted = make(map[string]string)
	}
	b.promoted[ledgerKey(modelName, field)] = derived
}

// Promoted returns the derived field that took over the required contract of
// an original field during the pass.
func (b *FormBuild) Promoted(modelName, field string) (string, bool) {
	if b == nil {
		return "", false
	}
	derived, ok := b.promoted[ledgerKey(modelName, field)]
	return derived, ok
}

// FormField builds the form field of col through the host factory and
// patches it for translation.
func (a *Admin) FormField(ctx context.Context, build *FormBuild, col model.Column) (*model.FormField, error) {
	if a == nil {
		return nil, fmt.Errorf("admin: nil admin")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	field, err := a.factory.FormField(ctx, col)
	if err != nil {
		return nil, fmt.Errorf("admin: form field %s: %w", col.Name, err)
	}
	if field == nil {
		return nil, nil
	}
	if err := a.patch(ctx, build, col, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (a *Admin) patch(ctx context.Context, build *FormBuild, col model.Column, field *model.FormField) error {
	modelName := a.reg.Model()
	if a.reg.IsTranslatable(col.Name) && field.Required {
		field.Required = false
		field.Blank = true
		build.markRequired(modelName, col.Name)
	}

	desc := col.Translated
	if desc == nil {
		return nil
	}

	original, ok := a.reg.Column(desc.Original)
	if !ok {
		return fmt.Errorf("admin: %s: derived field %s has no original column", modelName, desc.Name)
	}
	// Recomputing the original records it in the ledger before the
	// promotion below reads it.
	origField, err := a.FormField(ctx, build, original)
	if err != nil {
		return err
	}
	if origField != nil {
		field.Widget = origField.Widget.Clone()
	}

	dual := a.BothEmptyValues(desc.Original)
	field.SupportsDualEmptyValue = dual || desc.SupportsDualEmptyValue
	if (desc.EmptyValue == model.EmptyValueBoth || dual) && field.Widget.TextLike() {
		field.Widget.Clearable = true
	}

	classes := field.Widget.Classes()
	classes = append(classes, ClassTranslation, cssClass(desc))
	if a.langs.Bidi(desc.Language) {
		classes = append(classes, ClassBidi)
	}

	// Derived fields never carry the original contract on their own.
	field.Required = false
	field.Blank = true
	if desc.Default {
		classes = append(classes, ClassDefault)
		wasRequired := build.WasRequired(modelName, desc.Original)
		if (origField != nil && origField.Required) || wasRequired {
			if origField != nil {
				origField.Required = false
				origField.Blank = true
			}
			field.Required = true
			field.Blank = false
			field.Widget.Clearable = false
			build.markPromoted(modelName, desc.Original, desc.Name)
		}
	}
	field.Widget.SetClasses(classes)
	return nil
}

func cssClass(desc *model.Descriptor) string {
	return ClassFieldPrefix + "-" + desc.Original + "-" + languages.Suffix(desc.Language)
}

// BuildForm builds the form of the model: every column not excluded by
// FormOptions, patched, with strategies resolved and decorators applied.
// A nil build starts a fresh pass.
func (a *Admin) BuildForm(ctx context.Context, build *FormBuild) (*model.Form, error) {
	if a == nil {
		return nil, fmt.Errorf("admin: nil admin")
	}
	if build == nil {
		build = NewFormBuild()
	}
	excluded := make(map[string]struct{})
	for _, name := range a.FormOptions().Exclude {
		excluded[name] = struct{}{}
	}
	allowed := a.allowedFields()

	form := &model.Form{Model: a.reg.Model()}
	for _, col := range a.reg.Columns() {
		if _, skip := excluded[col.Name]; skip {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[col.Name]; !ok {
				continue
			}
		}
		field, err := a.FormField(ctx, build, col)
		if err != nil {
			return nil, err
		}
		if field == nil {
			continue
		}
		form.Fields = append(form.Fields, *field)
	}

	if a.widgets != nil {
		if err := a.widgets.Decorate(form); err != nil {
			return nil, fmt.Errorf("admin: widgets: %w", err)
		}
	}
	for _, dec := range a.decorators {
		if err := dec.Decorate(form); err != nil {
			return nil, fmt.Errorf("admin: decorate form: %w", err)
		}
	}
	return form, nil
}

// allowedFields limits the form to declared fields when the admin declares
// any. Nil means every column is allowed.
func (a *Admin) allowedFields() map[string]struct{} {
	declared := a.DeclaredFieldsets()
	if declared == nil {
		return nil
	}
	out := make(map[string]struct{})
	for _, name := range fieldspec.FlattenFieldsets(declared) {
		out[name] = struct{}{}
	}
	return out
}

// Media lists static assets included on admin pages.
type Media struct {
	JS  []string `json:"js,omitempty"`
	CSS []string `json:"css,omitempty"`
}

// Clone returns a copy of the media lists.
func (m Media) Clone() Media {
	return Media{JS: cloneStrings(m.JS), CSS: cloneStrings(m.CSS)}
}

// Empty reports whether no assets are listed.
func (m Media) Empty() bool {
	return len(m.JS) == 0 && len(m.CSS) == 0
}

// TabbedMedia returns the assets of the tabbed translation fields UI, with
// paths relative to prefix.
func TabbedMedia(prefix string) Media {
	prefix = strings.TrimSuffix(prefix, "/")
	return Media{
		JS:  []string{prefix + "/modeltranslation/js/tabbed_translation_fields.js"},
		CSS: []string{prefix + "/modeltranslation/css/tabbed_translation_fields.css"},
	}
}
