package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-modeltranslation/pkg/languages"
)

// ModifiedSuffix is appended to a derived field name to form its
// last-modified slot.
const ModifiedSuffix = "_last_modified"

// Descriptor resolves one (field, language) pair to the record slots that
// hold its value and optional modification timestamp.
type Descriptor struct {
	Original     string `json:"original"`
	Language     string `json:"language"`
	Name         string `json:"name"`
	ValueSlot    string `json:"valueSlot"`
	ModifiedSlot string `json:"modifiedSlot,omitempty"`
	Default      bool   `json:"default,omitempty"`
	Mandatory    bool   `json:"mandatory,omitempty"`
	EmptyValue   string `json:"emptyValue,omitempty"`

	SupportsDualEmptyValue bool `json:"supportsDualEmptyValue,omitempty"`
}

// Tracked reports whether the descriptor has a last-modified slot.
func (d Descriptor) Tracked() bool {
	return d.ModifiedSlot != ""
}

// FieldOptions declares one translatable field of a model.
type FieldOptions struct {
	Name        string    `json:"name"`
	VerboseName string    `json:"verboseName,omitempty"`
	Type        FieldType `json:"type,omitempty"`
	Mandatory   bool      `json:"mandatory,omitempty"`
	// Tracked adds a last-modified companion slot per language.
	Tracked    bool   `json:"tracked,omitempty"`
	EmptyValue string `json:"emptyValue,omitempty"`
}

// Registration describes a model and its translatable fields.
type Registration struct {
	App     string         `json:"app,omitempty"`
	Model   string         `json:"model"`
	Label   string         `json:"label,omitempty"`
	Columns []Column       `json:"columns"`
	Fields  []FieldOptions `json:"fields"`
}

// Registry is the immutable translation metadata of one model.
type Registry struct {
	app       string
	model     string
	label     string
	langs     *languages.Registry
	fields    []FieldOptions
	fieldIdx  map[string]int
	derived   map[string][]Descriptor
	byName    map[string]Descriptor
	columns   []Column
	columnIdx map[string]int
}

// Register resolves every descriptor of reg against langs.
func Register(reg Registration, langs *languages.Registry) (*Registry, error) {
	if langs == nil || langs.Len() == 0 {
		return nil, errors.New("model: language registry is required")
	}
	modelName := strings.TrimSpace(reg.Model)
	if modelName == "" {
		return nil, errors.New("model: model name is required")
	}

	out := &Registry{
		app:       strings.TrimSpace(reg.App),
		model:     modelName,
		label:     strings.TrimSpace(reg.Label),
		langs:     langs,
		fieldIdx:  make(map[string]int, len(reg.Fields)),
		derived:   make(map[string][]Descriptor, len(reg.Fields)),
		byName:    make(map[string]Descriptor),
		columnIdx: make(map[string]int, len(reg.Columns)),
	}
	if out.label == "" {
		out.label = modelName
	}

	originals := make(map[string]struct{}, len(reg.Columns)+len(reg.Fields))
	mandatory := make(map[string]bool, len(reg.Columns))
	for _, col := range reg.Columns {
		originals[col.Name] = struct{}{}
		mandatory[col.Name] = col.Mandatory
	}
	for _, field := range reg.Fields {
		originals[field.Name] = struct{}{}
	}

	for _, field := range reg.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, fmt.Errorf("model: %s: translatable field without a name", modelName)
		}
		if _, dup := out.fieldIdx[name]; dup {
			return nil, fmt.Errorf("model: %s: field %q registered twice", modelName, name)
		}
		field.Name = name
		field.Mandatory = field.Mandatory || mandatory[name]
		out.fieldIdx[name] = len(out.fields)
		out.fields = append(out.fields, field)

		descriptors := make([]Descriptor, 0, langs.Len())
		for _, code := range langs.Codes() {
			derivedName := name + "_" + languages.Suffix(code)
			if _, clash := originals[derivedName]; clash {
				return nil, fmt.Errorf("model: %s: derived field %q collides with a model field", modelName, derivedName)
			}
			if _, dup := out.byName[derivedName]; dup {
				return nil, fmt.Errorf("model: %s: derived field %q is not unique", modelName, derivedName)
			}
			desc := Descriptor{
				Original:               name,
				Language:               code,
				Name:                   derivedName,
				ValueSlot:              derivedName,
				Default:                code == langs.Default(),
				Mandatory:              field.Mandatory,
				EmptyValue:             field.EmptyValue,
				SupportsDualEmptyValue: field.EmptyValue == EmptyValueBoth,
			}
			if field.Tracked {
				desc.ModifiedSlot = derivedName + ModifiedSuffix
			}
			descriptors = append(descriptors, desc)
			out.byName[derivedName] = desc
		}
		out.derived[name] = descriptors
	}

	out.columns = buildColumns(modelName, reg.Columns, out)
	for idx, col := range out.columns {
		out.columnIdx[col.Name] = idx
	}
	return out, nil
}

// MustRegister panics on registration errors.
func MustRegister(reg Registration, langs *languages.Registry) *Registry {
	out, err := Register(reg, langs)
	if err != nil {
		panic(err)
	}
	return out
}

// buildColumns places each derived column right after its original. Fields
// registered without a matching column get a synthetic original appended.
func buildColumns(modelName string, declared []Column, reg *Registry) []Column {
	seen := make(map[string]struct{}, len(declared))
	out := make([]Column, 0, len(declared)+len(reg.byName))
	appendDerived := func(original Column) {
		for _, desc := range reg.derived[original.Name] {
			out = append(out, Column{
				Model:       modelName,
				Name:        desc.Name,
				VerboseName: fmt.Sprintf("%s [%s]", original.Label(), desc.Language),
				Type:        original.Type,
				Mandatory:   original.Mandatory,
				EmptyValue:  desc.EmptyValue,
				Translated:  &desc,
			})
		}
	}

	for _, col := range declared {
		col.Model = modelName
		if idx, ok := reg.fieldIdx[col.Name]; ok {
			field := reg.fields[idx]
			if col.VerboseName == "" {
				col.VerboseName = field.VerboseName
			}
			if col.Type == "" {
				col.Type = field.Type
			}
			col.Mandatory = col.Mandatory || field.Mandatory
			if col.EmptyValue == "" {
				col.EmptyValue = field.EmptyValue
			}
		}
		seen[col.Name] = struct{}{}
		out = append(out, col)
		appendDerived(col)
	}
	for _, field := range reg.fields {
		if _, ok := seen[field.Name]; ok {
			continue
		}
		col := Column{
			Model:       modelName,
			Name:        field.Name,
			VerboseName: field.VerboseName,
			Type:        field.Type,
			Mandatory:   field.Mandatory,
			EmptyValue:  field.EmptyValue,
		}
		out = append(out, col)
		appendDerived(col)
	}
	return out
}

// App returns the application label.
func (r *Registry) App() string {
	if r == nil {
		return ""
	}
	return r.app
}

// Model returns the model name.
func (r *Registry) Model() string {
	if r == nil {
		return ""
	}
	return r.model
}

// Label returns the human readable model label.
func (r *Registry) Label() string {
	if r == nil {
		return ""
	}
	return r.label
}

// Languages returns the language registry the model was registered with.
func (r *Registry) Languages() *languages.Registry {
	if r == nil {
		return nil
	}
	return r.langs
}

// Fields lists translatable field names in registration order.
func (r *Registry) Fields() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.fields))
	for idx, field := range r.fields {
		names[idx] = field.Name
	}
	return names
}

// Field returns the declaration of a translatable field.
func (r *Registry) Field(name string) (FieldOptions, bool) {
	if r == nil {
		return FieldOptions{}, false
	}
	idx, ok := r.fieldIdx[name]
	if !ok {
		return FieldOptions{}, false
	}
	return r.fields[idx], true
}

// IsTranslatable reports whether name is an original translatable field.
func (r *Registry) IsTranslatable(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.fieldIdx[name]
	return ok
}

// Derived returns the derived names of field in language order, or nil.
func (r *Registry) Derived(field string) []string {
	if r == nil {
		return nil
	}
	descriptors := r.derived[field]
	if len(descriptors) == 0 {
		return nil
	}
	names := make([]string, len(descriptors))
	for idx, desc := range descriptors {
		names[idx] = desc.Name
	}
	return names
}

// Descriptors returns the descriptors of field in language order.
func (r *Registry) Descriptors(field string) []Descriptor {
	if r == nil {
		return nil
	}
	return append([]Descriptor(nil), r.derived[field]...)
}

// Lookup returns the descriptor for (field, language).
func (r *Registry) Lookup(field, lang string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	idx, ok := r.langs.Index(lang)
	if !ok {
		return Descriptor{}, false
	}
	descriptors := r.derived[field]
	if idx >= len(descriptors) {
		return Descriptor{}, false
	}
	return descriptors[idx], true
}

// ByName returns the descriptor owning a derived field name.
func (r *Registry) ByName(name string) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	desc, ok := r.byName[name]
	return desc, ok
}

// Localize returns the derived name of field in lang. Non-translatable names
// are returned unchanged.
func (r *Registry) Localize(field, lang string) string {
	if desc, ok := r.Lookup(field, lang); ok {
		return desc.Name
	}
	return field
}

// Monitored lists the translatable fields with last-modified tracking.
func (r *Registry) Monitored() []string {
	if r == nil {
		return nil
	}
	var names []string
	for _, field := range r.fields {
		if field.Tracked {
			names = append(names, field.Name)
		}
	}
	return names
}

// Columns returns the model columns, each translatable original followed by
// its derived columns.
func (r *Registry) Columns() []Column {
	if r == nil {
		return nil
	}
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Column returns the named column, original or derived.
func (r *Registry) Column(name string) (Column, bool) {
	if r == nil {
		return Column{}, false
	}
	idx, ok := r.columnIdx[name]
	if !ok {
		return Column{}, false
	}
	return r.columns[idx], true
}

// Slots lists every record slot backing the translatable fields: value slots
// followed by modified slots for tracked descriptors.
func (r *Registry) Slots() []string {
	if r == nil {
		return nil
	}
	var slots []string
	for _, field := range r.fields {
		for _, desc := range r.derived[field.Name] {
			slots = append(slots, desc.ValueSlot)
			if desc.Tracked() {
				slots = append(slots, desc.ModifiedSlot)
			}
		}
	}
	return slots
}
