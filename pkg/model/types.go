package model

import "strings"

// FieldType is the simplified column kind used to pick default widgets.
type FieldType string

const (
	FieldTypeChar     FieldType = "char"
	FieldTypeText     FieldType = "text"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDate     FieldType = "date"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeSlug     FieldType = "slug"
	FieldTypeURL      FieldType = "url"
	FieldTypeEmail    FieldType = "email"
)

// Empty value modes for translatable columns.
const (
	EmptyValueDefault = ""
	EmptyValueBoth    = "both"
	EmptyValueNone    = "none"
)

// Column describes one model column as seen by the host admin framework.
// Derived per-language columns carry their Descriptor in Translated.
type Column struct {
	Model       string      `json:"model,omitempty"`
	Name        string      `json:"name"`
	VerboseName string      `json:"verboseName,omitempty"`
	Type        FieldType   `json:"type,omitempty"`
	Mandatory   bool        `json:"mandatory,omitempty"`
	ReadOnly    bool        `json:"readOnly,omitempty"`
	PrimaryKey  bool        `json:"primaryKey,omitempty"`
	EmptyValue  string      `json:"emptyValue,omitempty"`
	Translated  *Descriptor `json:"translated,omitempty"`
}

// Editable reports whether the column appears in admin forms.
func (c Column) Editable() bool {
	return !c.ReadOnly && !c.PrimaryKey
}

// Label returns the verbose name, falling back to a humanised column name.
func (c Column) Label() string {
	if label := strings.TrimSpace(c.VerboseName); label != "" {
		return label
	}
	return strings.ReplaceAll(c.Name, "_", " ")
}

// WidgetKind identifies the control rendered for a form field.
type WidgetKind string

const (
	WidgetTextInput WidgetKind = "text"
	WidgetTextarea  WidgetKind = "textarea"
	WidgetCheckbox  WidgetKind = "checkbox"
	WidgetNumber    WidgetKind = "number"
	WidgetDate      WidgetKind = "date"
	WidgetSelect    WidgetKind = "select"
)

// Widget is the renderable control of a form field.
type Widget struct {
	Kind      WidgetKind        `json:"kind"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Clearable bool              `json:"clearable,omitempty"`
}

// Clone returns a deep copy so patched widgets never alias the source.
func (w Widget) Clone() Widget {
	out := w
	if len(w.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(w.Attrs))
		for key, value := range w.Attrs {
			out.Attrs[key] = value
		}
	}
	return out
}

// TextLike reports whether the widget accepts free text.
func (w Widget) TextLike() bool {
	return w.Kind == WidgetTextInput || w.Kind == WidgetTextarea
}

// Classes splits the widget's class attribute.
func (w Widget) Classes() []string {
	if w.Attrs == nil {
		return nil
	}
	return strings.Fields(w.Attrs["class"])
}

// SetClasses replaces the widget's class attribute.
func (w *Widget) SetClasses(classes []string) {
	if w.Attrs == nil {
		w.Attrs = make(map[string]string)
	}
	w.Attrs["class"] = strings.Join(classes, " ")
}

// FormField models a host form field that the admin integration patches.
type FormField struct {
	Name     string            `json:"name"`
	Label    string            `json:"label,omitempty"`
	Required bool              `json:"required"`
	Blank    bool              `json:"blank,omitempty"`
	Widget   Widget            `json:"widget"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// SupportsDualEmptyValue marks fields that distinguish an empty string
	// from a missing value. Renderers pick the nullable strategy for them.
	SupportsDualEmptyValue bool `json:"supportsDualEmptyValue,omitempty"`

	// Strategy names the rendering strategy chosen by the widgets registry.
	Strategy string `json:"strategy,omitempty"`
}

// Form is an ordered set of form fields built for one model.
type Form struct {
	Model    string            `json:"model"`
	Fields   []FormField       `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Field returns a pointer to the named field.
func (f *Form) Field(name string) (*FormField, bool) {
	if f == nil {
		return nil, false
	}
	for idx := range f.Fields {
		if f.Fields[idx].Name == name {
			return &f.Fields[idx], true
		}
	}
	return nil, false
}

// Names lists the field names in form order.
func (f *Form) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, len(f.Fields))
	for idx, field := range f.Fields {
		names[idx] = field.Name
	}
	return names
}
