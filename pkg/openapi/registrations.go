package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-modeltranslation/pkg/model"
)

const (
	modelExtensionKey        = "x-modeltranslation"
	translatableExtensionKey = "x-translatable"
	emptyValueExtensionKey   = "x-empty-value"
	primaryKeyExtensionKey   = "x-primary-key"
	orderExtensionKey        = "x-order"
	fieldTypeExtensionKey    = "x-field-type"
)

// ErrNoRegistrations is returned when a document declares no component schema
// marked with x-modeltranslation.
var ErrNoRegistrations = errors.New("openapi: no translatable schemas")

// Registrations parses doc and returns one registration per component schema
// carrying the x-modeltranslation extension, sorted by app and model.
//
// The extension is either true, in which case the schema name is used as
// the model name, or an object with app, model and label keys. Properties
// become columns ordered by x-order and then name. A property marked with
// x-translatable (true, or an object with tracked and emptyValue keys) is
// registered as a translatable field.
func Registrations(ctx context.Context, doc Document) ([]model.Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = false

	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("openapi: parse %s: %w", doc.Location(), err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, ErrNoRegistrations
	}

	var regs []model.Registration
	for name, ref := range spec.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		marker, ok := ref.Value.Extensions[modelExtensionKey]
		if !ok {
			continue
		}
		reg, enabled, err := registration(name, marker, ref.Value)
		if err != nil {
			return nil, err
		}
		if enabled {
			regs = append(regs, reg)
		}
	}
	if len(regs) == 0 {
		return nil, ErrNoRegistrations
	}
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].App != regs[j].App {
			return regs[i].App < regs[j].App
		}
		return regs[i].Model < regs[j].Model
	})
	return regs, nil
}

func registration(schemaName string, marker any, schema *openapi3.Schema) (model.Registration, bool, error) {
	reg := model.Registration{Model: strings.ToLower(schemaName), Label: schema.Title}
	switch v := marker.(type) {
	case bool:
		if !v {
			return model.Registration{}, false, nil
		}
	default:
		meta, ok := cloneMap(v)
		if !ok {
			return model.Registration{}, false, fmt.Errorf("openapi: schema %s: %s must be a boolean or an object", schemaName, modelExtensionKey)
		}
		if app := stringValue(meta["app"]); app != "" {
			reg.App = app
		}
		if name := stringValue(meta["model"]); name != "" {
			reg.Model = name
		}
		if label := stringValue(meta["label"]); label != "" {
			reg.Label = label
		}
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	type ordered struct {
		order int
		col   model.Column
		field *model.FieldOptions
	}
	props := make([]ordered, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		col := model.Column{
			Name:        name,
			VerboseName: prop.Title,
			Type:        fieldType(prop),
			Mandatory:   required[name],
			ReadOnly:    prop.ReadOnly,
			PrimaryKey:  boolValue(prop.Extensions[primaryKeyExtensionKey]),
			EmptyValue:  stringValue(prop.Extensions[emptyValueExtensionKey]),
		}
		entry := ordered{order: intValue(prop.Extensions[orderExtensionKey]), col: col}

		if raw, ok := prop.Extensions[translatableExtensionKey]; ok {
			field, enabled, err := translatable(schemaName, name, raw)
			if err != nil {
				return model.Registration{}, false, err
			}
			if enabled {
				if field.EmptyValue == "" {
					field.EmptyValue = col.EmptyValue
				}
				entry.field = &field
			}
		}
		props = append(props, entry)
	}
	sort.SliceStable(props, func(i, j int) bool {
		if props[i].order != props[j].order {
			return props[i].order < props[j].order
		}
		return props[i].col.Name < props[j].col.Name
	})

	for _, p := range props {
		reg.Columns = append(reg.Columns, p.col)
		if p.field != nil {
			reg.Fields = append(reg.Fields, *p.field)
		}
	}
	return reg, true, nil
}

func translatable(schemaName, property string, raw any) (model.FieldOptions, bool, error) {
	field := model.FieldOptions{Name: property}
	switch v := raw.(type) {
	case bool:
		return field, v, nil
	default:
		meta, ok := cloneMap(v)
		if !ok {
			return model.FieldOptions{}, false, fmt.Errorf("openapi: schema %s property %s: %s must be a boolean or an object", schemaName, property, translatableExtensionKey)
		}
		field.Tracked = boolValue(meta["tracked"])
		field.EmptyValue = stringValue(meta["emptyValue"])
		return field, true, nil
	}
}

func fieldType(schema *openapi3.Schema) model.FieldType {
	if override := stringValue(schema.Extensions[fieldTypeExtensionKey]); override != "" {
		return model.FieldType(strings.ToLower(override))
	}
	switch firstSchemaType(schema.Type) {
	case openapi3.TypeInteger, openapi3.TypeNumber:
		return model.FieldTypeInteger
	case openapi3.TypeBoolean:
		return model.FieldTypeBoolean
	}
	switch schema.Format {
	case "date":
		return model.FieldTypeDate
	case "date-time":
		return model.FieldTypeDateTime
	case "email":
		return model.FieldTypeEmail
	case "uri", "url":
		return model.FieldTypeURL
	}
	// Unbounded strings are long text.
	if schema.MaxLength == nil {
		return model.FieldTypeText
	}
	return model.FieldTypeChar
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

func cloneMap(value any) (map[string]any, bool) {
	source, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(source))
	for key, item := range source {
		out[key] = item
	}
	return out, true
}

func stringValue(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

func boolValue(value any) bool {
	b, _ := value.(bool)
	return b
}

func intValue(value any) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}
