package adminschema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-modeltranslation/pkg/admin"
	"github.com/goliatone/go-modeltranslation/pkg/fieldspec"
	"github.com/goliatone/go-modeltranslation/pkg/model"
)

// LoadFS walks the provided filesystem and parses JSON/YAML admin schema
// files. When fsys is nil or no schema files are present, the returned store
// is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{models: make(map[string]Model)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("adminschema: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawID, raw := range doc.Models {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("adminschema: file %s defines an empty model id", path)
			}
			if _, exists := store.models[id]; exists {
				return fmt.Errorf("adminschema: duplicate model %q (file %s)", id, path)
			}
			m, err := normaliseModel(raw, id, path)
			if err != nil {
				return err
			}
			store.models[id] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("adminschema: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("adminschema: parse %s: invalid JSON or YAML", source)
}

func normaliseModel(raw modelFile, id, source string) (Model, error) {
	app, name, ok := strings.Cut(id, ".")
	if !ok {
		app, name = "", id
	}
	app, name = strings.TrimSpace(app), strings.TrimSpace(name)
	if name == "" {
		return Model{}, fmt.Errorf("adminschema: model id %q (file %s) has no model name", id, source)
	}

	reg := model.Registration{App: app, Model: name, Label: raw.Label}
	for _, col := range raw.Columns {
		if strings.TrimSpace(col.Name) == "" {
			return Model{}, fmt.Errorf("adminschema: model %q (file %s) declares a column without a name", id, source)
		}
		reg.Columns = append(reg.Columns, model.Column{
			Name:        strings.TrimSpace(col.Name),
			VerboseName: col.VerboseName,
			Type:        model.FieldType(strings.ToLower(strings.TrimSpace(col.Type))),
			Mandatory:   col.Mandatory,
			ReadOnly:    col.ReadOnly,
			PrimaryKey:  col.PrimaryKey,
			EmptyValue:  col.EmptyValue,
		})
	}
	for _, field := range raw.Translatable {
		reg.Fields = append(reg.Fields, model.FieldOptions{
			Name:        strings.TrimSpace(field.Name),
			VerboseName: field.VerboseName,
			Type:        model.FieldType(strings.ToLower(strings.TrimSpace(field.Type))),
			Mandatory:   field.Mandatory,
			Tracked:     field.Tracked,
			EmptyValue:  field.EmptyValue,
		})
	}

	fields, err := decodeEntries(raw.Admin.Fields, fmt.Sprintf("%s fields", id))
	if err != nil {
		return Model{}, fmt.Errorf("adminschema: file %s: %w", source, err)
	}
	var fieldsets []fieldspec.Fieldset
	for idx, rawSet := range raw.Admin.Fieldsets {
		set, err := decodeFieldset(rawSet, fmt.Sprintf("%s fieldsets[%d]", id, idx))
		if err != nil {
			return Model{}, fmt.Errorf("adminschema: file %s: %w", source, err)
		}
		fieldsets = append(fieldsets, set)
	}

	decl := admin.Declaration{
		Fields:                fields,
		Fieldsets:             fieldsets,
		Exclude:               raw.Admin.Exclude,
		ReadonlyFields:        raw.Admin.Readonly,
		ListDisplay:           raw.Admin.ListDisplay,
		ListEditable:          raw.Admin.ListEditable,
		ListFilter:            raw.Admin.ListFilter,
		ListPerPage:           raw.Admin.ListPerPage,
		GroupFieldsets:        raw.Admin.GroupFieldsets,
		BothEmptyValuesFields: raw.Admin.BothEmptyValuesFields,
		TranslationFieldOrder: raw.Admin.TranslationFieldOrder,
	}
	for _, rule := range raw.Admin.Prepopulated {
		if strings.TrimSpace(rule.Field) == "" {
			return Model{}, fmt.Errorf("adminschema: model %q (file %s) has a prepopulated rule without field", id, source)
		}
		decl.Prepopulated = append(decl.Prepopulated, fieldspec.Prepopulated{Field: rule.Field, Sources: rule.Sources})
	}

	return Model{
		ID:           id,
		Source:       source,
		Inline:       raw.Admin.Inline,
		Registration: reg,
		Declaration:  decl,
	}, nil
}

// decodeEntries maps decoded JSON/YAML values to field entries: strings are
// names, lists are groups and objects with a "fields" key are fieldsets.
func decodeEntries(raw []any, where string) ([]fieldspec.Entry, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]fieldspec.Entry, 0, len(raw))
	for idx, item := range raw {
		entry, err := decodeEntry(item, fmt.Sprintf("%s[%d]", where, idx))
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func decodeEntry(item any, where string) (fieldspec.Entry, error) {
	switch v := item.(type) {
	case string:
		name := strings.TrimSpace(v)
		if name == "" {
			return nil, fmt.Errorf("%s: empty field name", where)
		}
		return fieldspec.Name(name), nil
	case []any:
		members, err := decodeEntries(v, where)
		if err != nil {
			return nil, err
		}
		return fieldspec.Group(members), nil
	case map[string]any:
		return decodeFieldset(v, where)
	default:
		return nil, fmt.Errorf("%s: unsupported entry %T", where, item)
	}
}

func decodeFieldset(item any, where string) (fieldspec.Fieldset, error) {
	raw, ok := item.(map[string]any)
	if !ok {
		return fieldspec.Fieldset{}, fmt.Errorf("%s: fieldset must be an object, got %T", where, item)
	}
	set := fieldspec.Fieldset{}
	for key, value := range raw {
		switch key {
		case "label":
			if value != nil {
				label, ok := value.(string)
				if !ok {
					return fieldspec.Fieldset{}, fmt.Errorf("%s: label must be a string", where)
				}
				set.Label = label
			}
		case "description":
			desc, _ := value.(string)
			set.Description = desc
		case "classes":
			list, ok := value.([]any)
			if !ok {
				return fieldspec.Fieldset{}, fmt.Errorf("%s: classes must be a list", where)
			}
			for _, class := range list {
				name, ok := class.(string)
				if !ok {
					return fieldspec.Fieldset{}, fmt.Errorf("%s: classes must be strings", where)
				}
				set.Classes = append(set.Classes, name)
			}
		case "fields":
			list, ok := value.([]any)
			if !ok {
				return fieldspec.Fieldset{}, fmt.Errorf("%s: fields must be a list", where)
			}
			fields, err := decodeEntries(list, where+".fields")
			if err != nil {
				return fieldspec.Fieldset{}, err
			}
			set.Fields = fields
		default:
			if set.Options == nil {
				set.Options = make(map[string]any)
			}
			set.Options[key] = value
		}
	}
	return set, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
