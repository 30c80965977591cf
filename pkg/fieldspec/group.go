package fieldspec

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-modeltranslation/pkg/model"
)

// FieldsetClass marks the per-field fieldsets built by GroupFieldsets.
const FieldsetClass = "mt-fieldset"

// GroupFieldsets arranges an already expanded flat field list into an
// untitled fieldset of untranslated editable columns followed by one
// fieldset per translatable field. Per-field fieldsets are labelled with the
// capitalized verbose name and ordered by the position of their derived
// columns on the model.
func GroupFieldsets(flat []string, columns []model.Column, catalog Catalog) []Fieldset {
	present := make(map[string]struct{}, len(flat))
	for _, name := range flat {
		present[name] = struct{}{}
	}

	labels := make(map[string]string, len(columns))
	var untranslated []string
	for _, col := range columns {
		labels[col.Name] = col.Label()
		if col.Translated != nil || !col.Editable() {
			continue
		}
		if _, ok := present[col.Name]; ok {
			untranslated = append(untranslated, col.Name)
		}
	}

	out := make([]Fieldset, 0)
	if len(untranslated) > 0 {
		out = append(out, Fieldset{Label: "", Fields: Names(untranslated...)})
	}
	if catalog == nil {
		return out
	}

	perField := make(map[string]Fieldset)
	for _, field := range catalog.Fields() {
		var derived []string
		for _, desc := range catalog.Descriptors(field) {
			derived = append(derived, desc.Name)
		}
		sort.Strings(derived)
		if !anyPresent(derived, present) {
			continue
		}
		label, ok := labels[field]
		if !ok {
			label = strings.ReplaceAll(field, "_", " ")
		}
		perField[field] = Fieldset{
			Label:   capitalize(label),
			Fields:  Names(derived...),
			Classes: []string{FieldsetClass},
		}
	}

	emitted := make(map[string]struct{}, len(perField))
	for _, col := range columns {
		if col.Translated == nil {
			continue
		}
		if _, ok := present[col.Name]; !ok {
			continue
		}
		original := col.Translated.Original
		if _, done := emitted[original]; done {
			continue
		}
		set, ok := perField[original]
		if !ok {
			continue
		}
		emitted[original] = struct{}{}
		out = append(out, set)
	}
	return out
}

func anyPresent(names []string, present map[string]struct{}) bool {
	for _, name := range names {
		if _, ok := present[name]; ok {
			return true
		}
	}
	return false
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(value string) string {
	if value == "" {
		return value
	}
	r, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(r)) + strings.ToLower(value[size:])
}
