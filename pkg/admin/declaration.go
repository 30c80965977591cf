package admin

import "github.com/goliatone/go-modeltranslation/pkg/fieldspec"

// Declaration mirrors the options a host model admin declares. Nil slices
// mean "not declared" and are kept distinct from empty ones.
type Declaration struct {
	Fields         []fieldspec.Entry
	Fieldsets      []fieldspec.Fieldset
	Exclude        []string
	ReadonlyFields []string
	Prepopulated   []fieldspec.Prepopulated
	ListDisplay    []string
	ListEditable   []string
	ListFilter     []string
	ListPerPage    int

	// FormFields and FormExclude come from a custom form's own metadata.
	// They apply only when the admin declares no fields or excludes.
	FormFields  []string
	FormExclude []string

	// GroupFieldsets builds one fieldset per translatable field when no
	// fieldsets are declared.
	GroupFieldsets bool
	// BothEmptyValuesFields lists originals whose derived fields keep an
	// empty string apart from a missing value.
	BothEmptyValuesFields []string
	// TranslationFieldOrder lists originals shown first in the panel.
	TranslationFieldOrder []string
}

// DefaultListPerPage is used when a declaration sets no page size.
const DefaultListPerPage = 100

// Clone returns a deep copy of the declaration.
func (d Declaration) Clone() Declaration {
	out := d
	out.Fields = fieldspec.Expand(d.Fields, nil)
	out.Fieldsets = fieldspec.ExpandFieldsets(d.Fieldsets, nil)
	out.Exclude = cloneStrings(d.Exclude)
	out.ReadonlyFields = cloneStrings(d.ReadonlyFields)
	out.ListDisplay = cloneStrings(d.ListDisplay)
	out.ListEditable = cloneStrings(d.ListEditable)
	out.ListFilter = cloneStrings(d.ListFilter)
	out.FormFields = cloneStrings(d.FormFields)
	out.FormExclude = cloneStrings(d.FormExclude)
	out.BothEmptyValuesFields = cloneStrings(d.BothEmptyValuesFields)
	out.TranslationFieldOrder = cloneStrings(d.TranslationFieldOrder)
	out.Prepopulated = clonePrepopulated(d.Prepopulated)
	return out
}

func clonePrepopulated(in []fieldspec.Prepopulated) []fieldspec.Prepopulated {
	if in == nil {
		return nil
	}
	out := make([]fieldspec.Prepopulated, len(in))
	for idx, rule := range in {
		out[idx] = fieldspec.Prepopulated{Field: rule.Field, Sources: cloneStrings(rule.Sources)}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
