package fieldspec

import "github.com/goliatone/go-modeltranslation/pkg/model"

// Translations resolves an original field name to its derived names in
// language order. It returns nil for names that are not translatable.
type Translations interface {
	Derived(field string) []string
}

// Catalog exposes the per-language descriptors of the translatable fields.
type Catalog interface {
	Fields() []string
	Descriptors(field string) []model.Descriptor
}

// Expand replaces every translatable Name by its derived names at the same
// position. Groups with a translatable member at any depth are expanded and
// spliced into the parent; other groups are kept. Fieldsets keep their label
// and options while their fields are expanded.
func Expand(entries []Entry, reg Translations) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, 0, len(entries))
	for _, item := range entries {
		switch v := item.(type) {
		case Name:
			if derived := derivedOf(reg, string(v)); derived != nil {
				for _, name := range derived {
					out = append(out, Name(name))
				}
				continue
			}
			out = append(out, v)
		case Group:
			if hasTranslatable(v, reg) {
				out = append(out, Expand(v, reg)...)
				continue
			}
			out = append(out, cloneGroup(v))
		case Fieldset:
			out = append(out, expandFieldset(v, reg))
		default:
			panic(unknownEntry(item))
		}
	}
	return out
}

// ExpandNames is Expand for flat name lists.
func ExpandNames(names []string, reg Translations) []string {
	if names == nil {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if derived := derivedOf(reg, name); derived != nil {
			out = append(out, derived...)
			continue
		}
		out = append(out, name)
	}
	return out
}

// ExpandFieldsets expands the fields of each fieldset. Fieldset order and
// options are untouched.
func ExpandFieldsets(sets []Fieldset, reg Translations) []Fieldset {
	if sets == nil {
		return nil
	}
	out := make([]Fieldset, len(sets))
	for idx, set := range sets {
		out[idx] = expandFieldset(set, reg)
	}
	return out
}

// ExcludeOriginals appends every translatable original to exclude so the host
// form never renders the unsplit field.
func ExcludeOriginals(exclude []string, originals []string) []string {
	out := make([]string, 0, len(exclude)+len(originals))
	seen := make(map[string]struct{}, len(exclude)+len(originals))
	for _, list := range [][]string{exclude, originals} {
		for _, name := range list {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// LanguageExcludes returns the derived names belonging to the given
// languages, in field then language order.
func LanguageExcludes(catalog Catalog, langs []string) []string {
	if catalog == nil || len(langs) == 0 {
		return []string{}
	}
	wanted := make(map[string]struct{}, len(langs))
	for _, code := range langs {
		wanted[code] = struct{}{}
	}
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, field := range catalog.Fields() {
		for _, desc := range catalog.Descriptors(field) {
			if _, ok := wanted[desc.Language]; !ok {
				continue
			}
			if _, dup := seen[desc.Name]; dup {
				continue
			}
			seen[desc.Name] = struct{}{}
			out = append(out, desc.Name)
		}
	}
	return out
}

// ExpandListColumns replaces each translatable list_editable column by its
// derived columns, both in editable and at the column's own position in
// display.
func ExpandListColumns(editable, display []string, reg Translations) ([]string, []string) {
	if len(editable) == 0 {
		return editable, display
	}
	editableOut := append([]string(nil), editable...)
	var displayOut []string
	if display != nil {
		displayOut = append([]string(nil), display...)
	}
	for _, column := range editable {
		derived := derivedOf(reg, column)
		if derived == nil {
			continue
		}
		editableOut = splice(editableOut, column, derived)
		displayOut = splice(displayOut, column, derived)
	}
	return editableOut, displayOut
}

func splice(list []string, target string, with []string) []string {
	for idx, name := range list {
		if name != target {
			continue
		}
		out := make([]string, 0, len(list)+len(with)-1)
		out = append(out, list[:idx]...)
		out = append(out, with...)
		return append(out, list[idx+1:]...)
	}
	return list
}

func expandFieldset(set Fieldset, reg Translations) Fieldset {
	out := set
	out.Fields = Expand(set.Fields, reg)
	if set.Classes != nil {
		out.Classes = append([]string(nil), set.Classes...)
	}
	if set.Options != nil {
		out.Options = make(map[string]any, len(set.Options))
		for key, value := range set.Options {
			out.Options[key] = value
		}
	}
	return out
}

func hasTranslatable(group Group, reg Translations) bool {
	for _, item := range group {
		switch v := item.(type) {
		case Name:
			if derivedOf(reg, string(v)) != nil {
				return true
			}
		case Group:
			if hasTranslatable(v, reg) {
				return true
			}
		case Fieldset:
			if hasTranslatable(Group(v.Fields), reg) {
				return true
			}
		default:
			panic(unknownEntry(item))
		}
	}
	return false
}

func cloneGroup(group Group) Group {
	out := make(Group, len(group))
	for idx, item := range group {
		switch v := item.(type) {
		case Group:
			out[idx] = cloneGroup(v)
		case Fieldset:
			out[idx] = expandFieldset(v, nil)
		default:
			out[idx] = item
		}
	}
	return out
}

func derivedOf(reg Translations, name string) []string {
	if reg == nil {
		return nil
	}
	derived := reg.Derived(name)
	if len(derived) == 0 {
		return nil
	}
	return derived
}
