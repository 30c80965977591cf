// Package fieldspec rewrites admin field declarations so every translatable
// field is replaced by its per-language derived fields.
//
// Declarations are modelled as a closed variant: Name, Group and Fieldset.
// Expansion is functional; inputs are never mutated and a nil declaration
// stays nil because "no explicit fields" differs from "no fields".
package fieldspec

import (
	"fmt"
	"strings"
)

// Entry is one element of a field declaration. The set of implementations is
// closed: Name, Group and Fieldset.
type Entry interface {
	entry()
}

// Name is a single field name.
type Name string

// Group is the legacy grouped form, rendered on one row by the host. Groups
// with translatable members are flattened on expansion.
type Group []Entry

// Fieldset is a labelled section with its own field declaration.
type Fieldset struct {
	Label       string         `json:"label" yaml:"label"`
	Fields      []Entry        `json:"-" yaml:"-"`
	Classes     []string       `json:"classes,omitempty" yaml:"classes,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Options     map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

func (Name) entry()     {}
func (Group) entry()    {}
func (Fieldset) entry() {}

// Names builds a flat declaration from plain field names. Nil stays nil.
func Names(names ...string) []Entry {
	if names == nil {
		return nil
	}
	out := make([]Entry, len(names))
	for idx, name := range names {
		out[idx] = Name(name)
	}
	return out
}

// Flatten lists every field name in declaration order, descending into groups
// and fieldsets.
func Flatten(entries []Entry) []string {
	if entries == nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	var walk func([]Entry)
	walk = func(list []Entry) {
		for _, item := range list {
			switch v := item.(type) {
			case Name:
				out = append(out, string(v))
			case Group:
				walk(v)
			case Fieldset:
				walk(v.Fields)
			default:
				panic(unknownEntry(item))
			}
		}
	}
	walk(entries)
	return out
}

// FlattenFieldsets lists every field name of the fieldsets in order.
func FlattenFieldsets(sets []Fieldset) []string {
	out := make([]string, 0)
	for _, set := range sets {
		out = append(out, Flatten(set.Fields)...)
	}
	return out
}

// String renders entries in a compact form, mainly for diagnostics.
func String(entries []Entry) string {
	if entries == nil {
		return "<nil>"
	}
	parts := make([]string, len(entries))
	for idx, item := range entries {
		switch v := item.(type) {
		case Name:
			parts[idx] = string(v)
		case Group:
			parts[idx] = "(" + String(v) + ")"
		case Fieldset:
			parts[idx] = fmt.Sprintf("%q{%s}", v.Label, String(v.Fields))
		default:
			panic(unknownEntry(item))
		}
	}
	return strings.Join(parts, ", ")
}

func unknownEntry(item Entry) string {
	return fmt.Sprintf("fieldspec: unsupported entry %T", item)
}
