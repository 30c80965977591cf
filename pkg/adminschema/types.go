// Package adminschema loads model admin declarations and their translatable
// field registrations from JSON or YAML documents.
package adminschema

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-modeltranslation/pkg/admin"
	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/model"
)

// Store keeps the parsed models. It is safe for concurrent readers when
// treated as immutable after construction.
type Store struct {
	models map[string]Model
}

// Model is one declared model: its registration and its admin declaration.
type Model struct {
	ID           string
	Source       string
	Inline       bool
	Registration model.Registration
	Declaration  admin.Declaration
}

// Model returns the model with id "<app>.<model>".
func (s *Store) Model(id string) (Model, bool) {
	if s == nil {
		return Model{}, false
	}
	m, ok := s.models[id]
	return m, ok
}

// IDs lists model ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.models))
	for id := range s.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any model.
func (s *Store) Empty() bool {
	return s == nil || len(s.models) == 0
}

// Build registers the model against langs and constructs its admin.
func (m Model) Build(langs *languages.Registry, options ...admin.Option) (*model.Registry, *admin.Admin, error) {
	reg, err := model.Register(m.Registration, langs)
	if err != nil {
		return nil, nil, fmt.Errorf("adminschema: %s: %w", m.ID, err)
	}
	var a *admin.Admin
	if m.Inline {
		a, err = admin.NewInline(reg, m.Declaration, options...)
	} else {
		a, err = admin.New(reg, m.Declaration, options...)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("adminschema: %s: %w", m.ID, err)
	}
	return reg, a, nil
}

type documentFile struct {
	Models map[string]modelFile `json:"models" yaml:"models"`
}

type modelFile struct {
	Label        string       `json:"label" yaml:"label"`
	Columns      []columnFile `json:"columns" yaml:"columns"`
	Translatable []fieldFile  `json:"translatable" yaml:"translatable"`
	Admin        adminFile    `json:"admin" yaml:"admin"`
}

type columnFile struct {
	Name        string `json:"name" yaml:"name"`
	VerboseName string `json:"verboseName" yaml:"verboseName"`
	Type        string `json:"type" yaml:"type"`
	Mandatory   bool   `json:"mandatory" yaml:"mandatory"`
	ReadOnly    bool   `json:"readOnly" yaml:"readOnly"`
	PrimaryKey  bool   `json:"primaryKey" yaml:"primaryKey"`
	EmptyValue  string `json:"emptyValue" yaml:"emptyValue"`
}

type fieldFile struct {
	Name        string `json:"name" yaml:"name"`
	VerboseName string `json:"verboseName" yaml:"verboseName"`
	Type        string `json:"type" yaml:"type"`
	Mandatory   bool   `json:"mandatory" yaml:"mandatory"`
	Tracked     bool   `json:"tracked" yaml:"tracked"`
	EmptyValue  string `json:"emptyValue" yaml:"emptyValue"`
}

type adminFile struct {
	Inline                bool               `json:"inline" yaml:"inline"`
	Fields                []any              `json:"fields" yaml:"fields"`
	Fieldsets             []any              `json:"fieldsets" yaml:"fieldsets"`
	Exclude               []string           `json:"exclude" yaml:"exclude"`
	Readonly              []string           `json:"readonly" yaml:"readonly"`
	Prepopulated          []prepopulatedFile `json:"prepopulated" yaml:"prepopulated"`
	ListDisplay           []string           `json:"listDisplay" yaml:"listDisplay"`
	ListEditable          []string           `json:"listEditable" yaml:"listEditable"`
	ListFilter            []string           `json:"listFilter" yaml:"listFilter"`
	ListPerPage           int                `json:"listPerPage" yaml:"listPerPage"`
	GroupFieldsets        bool               `json:"groupFieldsets" yaml:"groupFieldsets"`
	BothEmptyValuesFields []string           `json:"bothEmptyValuesFields" yaml:"bothEmptyValuesFields"`
	TranslationFieldOrder []string           `json:"translationFieldOrder" yaml:"translationFieldOrder"`
}

type prepopulatedFile struct {
	Field   string   `json:"field" yaml:"field"`
	Sources []string `json:"sources" yaml:"sources"`
}
