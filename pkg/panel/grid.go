package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-modeltranslation/pkg/model"
	"github.com/goliatone/go-modeltranslation/pkg/status"
)

// Query selects and pages grid rows.
type Query struct {
	// Language restricts editable columns to one language.
	Language string
	// Statuses keeps rows with at least one cell carrying any of the labels.
	Statuses []status.Label
	// Filters keeps rows whose value equals the given one, keyed by a
	// list_filter field of the admin.
	Filters map[string]string
	Page    int
	PerPage int
}

// Column is one (field, language) pair of the grid.
type Column struct {
	Field    string `json:"field"`
	Language string `json:"language"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Tracked  bool   `json:"tracked"`
	Default  bool   `json:"default"`
	Bidi     bool   `json:"bidi"`
	Editable bool   `json:"editable"`
}

// Cell is the status of one record value.
type Cell struct {
	Name         string       `json:"name"`
	Field        string       `json:"field"`
	Language     string       `json:"language"`
	Status       status.Label `json:"status"`
	Labels       string       `json:"labels"`
	Value        string       `json:"value"`
	Preview      string       `json:"preview"`
	LastModified string       `json:"last_modified"`
	Editable     bool         `json:"editable"`
	Bidi         bool         `json:"bidi"`

	labels status.Set
}

// Row holds the cells of one record in column order.
type Row struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// Grid is one page of the status grid.
type Grid struct {
	App             string            `json:"app"`
	Model           string            `json:"model"`
	Label           string            `json:"label"`
	DefaultLanguage string            `json:"default_language"`
	Language        string            `json:"language,omitempty"`
	Filters         map[string]string `json:"filters,omitempty"`
	Languages       []string          `json:"languages"`
	Fields          []string          `json:"fields"`
	Columns         []Column          `json:"columns"`
	Rows            []Row             `json:"rows"`
	Total           int               `json:"total"`
	Page            int               `json:"page"`
	PerPage         int               `json:"per_page"`
	Pages           int               `json:"pages"`
}

// Counts tallies the primary status of every cell on the page.
func (g Grid) Counts() map[status.Label]int {
	out := make(map[status.Label]int, len(status.Labels()))
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			out[cell.Status]++
		}
	}
	return out
}

// Grid builds the status grid: one row per record, one column per
// translatable field and language in panel order.
func (s *Service) Grid(ctx context.Context, q Query) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return Grid{}, err
	}
	langs := s.reg.Languages()
	lang := strings.ToLower(strings.TrimSpace(q.Language))
	if lang != "" && !langs.Has(lang) {
		return Grid{}, fmt.Errorf("%w: unknown language %q", ErrInvalidChange, q.Language)
	}
	filters, err := s.filters(q.Filters)
	if err != nil {
		return Grid{}, err
	}

	grid := Grid{
		App:             s.reg.App(),
		Model:           s.reg.Model(),
		Label:           s.reg.Label(),
		DefaultLanguage: langs.Default(),
		Language:        lang,
		Filters:         filters,
		Languages:       langs.Codes(),
		Fields:          s.admin.TranslationFields(),
	}
	grid.Columns = s.columns(grid.Fields, lang)

	records, err := s.store.List(ctx)
	if err != nil {
		return Grid{}, fmt.Errorf("panel: grid: %w", err)
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if !matchesFilters(rec, filters) {
			continue
		}
		row := s.row(rec, grid.Columns)
		if matches(row, q.Statuses) {
			rows = append(rows, row)
		}
	}

	grid.Total = len(rows)
	grid.PerPage = q.PerPage
	if grid.PerPage <= 0 {
		grid.PerPage = s.admin.ListPerPage()
	}
	grid.Pages = (grid.Total + grid.PerPage - 1) / grid.PerPage
	if grid.Pages == 0 {
		grid.Pages = 1
	}
	grid.Page = min(max(q.Page, 1), grid.Pages)

	start := (grid.Page - 1) * grid.PerPage
	end := min(start+grid.PerPage, grid.Total)
	grid.Rows = rows[start:end]
	return grid, nil
}

func (s *Service) columns(fields []string, lang string) []Column {
	langs := s.reg.Languages()
	var out []Column
	for _, field := range fields {
		col, _ := s.reg.Column(field)
		for _, desc := range s.reg.Descriptors(field) {
			derived, _ := s.reg.Column(desc.Name)
			out = append(out, Column{
				Field:    field,
				Language: desc.Language,
				Name:     desc.Name,
				Label:    firstNonEmpty(derived.Label(), col.Label()),
				Tracked:  desc.Tracked(),
				Default:  desc.Default,
				Bidi:     langs.Bidi(desc.Language),
				Editable: lang == "" || lang == desc.Language,
			})
		}
	}
	return out
}

func (s *Service) row(rec model.Record, columns []Column) Row {
	row := Row{ID: rec.ID(), Cells: make([]Cell, 0, len(columns))}
	for _, col := range columns {
		value, _ := rec.Get(col.Name)
		labels := s.eval.EvaluateSet(rec, col.Field, col.Language)
		text := model.StringValue(value)
		row.Cells = append(row.Cells, Cell{
			Name:         col.Name,
			Field:        col.Field,
			Language:     col.Language,
			Status:       s.eval.Evaluate(rec, col.Field, col.Language),
			Labels:       labels.String(),
			Value:        text,
			Preview:      preview(text, s.previewLen),
			LastModified: s.eval.LastModified(rec, col.Field, col.Language),
			Editable:     col.Editable,
			Bidi:         col.Bidi,
			labels:       labels,
		})
	}
	return row
}

// Has reports whether label applies to the cell.
func (c Cell) Has(label status.Label) bool {
	return c.labels.Has(label)
}

func matches(row Row, wanted []status.Label) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, cell := range row.Cells {
		for _, label := range wanted {
			if cell.labels.Has(label) {
				return true
			}
		}
	}
	return false
}

func (s *Service) filters(in map[string]string) (map[string]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	allowed := make(map[string]struct{})
	for _, name := range s.admin.ListFilter() {
		allowed[name] = struct{}{}
	}
	out := make(map[string]string, len(in))
	for name, value := range in {
		if _, ok := allowed[name]; !ok {
			return nil, fmt.Errorf("%w: %q is not a list filter", ErrInvalidChange, name)
		}
		out[name] = value
	}
	return out, nil
}

func matchesFilters(rec model.Record, filters map[string]string) bool {
	for name, want := range filters {
		value, _ := rec.Get(name)
		if model.StringValue(value) != want {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
