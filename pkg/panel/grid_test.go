package panel

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modeltranslation/pkg/status"
)

func gridFixture(t *testing.T) *Service {
	t.Helper()
	svc, _ := newService(t, base,
		article("1", map[string]any{
			"title_en": "Hello", "title_de": "Hallo",
			"title_en_last_modified": base, "title_de_last_modified": base,
			"body_en": "<p>Long <b>body</b> &amp; more</p>", "body_de": "<script>x()</script>Text",
		}),
		article("2", map[string]any{"title_en": "Second", "title_de": ""}),
		article("3", map[string]any{
			"title_en": "Third", "title_de": "Third",
			"title_en_last_modified": base, "title_de_last_modified": base,
		}),
	)
	return svc
}

func TestGrid_ColumnsFollowPanelOrder(t *testing.T) {
	grid, err := gridFixture(t).Grid(context.Background(), Query{Language: "de"})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	var names []string
	var editable []string
	for _, col := range grid.Columns {
		names = append(names, col.Name)
		if col.Editable {
			editable = append(editable, col.Name)
		}
	}
	if diff := cmp.Diff([]string{"body_en", "body_de", "title_en", "title_de", "slug_en", "slug_de"}, names); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"body_de", "title_de", "slug_de"}, editable); diff != "" {
		t.Fatalf("editable mismatch (-want +got):\n%s", diff)
	}
	if grid.Columns[3].Label != "title [de]" || !grid.Columns[2].Default {
		t.Fatalf("unexpected column metadata: %+v", grid.Columns[2:4])
	}
}

func TestGrid_CellsAndPagination(t *testing.T) {
	svc := gridFixture(t)
	grid, err := svc.Grid(context.Background(), Query{})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if grid.Total != 3 || grid.Pages != 2 || grid.PerPage != 2 || len(grid.Rows) != 2 {
		t.Fatalf("unexpected paging: total=%d pages=%d per=%d rows=%d", grid.Total, grid.Pages, grid.PerPage, len(grid.Rows))
	}

	first := grid.Rows[0]
	if first.Cells[0].Preview != "Long body & more" {
		t.Fatalf("unexpected preview %q", first.Cells[0].Preview)
	}
	if first.Cells[1].Preview != "Text" {
		t.Fatalf("script must be stripped, got %q", first.Cells[1].Preview)
	}
	if first.Cells[3].Status != status.Updated || first.Cells[3].LastModified != "01-05-2024 12:00:00" {
		t.Fatalf("unexpected title_de cell: %+v", first.Cells[3])
	}
	if grid.Rows[1].Cells[3].Status != status.Missing {
		t.Fatalf("second record should miss its translation: %+v", grid.Rows[1].Cells[3])
	}

	last, err := svc.Grid(context.Background(), Query{Page: 9})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if last.Page != 2 || len(last.Rows) != 1 || last.Rows[0].ID != "3" {
		t.Fatalf("page should clamp to the last one: page=%d rows=%d", last.Page, len(last.Rows))
	}
}

func TestGrid_StatusFilter(t *testing.T) {
	svc := gridFixture(t)
	tests := []struct {
		name     string
		statuses []status.Label
		want     []string
	}{
		{name: "missing", statuses: []status.Label{status.Missing}, want: []string{"2"}},
		{name: "equal", statuses: []status.Label{status.Equal}, want: []string{"2", "3"}},
		{name: "any of", statuses: []status.Label{status.Missing, status.Equal}, want: []string{"2", "3"}},
		{name: "not-updated", statuses: []status.Label{status.NotUpdated}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := svc.Grid(context.Background(), Query{Statuses: tt.statuses, PerPage: 10})
			if err != nil {
				t.Fatalf("grid: %v", err)
			}
			var ids []string
			for _, row := range grid.Rows {
				ids = append(ids, row.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Fatalf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGrid_UnknownLanguage(t *testing.T) {
	if _, err := gridFixture(t).Grid(context.Background(), Query{Language: "fr"}); !errors.Is(err, ErrInvalidChange) {
		t.Fatalf("expected ErrInvalidChange, got %v", err)
	}
}

func TestGrid_ListFilter(t *testing.T) {
	svc := gridFixture(t)
	grid, err := svc.Grid(context.Background(), Query{Filters: map[string]string{"title_en": "Third"}})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	var ids []string
	for _, row := range grid.Rows {
		ids = append(ids, row.ID)
	}
	if diff := cmp.Diff([]string{"3"}, ids); diff != "" {
		t.Fatalf("filtered rows mismatch (-want +got):\n%s", diff)
	}
	if grid.Total != 1 || grid.Filters["title_en"] != "Third" {
		t.Fatalf("unexpected grid: total %d, filters %v", grid.Total, grid.Filters)
	}

	_, err = svc.Grid(context.Background(), Query{Filters: map[string]string{"slug_de": "x"}})
	if !errors.Is(err, ErrInvalidChange) {
		t.Fatalf("expected ErrInvalidChange for an undeclared filter, got %v", err)
	}
}

func TestGrid_Counts(t *testing.T) {
	grid := Grid{Rows: []Row{{Cells: []Cell{{Status: status.Missing}, {Status: status.Updated}, {Status: status.Updated}}}}}
	counts := grid.Counts()
	if counts[status.Updated] != 2 || counts[status.Missing] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestPreview(t *testing.T) {
	if got := preview("  ", 10); got != "" {
		t.Fatalf("blank should stay blank, got %q", got)
	}
	if got := preview("ümlaut ümlaut", 6); got != "ümlaut…" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
