package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goliatone/go-modeltranslation/pkg/model"
)

type demoRow struct {
	id     string
	values map[string]any
}

var demoOwners = []string{"alice", "bob"}

// demoRows fabricates one row per status: a missing translation, one equal
// to the base value, one edited before the base changed and one up to date.
// Plain text columns alternate between the demo owners so list filters have
// something to select.
func demoRows(reg *model.Registry, now time.Time) []demoRow {
	langs := reg.Languages()
	def := langs.Default()
	earlier := now.Add(-24 * time.Hour).UTC()
	now = now.UTC()

	rows := make([]demoRow, 0, 4)
	for idx, kind := range []string{"missing", "equal", "stale", "fresh"} {
		id := strconv.Itoa(idx + 1)
		values := map[string]any{primaryKey(reg): id}
		for _, col := range reg.Columns() {
			if _, derived := reg.ByName(col.Name); derived || reg.IsTranslatable(col.Name) {
				continue
			}
			if col.Editable() && textual(col.Type) {
				values[col.Name] = demoOwners[idx%len(demoOwners)]
			}
		}
		for _, field := range reg.Fields() {
			col, _ := reg.Column(field)
			if !textual(col.Type) {
				continue
			}
			base := fmt.Sprintf("%s %s", col.Label(), id)
			for _, desc := range reg.Descriptors(field) {
				switch {
				case desc.Language == def:
					values[desc.ValueSlot] = base
					if desc.Tracked() {
						values[desc.ModifiedSlot] = now
					}
				case kind == "missing":
				case kind == "equal":
					values[desc.ValueSlot] = base
				default:
					values[desc.ValueSlot] = fmt.Sprintf("%s (%s)", base, desc.Language)
					if desc.Tracked() {
						if kind == "stale" {
							values[desc.ModifiedSlot] = earlier
						} else {
							values[desc.ModifiedSlot] = now
						}
					}
				}
			}
		}
		rows = append(rows, demoRow{id: id, values: values})
	}
	return rows
}

func textual(t model.FieldType) bool {
	switch t {
	case model.FieldTypeChar, model.FieldTypeText, model.FieldTypeSlug, model.FieldTypeEmail, model.FieldTypeURL, "":
		return true
	default:
		return false
	}
}
