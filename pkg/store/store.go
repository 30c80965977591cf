// Package store persists records holding translated values. Saves write only
// the slots a record marks as changed, so concurrent writes to different
// languages of the same record touch disjoint columns.
package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-modeltranslation/pkg/model"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("store: record not found")
	// ErrUntracked is returned by Save for records that do not report their
	// changed slots.
	ErrUntracked = errors.New("store: record does not track changes")
)

// Store loads and saves the records of one model.
type Store interface {
	Get(ctx context.Context, id string) (model.Record, error)
	List(ctx context.Context) ([]model.Record, error)
	Save(ctx context.Context, rec model.Record) error
}

// Columns returns every slot a registry reads or writes: declared columns
// in order plus the modification slots of tracked fields.
func Columns(reg *model.Registry) []string {
	if reg == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, col := range reg.Columns() {
		add(col.Name)
	}
	for _, slot := range reg.Slots() {
		add(slot)
	}
	return out
}

func changedSlots(rec model.Record) ([]string, model.ChangeTracker, error) {
	tracker, ok := rec.(model.ChangeTracker)
	if !ok {
		return nil, nil, ErrUntracked
	}
	return tracker.Changed(), tracker, nil
}
