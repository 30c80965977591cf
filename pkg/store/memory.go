package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-modeltranslation/pkg/model"
)

// Memory is an in-process Store. Records handed out are copies; callers
// persist their edits with Save.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*model.MapRecord
}

// NewMemory seeds a store with records.
func NewMemory(records ...*model.MapRecord) *Memory {
	m := &Memory{records: make(map[string]*model.MapRecord, len(records))}
	for _, rec := range records {
		m.Put(rec)
	}
	return m
}

// Put inserts or replaces a record.
func (m *Memory) Put(rec *model.MapRecord) {
	if rec == nil || rec.ID() == "" {
		return
	}
	clone := rec.Clone()
	clone.ResetChanges()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = make(map[string]*model.MapRecord)
	}
	m.records[rec.ID()] = clone
}

// Get returns a copy of the record with id.
func (m *Memory) Get(ctx context.Context, id string) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec.Clone(), nil
}

// List returns copies of every record ordered by id.
func (m *Memory) List(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]model.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.records[id].Clone())
	}
	return out, nil
}

// Save merges the changed slots of rec into the stored copy.
func (m *Memory) Save(ctx context.Context, rec model.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return errors.New("store: nil record")
	}
	slots, tracker, err := changedSlots(rec)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.records[rec.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.ID())
	}
	for _, slot := range slots {
		value, _ := rec.Get(slot)
		if err := stored.Set(slot, value); err != nil {
			return fmt.Errorf("store: save %s: %w", rec.ID(), err)
		}
	}
	stored.ResetChanges()
	tracker.ResetChanges()
	return nil
}

var _ Store = (*Memory)(nil)
