package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrReadOnlySlot is returned when a record refuses a write.
var ErrReadOnlySlot = errors.New("model: slot is read-only")

// Record exposes slot-based access to a persisted row.
type Record interface {
	ID() string
	Get(slot string) (any, bool)
	Set(slot string, value any) error
}

// ChangeTracker is implemented by records that remember which slots were
// written since they were loaded.
type ChangeTracker interface {
	Changed() []string
	ResetChanges()
}

// MapRecord is a Record backed by a map.
type MapRecord struct {
	id       string
	values   map[string]any
	readOnly map[string]struct{}
	changed  map[string]struct{}
}

// NewMapRecord copies values into a new record.
func NewMapRecord(id string, values map[string]any) *MapRecord {
	rec := &MapRecord{
		id:      strings.TrimSpace(id),
		values:  make(map[string]any, len(values)),
		changed: make(map[string]struct{}),
	}
	for key, value := range values {
		rec.values[key] = value
	}
	return rec
}

// ProtectSlots marks slots as read-only. Writes return ErrReadOnlySlot.
func (r *MapRecord) ProtectSlots(slots ...string) *MapRecord {
	if r == nil {
		return nil
	}
	if r.readOnly == nil {
		r.readOnly = make(map[string]struct{}, len(slots))
	}
	for _, slot := range slots {
		r.readOnly[slot] = struct{}{}
	}
	return r
}

// ID returns the record identifier.
func (r *MapRecord) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

// Get returns the slot value and whether the slot exists.
func (r *MapRecord) Get(slot string) (any, bool) {
	if r == nil {
		return nil, false
	}
	value, ok := r.values[slot]
	return value, ok
}

// Set writes a slot and marks it changed.
func (r *MapRecord) Set(slot string, value any) error {
	if r == nil {
		return errors.New("model: nil record")
	}
	if slot == "" {
		return errors.New("model: empty slot name")
	}
	if _, locked := r.readOnly[slot]; locked {
		return fmt.Errorf("%w: %s", ErrReadOnlySlot, slot)
	}
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if r.changed == nil {
		r.changed = make(map[string]struct{})
	}
	r.values[slot] = value
	r.changed[slot] = struct{}{}
	return nil
}

// Changed lists slots written since creation or the last reset, sorted.
func (r *MapRecord) Changed() []string {
	if r == nil || len(r.changed) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.changed))
	for slot := range r.changed {
		out = append(out, slot)
	}
	sort.Strings(out)
	return out
}

// ResetChanges clears the dirty set.
func (r *MapRecord) ResetChanges() {
	if r == nil {
		return
	}
	r.changed = make(map[string]struct{})
}

// Values returns a copy of every slot.
func (r *MapRecord) Values() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.values))
	for key, value := range r.values {
		out[key] = value
	}
	return out
}

// Clone returns an independent copy, including the dirty set.
func (r *MapRecord) Clone() *MapRecord {
	if r == nil {
		return nil
	}
	clone := NewMapRecord(r.id, r.values)
	for slot := range r.changed {
		clone.changed[slot] = struct{}{}
	}
	if len(r.readOnly) > 0 {
		clone.readOnly = make(map[string]struct{}, len(r.readOnly))
		for slot := range r.readOnly {
			clone.readOnly[slot] = struct{}{}
		}
	}
	return clone
}

var (
	_ Record        = (*MapRecord)(nil)
	_ ChangeTracker = (*MapRecord)(nil)
)
