// Package status classifies the freshness of a translated value relative to
// the default language.
package status

import (
	"strings"
	"time"

	"github.com/goliatone/go-modeltranslation/pkg/model"
)

// Label is the computed status of one (field, language) pair.
type Label string

const (
	Missing    Label = "missing"
	NotUpdated Label = "not-updated"
	Equal      Label = "equal"
	Updated    Label = "updated"
)

// Labels lists every label in display order.
func Labels() []Label {
	return []Label{Updated, Missing, NotUpdated, Equal}
}

// ParseLabel validates a label string.
func ParseLabel(raw string) (Label, bool) {
	label := Label(strings.ToLower(strings.TrimSpace(raw)))
	switch label {
	case Missing, NotUpdated, Equal, Updated:
		return label, true
	default:
		return "", false
	}
}

// Set is the multi-label form: a subset of missing, equal and one of
// not-updated or updated.
type Set []Label

// String joins the labels with spaces.
func (s Set) String() string {
	parts := make([]string, len(s))
	for idx, label := range s {
		parts[idx] = string(label)
	}
	return strings.Join(parts, " ")
}

// Has reports whether the set contains label.
func (s Set) Has(label Label) bool {
	for _, item := range s {
		if item == label {
			return true
		}
	}
	return false
}

// DefaultTolerance absorbs near-simultaneous bulk writes when comparing
// modification timestamps.
const DefaultTolerance = 30 * time.Second

// TimestampLayout renders last-modified values for clients.
const TimestampLayout = "02-01-2006 15:04:05"

// UnknownTimestamp is reported when no timestamp is available.
const UnknownTimestamp = "Unknown"

// Descriptors resolves (field, language) pairs to record slots.
type Descriptors interface {
	Lookup(field, lang string) (model.Descriptor, bool)
}

// Option customises an Evaluator.
type Option func(*Evaluator)

// WithTolerance overrides DefaultTolerance. Negative values are ignored.
func WithTolerance(tolerance time.Duration) Option {
	return func(e *Evaluator) {
		if tolerance >= 0 {
			e.tolerance = tolerance
		}
	}
}

// WithLocation sets the zone used to format last-modified timestamps.
func WithLocation(loc *time.Location) Option {
	return func(e *Evaluator) {
		if loc != nil {
			e.location = loc
		}
	}
}

// Evaluator computes status labels for one model.
type Evaluator struct {
	descriptors Descriptors
	defaultLang string
	tolerance   time.Duration
	location    *time.Location
}

// NewEvaluator builds an evaluator comparing against defaultLang.
func NewEvaluator(descriptors Descriptors, defaultLang string, options ...Option) *Evaluator {
	e := &Evaluator{
		descriptors: descriptors,
		defaultLang: strings.ToLower(strings.TrimSpace(defaultLang)),
		tolerance:   DefaultTolerance,
		location:    time.UTC,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// DefaultLanguage returns the base language.
func (e *Evaluator) DefaultLanguage() string {
	if e == nil {
		return ""
	}
	return e.defaultLang
}

// Tolerance returns the staleness tolerance.
func (e *Evaluator) Tolerance() time.Duration {
	if e == nil {
		return DefaultTolerance
	}
	return e.tolerance
}

type snapshot struct {
	tracked         bool
	value, base     any
	modified, baseM time.Time
	hasM, hasBaseM  bool
}

func (e *Evaluator) read(rec model.Record, field, lang string) snapshot {
	if e == nil || e.descriptors == nil || rec == nil {
		return snapshot{}
	}
	target, ok := e.descriptors.Lookup(field, lang)
	if !ok || !target.Tracked() {
		return snapshot{}
	}
	base, ok := e.descriptors.Lookup(field, e.defaultLang)
	if !ok || base.Name == target.Name {
		return snapshot{}
	}

	snap := snapshot{tracked: true}
	snap.value, _ = rec.Get(target.ValueSlot)
	snap.base, _ = rec.Get(base.ValueSlot)
	if raw, ok := rec.Get(target.ModifiedSlot); ok {
		snap.modified, snap.hasM = model.TimeValue(raw)
	}
	if base.Tracked() {
		if raw, ok := rec.Get(base.ModifiedSlot); ok {
			snap.baseM, snap.hasBaseM = model.TimeValue(raw)
		}
	}
	return snap
}

func (e *Evaluator) stale(snap snapshot) bool {
	if !snap.hasM || !snap.hasBaseM {
		return false
	}
	return snap.baseM.Sub(snap.modified) > e.tolerance
}

// Evaluate classifies field in lang. Untracked or unknown fields, and the
// default language itself, report Updated. Otherwise the checks run in
// order: Missing, Equal, NotUpdated, Updated.
func (e *Evaluator) Evaluate(rec model.Record, field, lang string) Label {
	snap := e.read(rec, field, lang)
	if !snap.tracked {
		return Updated
	}
	switch {
	case model.IsEmpty(snap.value) && !model.IsEmpty(snap.base):
		return Missing
	case model.Equal(snap.value, snap.base):
		return Equal
	case e.stale(snap):
		return NotUpdated
	default:
		return Updated
	}
}

// EvaluateSet returns every label that applies: missing and equal when they
// hold, followed by not-updated or updated.
func (e *Evaluator) EvaluateSet(rec model.Record, field, lang string) Set {
	snap := e.read(rec, field, lang)
	if !snap.tracked {
		return Set{Updated}
	}
	var out Set
	if model.IsEmpty(snap.value) && !model.IsEmpty(snap.base) {
		out = append(out, Missing)
	}
	if model.Equal(snap.value, snap.base) {
		out = append(out, Equal)
	}
	if e.stale(snap) {
		out = append(out, NotUpdated)
	} else {
		out = append(out, Updated)
	}
	return out
}

// Modified returns the last-modified timestamp of field in lang.
func (e *Evaluator) Modified(rec model.Record, field, lang string) (time.Time, bool) {
	if e == nil || e.descriptors == nil || rec == nil {
		return time.Time{}, false
	}
	desc, ok := e.descriptors.Lookup(field, lang)
	if !ok || !desc.Tracked() {
		return time.Time{}, false
	}
	raw, ok := rec.Get(desc.ModifiedSlot)
	if !ok {
		return time.Time{}, false
	}
	return model.TimeValue(raw)
}

// LastModified formats the timestamp of field in lang, or UnknownTimestamp.
func (e *Evaluator) LastModified(rec model.Record, field, lang string) string {
	ts, ok := e.Modified(rec, field, lang)
	if !ok {
		return UnknownTimestamp
	}
	return e.Format(ts)
}

// Format renders ts with TimestampLayout in the evaluator's zone.
func (e *Evaluator) Format(ts time.Time) string {
	if ts.IsZero() {
		return UnknownTimestamp
	}
	loc := time.UTC
	if e != nil && e.location != nil {
		loc = e.location
	}
	return ts.In(loc).Format(TimestampLayout)
}
