// Package panel implements the translation panel operations shared by the
// HTTP component and the CLI: confirming a translation, writing a new value
// and building the per-record status grid.
package panel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-modeltranslation/pkg/admin"
	"github.com/goliatone/go-modeltranslation/pkg/model"
	"github.com/goliatone/go-modeltranslation/pkg/status"
	"github.com/goliatone/go-modeltranslation/pkg/store"
)

var (
	// ErrUnknownField is returned when a change names no translated field.
	ErrUnknownField = errors.New("panel: unknown translation field")
	// ErrInvalidChange is returned for incomplete or contradictory changes.
	ErrInvalidChange = errors.New("panel: invalid change")
)

// Change identifies one translated value. Name is either a derived field
// name ("title_de") or an original name combined with Language.
type Change struct {
	Language string
	Name     string
	Instance string
	// Value is written by Write. Nil stores the field's empty value.
	Value *string
}

// Result reports the recomputed status after a change.
type Result struct {
	Status       status.Label `json:"status"`
	InstanceID   string       `json:"instance_id"`
	FieldName    string       `json:"field_name"`
	LastModified string       `json:"last_modified"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for modification stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStatusOptions forwards options to the status evaluator.
func WithStatusOptions(options ...status.Option) Option {
	return func(s *Service) {
		s.statusOptions = append(s.statusOptions, options...)
	}
}

// WithPreviewLength caps grid cell previews in runes. Zero disables the cap.
func WithPreviewLength(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.previewLen = n
		}
	}
}

// DefaultPreviewLength is the preview cap applied when none is configured.
const DefaultPreviewLength = 80

// Service runs panel operations for one model admin.
type Service struct {
	admin         *admin.Admin
	reg           *model.Registry
	store         store.Store
	eval          *status.Evaluator
	now           func() time.Time
	previewLen    int
	statusOptions []status.Option
}

// New builds a service over an admin and the store holding its records.
func New(a *admin.Admin, st store.Store, options ...Option) (*Service, error) {
	if a == nil || a.Registry() == nil {
		return nil, errors.New("panel: admin is required")
	}
	if st == nil {
		return nil, errors.New("panel: store is required")
	}
	s := &Service{
		admin:      a,
		reg:        a.Registry(),
		store:      st,
		now:        time.Now,
		previewLen: DefaultPreviewLength,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.eval = status.NewEvaluator(s.reg, s.reg.Languages().Default(), s.statusOptions...)
	return s, nil
}

// Admin returns the model admin served.
func (s *Service) Admin() *admin.Admin {
	return s.admin
}

// Evaluator returns the status evaluator used for results and the grid.
func (s *Service) Evaluator() *status.Evaluator {
	return s.eval
}

// Resolve maps a change to its descriptor.
func (s *Service) Resolve(change Change) (model.Descriptor, error) {
	name := strings.TrimSpace(change.Name)
	lang := strings.ToLower(strings.TrimSpace(change.Language))
	if name == "" {
		return model.Descriptor{}, fmt.Errorf("%w: name is required", ErrInvalidChange)
	}
	if strings.TrimSpace(change.Instance) == "" {
		return model.Descriptor{}, fmt.Errorf("%w: instance is required", ErrInvalidChange)
	}
	if desc, ok := s.reg.ByName(name); ok {
		if lang != "" && lang != desc.Language {
			return model.Descriptor{}, fmt.Errorf("%w: %s is not a %s field", ErrInvalidChange, name, lang)
		}
		return desc, nil
	}
	if lang == "" {
		return model.Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	desc, ok := s.reg.Lookup(name, lang)
	if !ok {
		return model.Descriptor{}, fmt.Errorf("%w: %s (%s)", ErrUnknownField, name, lang)
	}
	return desc, nil
}

// Confirm marks a translation as reviewed by stamping its modification slot
// without touching the value. Untracked fields are left unchanged and
// report an unknown timestamp.
func (s *Service) Confirm(ctx context.Context, change Change) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	desc, err := s.Resolve(change)
	if err != nil {
		return Result{}, err
	}
	rec, err := s.store.Get(ctx, change.Instance)
	if err != nil {
		return Result{}, err
	}
	if desc.Tracked() {
		if err := rec.Set(desc.ModifiedSlot, s.now().UTC()); err != nil {
			return Result{}, fmt.Errorf("panel: confirm %s: %w", desc.Name, err)
		}
		if err := s.store.Save(ctx, rec); err != nil {
			return Result{}, fmt.Errorf("panel: confirm %s: %w", desc.Name, err)
		}
	}
	return s.result(rec, desc), nil
}

// Write stores a new value and, for tracked fields, stamps its
// modification slot.
func (s *Service) Write(ctx context.Context, change Change) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	desc, err := s.Resolve(change)
	if err != nil {
		return Result{}, err
	}
	rec, err := s.store.Get(ctx, change.Instance)
	if err != nil {
		return Result{}, err
	}
	if err := rec.Set(desc.ValueSlot, s.value(desc, change.Value)); err != nil {
		return Result{}, fmt.Errorf("panel: write %s: %w", desc.Name, err)
	}
	if desc.Tracked() {
		if err := rec.Set(desc.ModifiedSlot, s.now().UTC()); err != nil {
			return Result{}, fmt.Errorf("panel: write %s: %w", desc.Name, err)
		}
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("panel: write %s: %w", desc.Name, err)
	}
	return s.result(rec, desc), nil
}

func (s *Service) value(desc model.Descriptor, raw *string) any {
	if raw != nil {
		return *raw
	}
	if desc.SupportsDualEmptyValue || s.admin.BothEmptyValues(desc.Original) || desc.EmptyValue == model.EmptyValueNone {
		return nil
	}
	return ""
}

func (s *Service) result(rec model.Record, desc model.Descriptor) Result {
	return Result{
		Status:       s.eval.Evaluate(rec, desc.Original, desc.Language),
		InstanceID:   rec.ID(),
		FieldName:    desc.Name,
		LastModified: s.eval.LastModified(rec, desc.Original, desc.Language),
	}
}
