// Package widgets selects the rendering strategy of patched form fields and
// the default widget of a column type.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-modeltranslation/pkg/model"
)

// Built-in strategies exposed by the registry.
const (
	// StrategyNullable renders a text control that keeps "empty" and
	// "missing" apart.
	StrategyNullable = "nullable"
	// StrategyClearable wraps a text control with a clear button that
	// submits a missing value.
	StrategyClearable = "clearable"
	StrategyTextarea  = "textarea"
	StrategyCheckbox  = "checkbox"
	StrategyStandard  = "standard"
)

// MetadataKey overrides the resolved strategy when set on a field.
const MetadataKey = "widget.strategy"

// Matcher decides whether a strategy should handle the supplied field.
type Matcher func(field model.FormField) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects rendering strategies for form fields based on explicit
// metadata or registered matchers. Higher priority wins; ties fall back to
// registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher with the provided name and priority. The latest
// registration wins for duplicate names with equal priority ordering.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the strategy for a field.
func (r *Registry) Resolve(field model.FormField) (string, bool) {
	if field.Metadata != nil {
		if explicit := strings.TrimSpace(field.Metadata[MetadataKey]); explicit != "" {
			return explicit, true
		}
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Apply stores the resolved strategy on field.
func (r *Registry) Apply(field *model.FormField) {
	if field == nil {
		return
	}
	if strategy, ok := r.Resolve(*field); ok {
		field.Strategy = strategy
	}
}

// Decorate implements model.Decorator.
func (r *Registry) Decorate(form *model.Form) error {
	if r == nil || form == nil {
		return nil
	}
	for idx := range form.Fields {
		r.Apply(&form.Fields[idx])
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(StrategyNullable, 90, func(field model.FormField) bool {
		return field.SupportsDualEmptyValue && field.Widget.TextLike()
	})
	r.Register(StrategyClearable, 80, func(field model.FormField) bool {
		return field.Widget.Clearable
	})
	r.Register(StrategyCheckbox, 70, func(field model.FormField) bool {
		return field.Widget.Kind == model.WidgetCheckbox
	})
	r.Register(StrategyTextarea, 60, func(field model.FormField) bool {
		return field.Widget.Kind == model.WidgetTextarea
	})
	r.Register(StrategyStandard, 0, func(model.FormField) bool {
		return true
	})
}

// ForType returns the default widget for a column type.
func ForType(kind model.FieldType) model.Widget {
	switch kind {
	case model.FieldTypeText:
		return model.Widget{Kind: model.WidgetTextarea}
	case model.FieldTypeBoolean:
		return model.Widget{Kind: model.WidgetCheckbox}
	case model.FieldTypeInteger:
		return model.Widget{Kind: model.WidgetNumber}
	case model.FieldTypeDate, model.FieldTypeDateTime:
		return model.Widget{Kind: model.WidgetDate}
	default:
		return model.Widget{Kind: model.WidgetTextInput}
	}
}
