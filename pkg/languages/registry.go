package languages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// rtlScripts lists the ISO 15924 scripts written right to left.
var rtlScripts = map[string]struct{}{
	"Arab": {},
	"Hebr": {},
	"Thaa": {},
	"Syrc": {},
	"Nkoo": {},
	"Adlm": {},
	"Mand": {},
	"Samr": {},
	"Rohg": {},
	"Yezi": {},
}

// Option customises registry construction.
type Option func(*config)

type config struct {
	defaultCode string
	prepopulate string
}

// WithDefault designates the default (base) language. When omitted the first
// configured code is used.
func WithDefault(code string) Option {
	return func(cfg *config) {
		cfg.defaultCode = normalize(code)
	}
}

// WithPrepopulate pins the language used to localize prepopulation sources
// of non-translatable destination fields.
func WithPrepopulate(code string) Option {
	return func(cfg *config) {
		cfg.prepopulate = normalize(code)
	}
}

// Registry is the ordered set of available language codes plus the default
// language. It is immutable after New returns and safe for concurrent reads.
type Registry struct {
	codes       []string
	index       map[string]int
	tags        []language.Tag
	matcher     language.Matcher
	def         string
	prepopulate string
}

// New validates codes as BCP 47 tags and builds a registry preserving their
// order. Duplicate codes are dropped, keeping the first occurrence.
func New(codes []string, options ...Option) (*Registry, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	reg := &Registry{index: make(map[string]int, len(codes))}
	for _, raw := range codes {
		code := normalize(raw)
		if code == "" {
			return nil, errors.New("languages: empty language code")
		}
		if _, exists := reg.index[code]; exists {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("languages: parse %q: %w", raw, err)
		}
		reg.index[code] = len(reg.codes)
		reg.codes = append(reg.codes, code)
		reg.tags = append(reg.tags, tag)
	}
	if len(reg.codes) == 0 {
		return nil, errors.New("languages: at least one language is required")
	}

	reg.def = reg.codes[0]
	if cfg.defaultCode != "" {
		if _, ok := reg.index[cfg.defaultCode]; !ok {
			return nil, fmt.Errorf("languages: default language %q is not configured", cfg.defaultCode)
		}
		reg.def = cfg.defaultCode
	}
	if cfg.prepopulate != "" {
		if _, ok := reg.index[cfg.prepopulate]; !ok {
			return nil, fmt.Errorf("languages: prepopulate language %q is not configured", cfg.prepopulate)
		}
		reg.prepopulate = cfg.prepopulate
	}

	reg.matcher = language.NewMatcher(reg.tags)
	return reg, nil
}

// MustNew panics on configuration errors. Useful for init-time wiring.
func MustNew(codes []string, options ...Option) *Registry {
	reg, err := New(codes, options...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Codes returns the configured codes in order.
func (r *Registry) Codes() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.codes...)
}

// Len reports how many languages are configured.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.codes)
}

// Default returns the default language code.
func (r *Registry) Default() string {
	if r == nil {
		return ""
	}
	return r.def
}

// Prepopulate returns the explicit prepopulate language, if any.
func (r *Registry) Prepopulate() string {
	if r == nil {
		return ""
	}
	return r.prepopulate
}

// Has reports whether code is configured.
func (r *Registry) Has(code string) bool {
	if r == nil {
		return false
	}
	_, ok := r.index[normalize(code)]
	return ok
}

// Index returns the position of code in registry order.
func (r *Registry) Index(code string) (int, bool) {
	if r == nil {
		return 0, false
	}
	idx, ok := r.index[normalize(code)]
	return idx, ok
}

// Bidi reports whether the language is written right to left.
func (r *Registry) Bidi(code string) bool {
	tag, err := language.Parse(normalize(code))
	if err != nil {
		return false
	}
	script, _ := tag.Script()
	_, rtl := rtlScripts[script.String()]
	return rtl
}

// Match resolves an Accept-Language header value to the best configured
// code.
func (r *Registry) Match(acceptLanguage string) (string, bool) {
	if r == nil || strings.TrimSpace(acceptLanguage) == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, confidence := r.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(r.codes) {
		return "", false
	}
	return r.codes[idx], true
}

// ActiveOrDefault returns the active language stored in ctx when it is
// configured, falling back to the default language.
func (r *Registry) ActiveOrDefault(ctx context.Context) string {
	if code, ok := Active(ctx); ok && r.Has(code) {
		return normalize(code)
	}
	return r.Default()
}

// Suffix converts a language code into the suffix used by derived field
// names ("pt-br" becomes "pt_br").
func Suffix(code string) string {
	return strings.ReplaceAll(normalize(code), "-", "_")
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

type activeKey struct{}

// WithActive stores the active request language in ctx.
func WithActive(ctx context.Context, code string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activeKey{}, normalize(code))
}

// Active returns the active request language stored in ctx.
func Active(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	code, ok := ctx.Value(activeKey{}).(string)
	if !ok || code == "" {
		return "", false
	}
	return code, true
}
