package translations

import (
	"log/slog"
	"net/http"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-modeltranslation/pkg/render/template"
)

// GuardFunc authorises a request. It runs on every request; a returned error
// carrying an HTTPError status is answered with that status, anything else
// with 403.
type GuardFunc func(r *http.Request) error

const (
	defaultRoutePrefix  = "/admin"
	defaultMaxBodyBytes = 1 << 20
	defaultGridTemplate = "translations"
)

type Options struct {
	RoutePrefix   string
	Guard         GuardFunc
	Renderer      template.TemplateRenderer
	GridTemplate  string
	ThemeSelector theme.ThemeSelector
	ThemeName     string
	ThemeVariant  string
	Logger        *slog.Logger
	MaxBodyBytes  int64

	// WriteRate limits both write endpoints together. Zero disables it.
	WriteRate  rate.Limit
	WriteBurst int
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePrefix:  defaultRoutePrefix,
		GridTemplate: defaultGridTemplate,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePrefix == "" {
		opts.RoutePrefix = defaultRoutePrefix
	}
	if opts.GridTemplate == "" {
		opts.GridTemplate = defaultGridTemplate
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.WriteRate < 0 {
		opts.WriteRate = 0
	}
	if opts.WriteRate > 0 && opts.WriteBurst <= 0 {
		opts.WriteBurst = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return opts
}

func WithRoutePrefix(prefix string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePrefix = prefix
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithRenderer replaces the embedded grid templates.
func WithRenderer(renderer template.TemplateRenderer, gridTemplate string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
		o.GridTemplate = gridTemplate
	}
}

// WithTheme resolves theme tokens for the grid page on every render.
func WithTheme(selector theme.ThemeSelector, name, variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeSelector = selector
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = n
	}
}

func WithWriteRateLimit(limit rate.Limit, burst int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.WriteRate = limit
		o.WriteBurst = burst
	}
}
