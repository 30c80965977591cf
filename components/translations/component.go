package translations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sort"

	"golang.org/x/time/rate"

	"github.com/goliatone/go-modeltranslation/pkg/panel"
	"github.com/goliatone/go-modeltranslation/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS returns the embedded grid templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Component serves the panels of one or more model admins.
type Component struct {
	opts     Options
	services map[string]*panel.Service
	limiter  *rate.Limiter
}

// New constructs a component. It falls back to the embedded go-template grid
// template when no renderer is configured.
func New(services []*panel.Service, fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)
	if opts.Renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("translations: grid templates: %w", err)
		}
		opts.Renderer = engine
	}
	c := &Component{opts: opts, services: make(map[string]*panel.Service, len(services))}
	if opts.WriteRate > 0 {
		c.limiter = rate.NewLimiter(opts.WriteRate, opts.WriteBurst)
	}
	for _, svc := range services {
		if svc == nil {
			return nil, errors.New("translations: nil panel service")
		}
		key := modelKey(svc)
		if _, dup := c.services[key]; dup {
			return nil, fmt.Errorf("translations: model %s registered twice", key)
		}
		c.services[key] = svc
	}
	return c, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return c.opts
}

// Service returns the panel service registered for app and model.
func (c *Component) Service(app, model string) (*panel.Service, bool) {
	if c == nil {
		return nil, false
	}
	svc, ok := c.services[joinKey(app, model)]
	return svc, ok
}

// Routes lists every route in model order.
func (c *Component) Routes() []Route {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.services))
	for key := range c.services {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []Route
	for _, key := range keys {
		reg := c.services[key].Admin().Registry()
		for _, action := range []string{ActionUpdate, ActionProcess, ActionGrid} {
			route := Route{
				Name:   RouteName(reg.App(), reg.Model(), action),
				Path:   ModelPath(c.opts.RoutePrefix, reg.App(), reg.Model()) + action + "/",
				Method: http.MethodPost,
				action: action,
				svc:    c.services[key],
			}
			if action == ActionGrid {
				route.Method = http.MethodGet
			}
			out = append(out, route)
		}
	}
	return out
}

// Handler dispatches every route on an internal mux.
func (c *Component) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range c.Routes() {
		mux.Handle(route.Path, c.handlerFor(route))
	}
	return mux
}

func (c *Component) handlerFor(route Route) http.Handler {
	if route.action == ActionGrid {
		return c.serveGrid(route.svc)
	}
	return c.serveWrite(route.action, route.svc)
}

func modelKey(svc *panel.Service) string {
	reg := svc.Admin().Registry()
	return joinKey(reg.App(), reg.Model())
}

func joinKey(app, model string) string {
	return app + "." + model
}
