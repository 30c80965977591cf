package translations

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-modeltranslation/pkg/panel"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Route describes one mounted endpoint.
type Route struct {
	Name   string
	Method string
	Path   string

	action string
	svc    *panel.Service
}

// RouteName returns the "<app>_<model>_<action>" route name.
func RouteName(app, model, action string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{app, model, action} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "_")
}

// ModelPath returns the mount path of a model's routes, with a trailing
// slash. An empty app is omitted.
func ModelPath(prefix, app, model string) string {
	path := mountPath(prefix, "/")
	for _, part := range []string{app, model} {
		if part = strings.Trim(strings.TrimSpace(part), "/"); part != "" {
			path += part + "/"
		}
	}
	return path
}

// RegisterRoutes registers every route of c under basePath on mux and
// returns the mounted patterns.
func (c *Component) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("translations: missing mux")
	}
	if c == nil {
		return nil, fmt.Errorf("translations: nil component")
	}
	var patterns []string
	for _, route := range c.Routes() {
		pattern := mountPath(basePath, route.Path)
		mux.Handle(pattern, c.handlerFor(route))
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
