package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-modeltranslation/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates fs.FS
}

// WithFS sets the filesystem the page templates are loaded from.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// Engine renders panel pages through a go-template engine. The panel
// filters (statusclass, textdir, cssvars) are registered on construction.
type Engine struct {
	engine *gotemplatepkg.Engine
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. A templates filesystem is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		return nil, errors.New("gotemplate: templates filesystem required")
	}

	engine, err := gotemplatepkg.NewRenderer(
		gotemplatepkg.WithFS(cfg.templates),
		gotemplatepkg.WithExtension(".tpl"),
		gotemplatepkg.WithTemplateFunc(panelFilters()),
	)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return &Engine{engine: engine}, nil
}

// RenderTemplate renders the named template. The extension is optional.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.engine == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	rendered, err := e.engine.RenderTemplate(name, data, out...)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %w", err)
	}
	return rendered, nil
}

func panelFilters() map[string]any {
	return map[string]any{
		"statusclass": filterStatusClass,
		"textdir":     filterTextDir,
		"cssvars":     filterCSSVars,
	}
}

// filterStatusClass turns a status label into its css class.
func filterStatusClass(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	label := strings.ToLower(strings.TrimSpace(in.String()))
	if label == "" {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue("mt-" + label), nil
}

// filterTextDir maps a bidi flag to an html dir value.
func filterTextDir(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsTrue() {
		return pongo2.AsValue("rtl"), nil
	}
	return pongo2.AsValue("ltr"), nil
}

// filterCSSVars renders theme tokens as a :root block of custom properties.
// The output is marked safe, so tokens that could leave the declaration are
// dropped.
func filterCSSVars(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	tokens := map[string]string{}
	switch v := in.Interface().(type) {
	case map[string]string:
		for key, value := range v {
			tokens[key] = value
		}
	case map[string]any:
		for key, value := range v {
			if s, ok := value.(string); ok {
				tokens[key] = s
			}
		}
	}
	return pongo2.AsSafeValue(CSSVars(tokens)), nil
}

// CSSVars renders tokens as a sorted :root block. Invalid names and values
// are skipped; an empty result is "".
func CSSVars(tokens map[string]string) string {
	keys := make([]string, 0, len(tokens))
	for key, value := range tokens {
		name := strings.TrimPrefix(strings.TrimSpace(key), "--")
		if validTokenName(name) && validTokenValue(value) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("--")
		b.WriteString(strings.TrimPrefix(strings.TrimSpace(key), "--"))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(tokens[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func validTokenName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func validTokenValue(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return !strings.ContainsAny(value, ";{}<>\\\n\r")
}
