package template

import (
	"io"
)

// TemplateRenderer renders a named page template. It is the subset of the
// github.com/goliatone/go-template engine the panel depends on, so hosts can
// plug in their own engine.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
