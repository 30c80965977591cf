// Package template defines the renderer interface the translation panel
// renders its pages through. The gotemplate subpackage provides the default
// pongo2-backed engine.
package template
