package main

import (
	"fmt"

	theme "github.com/goliatone/go-theme"
)

// staticThemes serves a fixed set of manifests.
type staticThemes map[string]*theme.Manifest

func (s staticThemes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// builtinThemes validates the bundled manifests through a go-theme registry
// and serves them by name.
func builtinThemes() (theme.ThemeSelector, error) {
	themes := bundledManifests()
	registry := theme.NewRegistry()
	for name, manifest := range themes {
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}
	}
	return themes, nil
}

func bundledManifests() staticThemes {
	return staticThemes{
		"admin": {
			Name:    "admin",
			Version: "1.0.0",
			Tokens: map[string]string{
				"missing":     "#fde2e2",
				"not-updated": "#fff4d6",
				"equal":       "#eef1f5",
				"updated":     "#e3f6e8",
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{
					"missing":     "#5c2b2b",
					"not-updated": "#5c4d1f",
					"equal":       "#2f343b",
					"updated":     "#1f4d2c",
				}},
			},
		},
	}
}
