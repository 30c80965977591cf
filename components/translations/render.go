package translations

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-modeltranslation/pkg/panel"
	"github.com/goliatone/go-modeltranslation/pkg/status"
)

type pageTheme struct {
	Name    string            `json:"name,omitempty"`
	Variant string            `json:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens,omitempty"`
}

type pageURLs struct {
	Update  string `json:"update"`
	Process string `json:"process"`
	Grid    string `json:"grid"`
}

type pageFilter struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

type page struct {
	Grid      panel.Grid     `json:"grid"`
	Theme     pageTheme      `json:"theme"`
	URLs      pageURLs       `json:"urls"`
	Languages []pageFilter   `json:"languages"`
	Statuses  []pageFilter   `json:"statuses"`
	Counts    map[string]int `json:"counts"`
	Prev      string         `json:"prev,omitempty"`
	Next      string         `json:"next,omitempty"`
}

func (c *Component) renderGrid(svc *panel.Service, grid panel.Grid) (string, error) {
	base := ModelPath(c.opts.RoutePrefix, grid.App, grid.Model)
	gridURL := base + ActionGrid + "/"

	data := page{
		Grid: grid,
		URLs: pageURLs{
			Update:  base + ActionUpdate + "/",
			Process: base + ActionProcess + "/",
			Grid:    gridURL,
		},
		Counts: make(map[string]int),
	}
	for label, n := range grid.Counts() {
		data.Counts[string(label)] = n
	}

	langs := svc.Admin().Registry().Languages()
	for _, code := range langs.Codes() {
		values := filterValues(grid)
		values.Set("lang", code)
		data.Languages = append(data.Languages, pageFilter{
			Code:   code,
			Label:  strings.ToUpper(code),
			URL:    gridURL + "?" + values.Encode(),
			Active: code == grid.Language,
		})
	}
	for _, label := range status.Labels() {
		values := filterValues(grid)
		values.Set("status", string(label))
		data.Statuses = append(data.Statuses, pageFilter{
			Code:  string(label),
			Label: string(label),
			URL:   gridURL + "?" + values.Encode(),
		})
	}
	if grid.Page > 1 {
		data.Prev = pageURL(gridURL, grid, grid.Page-1)
	}
	if grid.Page < grid.Pages {
		data.Next = pageURL(gridURL, grid, grid.Page+1)
	}

	theme, err := c.theme()
	if err != nil {
		return "", err
	}
	data.Theme = theme

	rendered, err := c.opts.Renderer.RenderTemplate(c.opts.GridTemplate, map[string]any{"page": data})
	if err != nil {
		return "", fmt.Errorf("translations: render grid: %w", err)
	}
	return rendered, nil
}

func pageURL(gridURL string, grid panel.Grid, n int) string {
	values := filterValues(grid)
	values.Set("page", fmt.Sprint(n))
	return gridURL + "?" + values.Encode()
}

// filterValues carries the active language and list filters across links.
func filterValues(grid panel.Grid) url.Values {
	values := url.Values{}
	for name, value := range grid.Filters {
		values.Set(name, value)
	}
	if grid.Language != "" {
		values.Set("lang", grid.Language)
	}
	return values
}

func (c *Component) theme() (pageTheme, error) {
	if c.opts.ThemeSelector == nil {
		return pageTheme{}, nil
	}
	selection, err := c.opts.ThemeSelector.Select(c.opts.ThemeName, c.opts.ThemeVariant)
	if err != nil {
		return pageTheme{}, fmt.Errorf("translations: select theme: %w", err)
	}
	if selection == nil {
		return pageTheme{}, nil
	}
	out := pageTheme{Name: selection.Theme, Variant: selection.Variant}
	if selection.Manifest != nil {
		tokens := make(map[string]string, len(selection.Manifest.Tokens))
		for key, value := range selection.Manifest.Tokens {
			tokens[key] = value
		}
		if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
			for key, value := range variant.Tokens {
				tokens[key] = value
			}
		}
		if len(tokens) > 0 {
			out.Tokens = tokens
		}
	}
	return out, nil
}
