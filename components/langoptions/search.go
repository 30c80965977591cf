package langoptions

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/goliatone/go-modeltranslation/pkg/languages"
)

// Option is one language entry.
type Option struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Native  string `json:"native,omitempty"`
	Bidi    bool   `json:"bidi,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// List returns an option per configured code in registry order.
func List(reg *languages.Registry) []Option {
	if reg == nil {
		return nil
	}
	english := display.English.Tags()
	out := make([]Option, 0, reg.Len())
	for _, code := range reg.Codes() {
		opt := Option{Value: code, Label: code, Bidi: reg.Bidi(code), Default: code == reg.Default()}
		if tag, err := language.Parse(code); err == nil {
			if name := english.Name(tag); name != "" {
				opt.Label = name
			}
			opt.Native = display.Self.Name(tag)
		}
		out = append(out, opt)
	}
	return out
}

// Search filters options by code, English or native name. Prefix matches
// sort first; ties keep registry order.
func Search(options []Option, query string, limit int, opts Options) []Option {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchAll {
			return nil
		}
		if len(options) <= limit {
			return append([]Option{}, options...)
		}
		return append([]Option{}, options[:limit]...)
	}

	q := strings.ToLower(query)
	matches := make([]matchedOption, 0, len(options))
	for _, opt := range options {
		prefix, ok := match(opt, q)
		if !ok {
			continue
		}
		matches = append(matches, matchedOption{opt: opt, isPrefix: prefix})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Option, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.opt)
	}
	return out
}

func match(opt Option, q string) (prefix, ok bool) {
	for _, candidate := range []string{opt.Value, opt.Label, opt.Native} {
		lower := strings.ToLower(candidate)
		if strings.HasPrefix(lower, q) {
			return true, true
		}
		if strings.Contains(lower, q) {
			ok = true
		}
	}
	return false, ok
}

type matchedOption struct {
	opt      Option
	isPrefix bool
}
