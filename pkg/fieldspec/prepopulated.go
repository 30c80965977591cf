package fieldspec

// Localizer resolves translatable names to their derived name in a language.
type Localizer interface {
	Translations
	IsTranslatable(field string) bool
	Localize(field, lang string) string
}

// Prepopulated is one prepopulation rule: the destination field is filled
// from its sources (for example a slug from a title).
type Prepopulated struct {
	Field   string   `json:"field" yaml:"field"`
	Sources []string `json:"sources" yaml:"sources"`
}

// PrepopulateLanguages carries the language context of a prepopulation pass.
type PrepopulateLanguages struct {
	// Available lists every configured language in order.
	Available []string
	// Pinned is the explicit prepopulate language, empty when unset.
	Pinned string
	// Active is the request language used when Pinned is empty.
	Active string
}

func (p PrepopulateLanguages) single() string {
	if p.Pinned != "" {
		return p.Pinned
	}
	if p.Active != "" {
		return p.Active
	}
	if len(p.Available) > 0 {
		return p.Available[0]
	}
	return ""
}

// ExpandPrepopulated localizes prepopulation rules. A translatable
// destination yields one rule per available language, each sourcing from
// that language's fields. Other destinations keep a single rule whose
// sources are localized to the pinned language, else the active one.
func ExpandPrepopulated(rules []Prepopulated, reg Localizer, langs PrepopulateLanguages) []Prepopulated {
	if rules == nil {
		return nil
	}
	out := make([]Prepopulated, 0, len(rules))
	for _, rule := range rules {
		if reg != nil && reg.IsTranslatable(rule.Field) {
			for _, code := range langs.Available {
				out = append(out, Prepopulated{
					Field:   reg.Localize(rule.Field, code),
					Sources: localizeSources(reg, rule.Sources, code),
				})
			}
			continue
		}
		out = append(out, Prepopulated{
			Field:   rule.Field,
			Sources: localizeSources(reg, rule.Sources, langs.single()),
		})
	}
	return out
}

func localizeSources(reg Localizer, sources []string, lang string) []string {
	if sources == nil {
		return nil
	}
	out := make([]string, len(sources))
	for idx, source := range sources {
		if reg != nil && lang != "" && reg.IsTranslatable(source) {
			out[idx] = reg.Localize(source, lang)
			continue
		}
		out[idx] = source
	}
	return out
}
