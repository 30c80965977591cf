package languages

import (
	"net/http"
	"strings"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// CookieName stores the translator's language preference.
	CookieName = "mt_lang"
)

// Resolve determines the active language for a request: the lang query
// parameter, then the language cookie, then Accept-Language, then the
// default language.
func (r *Registry) Resolve(req *http.Request) string {
	if req == nil {
		return r.Default()
	}
	if value := strings.TrimSpace(req.URL.Query().Get(LangParam)); value != "" && r.Has(value) {
		return normalize(value)
	}
	if cookie, err := req.Cookie(CookieName); err == nil && r.Has(cookie.Value) {
		return normalize(cookie.Value)
	}
	if code, ok := r.Match(req.Header.Get("Accept-Language")); ok {
		return code
	}
	return r.Default()
}

// Middleware stores the resolved request language in the request context.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := WithActive(req.Context(), r.Resolve(req))
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}
