package panel

import (
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	previewPolicyOnce sync.Once
	previewPolicy     *bluemonday.Policy
)

// preview strips markup from raw and truncates it to limit runes. The
// result is plain text; callers escape it for their output.
func preview(raw string, limit int) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.Join(strings.Fields(html.UnescapeString(previewSanitizer().Sanitize(trimmed))), " ")
	if limit <= 0 || utf8.RuneCountInString(cleaned) <= limit {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func previewSanitizer() *bluemonday.Policy {
	previewPolicyOnce.Do(func() {
		previewPolicy = bluemonday.StrictPolicy()
	})
	return previewPolicy
}
