package translations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modeltranslation/pkg/admin"
	"github.com/goliatone/go-modeltranslation/pkg/model"
	"github.com/goliatone/go-modeltranslation/pkg/panel"
	"github.com/goliatone/go-modeltranslation/pkg/status"
	"github.com/goliatone/go-modeltranslation/pkg/store"
	"github.com/goliatone/go-modeltranslation/pkg/testsupport"
)

var now = time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)

func newComponent(t *testing.T, fns ...OptionFn) (*Component, *store.Memory) {
	t.Helper()
	a := testsupport.NewsAdmin(t, admin.Declaration{TranslationFieldOrder: []string{"body"}, ListFilter: []string{"title_en"}})
	mem := store.NewMemory(
		model.NewMapRecord("1", map[string]any{
			"id":                     "1",
			"title_en":               "Hello",
			"title_en_last_modified": now.Add(-time.Hour),
			"body_en":                "<p>Body</p>",
		}),
		model.NewMapRecord("2", map[string]any{
			"id":       "2",
			"title_en": "Second",
			"title_de": "Zweite",
		}),
	)
	svc, err := panel.New(a, mem, panel.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("panel: %v", err)
	}
	c, err := New([]*panel.Service{svc}, fns...)
	if err != nil {
		t.Fatalf("component: %v", err)
	}
	return c, mem
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ProcessWritesValue(t *testing.T) {
	c, mem := newComponent(t)
	rec := post(t, c.Handler(), "/admin/news/article/process_translations/",
		`{"lang":"de","name":"title_de","value":"Hallo","instance":1}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	var got panel.Result
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := panel.Result{Status: status.Updated, InstanceID: "1", FieldName: "title_de", LastModified: "01-05-2024 13:00:00"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	stored, _ := mem.Get(context.Background(), "1")
	if v, _ := stored.Get("title_de"); v != "Hallo" {
		t.Fatalf("value not stored: %v", v)
	}
}

func TestHandler_UpdateConfirmsValue(t *testing.T) {
	c, mem := newComponent(t)
	rec := post(t, c.Handler(), "/admin/news/article/update_translations/",
		`{"lang":"de","name":"title_de","instance":"2"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got panel.Result
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != status.Updated || got.InstanceID != "2" {
		t.Fatalf("unexpected result: %+v", got)
	}

	stored, _ := mem.Get(context.Background(), "2")
	if v, _ := stored.Get("title_de_last_modified"); v != now {
		t.Fatalf("modification stamp not stored: %v", v)
	}
	if v, _ := stored.Get("title_de"); v != "Zweite" {
		t.Fatalf("confirm must not touch the value: %v", v)
	}
}

func TestHandler_WriteErrors(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
		code int
	}{
		{"malformed", "/admin/news/article/process_translations/", `{"lang":`, http.StatusBadRequest},
		{"trailing", "/admin/news/article/process_translations/", `{"name":"title_de","instance":"1"} {}`, http.StatusBadRequest},
		{"bad instance", "/admin/news/article/process_translations/", `{"name":"title_de","instance":true}`, http.StatusBadRequest},
		{"unknown field", "/admin/news/article/process_translations/", `{"lang":"de","name":"author_de","value":"x","instance":"1"}`, http.StatusBadRequest},
		{"language mismatch", "/admin/news/article/update_translations/", `{"lang":"en","name":"title_de","instance":"1"}`, http.StatusBadRequest},
		{"value not a string", "/admin/news/article/process_translations/", `{"lang":"de","name":"title_de","value":3,"instance":"1"}`, http.StatusBadRequest},
		{"missing instance", "/admin/news/article/update_translations/", `{"lang":"de","name":"title_de","instance":"99"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newComponent(t)
			rec := post(t, c.Handler(), tc.path, tc.body)
			if rec.Code != tc.code {
				t.Fatalf("expected status %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
			var payload errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Error == "" {
				t.Fatalf("expected error message")
			}
		})
	}
}

func TestHandler_ProcessRequiresValueKey(t *testing.T) {
	c, mem := newComponent(t)
	rec := post(t, c.Handler(), "/admin/news/article/process_translations/",
		`{"lang":"de","name":"title_de","instance":"2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, _ := mem.Get(context.Background(), "2")
	if v, _ := stored.Get("title_de"); v != "Zweite" {
		t.Fatalf("value must be left alone: %v", v)
	}
	if v, ok := stored.Get("title_de_last_modified"); ok && v != nil {
		t.Fatalf("no modification stamp expected: %v", v)
	}
}

func TestHandler_ProcessNullValueStoresEmpty(t *testing.T) {
	c, mem := newComponent(t)
	rec := post(t, c.Handler(), "/admin/news/article/process_translations/",
		`{"lang":"de","name":"title_de","value":null,"instance":"2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ := mem.Get(context.Background(), "2")
	if v, _ := stored.Get("title_de"); v != "" {
		t.Fatalf("expected empty value, got %v", v)
	}
}

func TestHandler_BodyTooLarge(t *testing.T) {
	c, _ := newComponent(t, WithMaxBodyBytes(16))
	rec := post(t, c.Handler(), "/admin/news/article/process_translations/",
		`{"lang":"de","name":"title_de","value":"a long value","instance":"1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	c, _ := newComponent(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/news/article/process_translations/", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("unexpected Allow header %q", allow)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/news/article/translations/", nil)
	rec = httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405 on grid POST, got %d", rec.Code)
	}
}

func TestHandler_Guard(t *testing.T) {
	var calls int
	guard := func(r *http.Request) error {
		calls++
		if r.Header.Get("X-Staff") == "" {
			return StatusError{Code: http.StatusUnauthorized, Err: errors.New("login required")}
		}
		return nil
	}
	c, _ := newComponent(t, WithGuard(guard))

	rec := post(t, c.Handler(), "/admin/news/article/process_translations/", `{}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/news/article/translations/?format=json", nil)
	req.Header.Set("X-Staff", "1")
	rec = httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for staff, got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("guard should run on every request, ran %d times", calls)
	}
}

func TestHandler_GuardPlainErrorForbidden(t *testing.T) {
	c, _ := newComponent(t, WithGuard(func(*http.Request) error { return errors.New("nope") }))
	req := httptest.NewRequest(http.MethodGet, "/admin/news/article/translations/", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestHandler_WriteRateLimit(t *testing.T) {
	c, _ := newComponent(t, WithWriteRateLimit(0.001, 1))
	h := c.Handler()
	body := `{"lang":"de","name":"title_de","value":"Hallo","instance":"1"}`

	if rec := post(t, h, "/admin/news/article/process_translations/", body); rec.Code != http.StatusOK {
		t.Fatalf("expected first write to pass, got %d", rec.Code)
	}
	rec := post(t, h, "/admin/news/article/update_translations/", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestHandler_GridJSON(t *testing.T) {
	c, _ := newComponent(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/news/article/translations/?lang=de&status=missing", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var grid panel.Grid
	if err := json.NewDecoder(rec.Body).Decode(&grid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if grid.Language != "de" || grid.Model != "article" {
		t.Fatalf("unexpected grid header: %+v", grid)
	}
	var ids []string
	for _, row := range grid.Rows {
		ids = append(ids, row.ID)
	}
	if diff := cmp.Diff([]string{"1"}, ids); diff != "" {
		t.Fatalf("filtered rows mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_GridListFilter(t *testing.T) {
	c, _ := newComponent(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/news/article/translations/?format=json&title_en=Second&author=ignored", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var grid panel.Grid
	if err := json.NewDecoder(rec.Body).Decode(&grid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(grid.Rows) != 1 || grid.Rows[0].ID != "2" {
		t.Fatalf("expected only row 2, got %+v", grid.Rows)
	}
	if diff := cmp.Diff(map[string]string{"title_en": "Second"}, grid.Filters); diff != "" {
		t.Fatalf("filters mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_GridBadQuery(t *testing.T) {
	c, _ := newComponent(t)
	for _, query := range []string{"?status=lost", "?lang=fr"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/news/article/translations/"+query+"&format=json", nil)
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", query, rec.Code)
		}
	}
}

func TestHandler_GridHTML(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#123456", "missing": "#ff0000", "font": `"Inter", sans-serif`},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#000000"}},
			},
		},
	}}
	c, _ := newComponent(t, WithTheme(selector, "acme", "dark"))

	req := httptest.NewRequest(http.MethodGet, "/admin/news/article/translations/", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content-type, got %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`class="mt-missing"`,
		`data-name="title_de"`,
		`data-update-url="/admin/news/article/update_translations/"`,
		`data-process-url="/admin/news/article/process_translations/"`,
		"--brand: #000000;",
		"--missing: #ff0000;",
		`--font: "Inter", sans-serif;`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page:\n%s", want, body)
		}
	}
	if strings.Contains(body, "<p>Body</p>") {
		t.Fatalf("markup should not leak into previews")
	}
	if diff := cmp.Diff([]selectorCall{{name: "acme", variant: "dark"}}, selector.calls, cmp.AllowUnexported(selectorCall{})); diff != "" {
		t.Fatalf("selector calls mismatch:\n%s", diff)
	}
}

func TestHandler_GridThemeError(t *testing.T) {
	c, _ := newComponent(t, WithTheme(&stubThemeSelector{err: errors.New("no theme")}, "acme", ""))
	req := httptest.NewRequest(http.MethodGet, "/admin/news/article/translations/", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
