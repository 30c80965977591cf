package translations

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modeltranslation/pkg/panel"
)

func TestRouteName(t *testing.T) {
	if got := RouteName("news", "article", ActionGrid); got != "news_article_translations" {
		t.Fatalf("unexpected route name: %q", got)
	}
	if got := RouteName("", "article", ActionUpdate); got != "article_update_translations" {
		t.Fatalf("unexpected route name: %q", got)
	}
}

func TestModelPath(t *testing.T) {
	cases := []struct {
		prefix, app, model, want string
	}{
		{"/admin", "news", "article", "/admin/news/article/"},
		{"admin/", "news", "article", "/admin/news/article/"},
		{"", "", "article", "/article/"},
		{"/", "news", " /article/ ", "/news/article/"},
	}
	for _, tc := range cases {
		if got := ModelPath(tc.prefix, tc.app, tc.model); got != tc.want {
			t.Fatalf("ModelPath(%q, %q, %q) = %q, want %q", tc.prefix, tc.app, tc.model, got, tc.want)
		}
	}
}

func TestComponent_Routes(t *testing.T) {
	c, _ := newComponent(t, WithRoutePrefix("/staff"))

	var got []Route
	for _, route := range c.Routes() {
		got = append(got, Route{Name: route.Name, Method: route.Method, Path: route.Path})
	}
	want := []Route{
		{Name: "news_article_update_translations", Method: http.MethodPost, Path: "/staff/news/article/update_translations/"},
		{Name: "news_article_process_translations", Method: http.MethodPost, Path: "/staff/news/article/process_translations/"},
		{Name: "news_article_translations", Method: http.MethodGet, Path: "/staff/news/article/translations/"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Route{})); diff != "" {
		t.Fatalf("routes mismatch (-want +got):\n%s", diff)
	}

	if _, ok := c.Service("news", "article"); !ok {
		t.Fatalf("expected registered service")
	}
	if _, ok := c.Service("news", "comment"); ok {
		t.Fatalf("unexpected service for unknown model")
	}
}

func TestRegisterRoutes_RegistersHandlers(t *testing.T) {
	c, _ := newComponent(t)
	mux := http.NewServeMux()
	patterns, err := c.RegisterRoutes(mux, "/app")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{
		"/app/admin/news/article/update_translations/",
		"/app/admin/news/article/process_translations/",
		"/app/admin/news/article/translations/",
	}
	if diff := cmp.Diff(want, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}

	req := httptest.NewRequest(http.MethodGet, patterns[2]+"?format=json", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRegisterRoutes_Errors(t *testing.T) {
	c, _ := newComponent(t)
	if _, err := c.RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
	var nilComponent *Component
	if _, err := nilComponent.RegisterRoutes(http.NewServeMux(), "/"); err == nil {
		t.Fatalf("expected error for nil component")
	}
}

func TestNew_RejectsDuplicatesAndNil(t *testing.T) {
	c, _ := newComponent(t)
	svc, _ := c.Service("news", "article")

	if _, err := New([]*panel.Service{svc, svc}); err == nil {
		t.Fatalf("expected duplicate model error")
	}
	if _, err := New([]*panel.Service{nil}); err == nil {
		t.Fatalf("expected nil service error")
	}
}

func TestNewOptions_Defaults(t *testing.T) {
	opts := NewOptions(nil, WithRoutePrefix(""), WithMaxBodyBytes(-1), WithWriteRateLimit(5, 0))
	if opts.RoutePrefix != "/admin" || opts.GridTemplate != "translations" || opts.MaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if opts.WriteBurst != 1 || opts.Logger == nil {
		t.Fatalf("expected burst and logger defaults: %+v", opts)
	}
}
