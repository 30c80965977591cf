package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestLoader_Sources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news.yaml")
	if err := os.WriteFile(path, []byte(newsDocument), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(newsDocument))
	}))
	defer server.Close()

	loader := NewLoader(
		WithFileSystem(fstest.MapFS{"specs/news.yaml": {Data: []byte(newsDocument)}}),
		WithHTTPClient(server.Client()),
	)

	for name, src := range map[string]Source{
		"file": SourceFromFile(path),
		"fs":   SourceFromFS("specs/news.yaml"),
		"url":  SourceFromURL(server.URL + "/news.yaml"),
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := loader.Load(context.Background(), src)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if string(doc.Raw()) != newsDocument {
				t.Fatalf("unexpected payload")
			}
			if doc.Location() != src.Location() {
				t.Fatalf("location mismatch: %q", doc.Location())
			}
		})
	}

	if _, err := loader.Load(context.Background(), SourceFromURL(server.URL+"/missing.yaml")); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestLoader_Disabled(t *testing.T) {
	loader := NewLoader()
	if _, err := loader.Load(context.Background(), SourceFromURL("https://example.com/a.yaml")); err == nil {
		t.Fatalf("expected http to be disabled")
	}
	if _, err := loader.Load(context.Background(), SourceFromFS("a.yaml")); err == nil {
		t.Fatalf("expected missing filesystem error")
	}
	if _, err := loader.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected nil source error")
	}
}
