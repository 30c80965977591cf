// Package testsupport holds fixtures and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modeltranslation/pkg/admin"
	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/model"
	pkgopenapi "github.com/goliatone/go-modeltranslation/pkg/openapi"
)

// NewsArticle is the registration most tests share: a news article with a
// mandatory tracked title, an untracked slug and a tracked body that keeps
// empty and missing values apart.
func NewsArticle() model.Registration {
	return model.Registration{
		App:   "news",
		Model: "article",
		Label: "Articles",
		Columns: []model.Column{
			{Name: "id", PrimaryKey: true, Type: model.FieldTypeInteger},
			{Name: "title", VerboseName: "title", Type: model.FieldTypeChar, Mandatory: true},
			{Name: "slug", Type: model.FieldTypeSlug},
			{Name: "body", Type: model.FieldTypeText},
			{Name: "author", Type: model.FieldTypeChar},
		},
		Fields: []model.FieldOptions{
			{Name: "title", Tracked: true},
			{Name: "slug"},
			{Name: "body", Tracked: true, EmptyValue: model.EmptyValueBoth},
		},
	}
}

// NewsRegistry registers NewsArticle for codes; the first code is the
// default language.
func NewsRegistry(t *testing.T, codes ...string) *model.Registry {
	t.Helper()
	if len(codes) == 0 {
		codes = []string{"en", "de"}
	}
	langs, err := languages.New(codes)
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	reg, err := model.Register(NewsArticle(), langs)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

// NewsAdmin builds an admin over NewsRegistry.
func NewsAdmin(t *testing.T, decl admin.Declaration, codes ...string) *admin.Admin {
	t.Helper()
	a, err := admin.New(NewsRegistry(t, codes...), decl)
	if err != nil {
		t.Fatalf("admin: %v", err)
	}
	return a
}

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// MustLoadGolden decodes a JSON golden file into out.
func MustLoadGolden(t *testing.T, path string, out any) {
	t.Helper()
	if err := json.Unmarshal(MustReadGolden(t, path), out); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
