package fieldspec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpandPrepopulated_TranslatableDestination(t *testing.T) {
	codes := []string{"en", "de", "fr", "it", "es"}
	reg := newRegistry(t, codes...)
	rules := []Prepopulated{{Field: "slug", Sources: []string{"title", "created"}}}

	got := ExpandPrepopulated(rules, reg, PrepopulateLanguages{Available: codes, Active: "de"})
	if len(got) != len(codes) {
		t.Fatalf("expected one rule per language, got %d", len(got))
	}
	for idx, code := range codes {
		want := Prepopulated{Field: "slug_" + code, Sources: []string{"title_" + code, "created"}}
		if diff := cmp.Diff(want, got[idx]); diff != "" {
			t.Fatalf("rule %d mismatch (-want +got):\n%s", idx, diff)
		}
	}
}

func TestExpandPrepopulated_UntranslatedDestination(t *testing.T) {
	reg := newRegistry(t, "en", "de")
	rules := []Prepopulated{{Field: "text", Sources: []string{"title"}}}

	active := ExpandPrepopulated(rules, reg, PrepopulateLanguages{Available: []string{"en", "de"}, Active: "de"})
	if diff := cmp.Diff([]Prepopulated{{Field: "text", Sources: []string{"title_de"}}}, active); diff != "" {
		t.Fatalf("active language mismatch:\n%s", diff)
	}

	pinned := ExpandPrepopulated(rules, reg, PrepopulateLanguages{Available: []string{"en", "de"}, Active: "de", Pinned: "en"})
	if diff := cmp.Diff([]Prepopulated{{Field: "text", Sources: []string{"title_en"}}}, pinned); diff != "" {
		t.Fatalf("pinned language mismatch:\n%s", diff)
	}

	if ExpandPrepopulated(nil, reg, PrepopulateLanguages{}) != nil {
		t.Fatalf("nil rules should stay nil")
	}
}

func TestGroupFieldsets(t *testing.T) {
	reg := newRegistry(t, "en", "de")
	flat := []string{"text", "title_en", "title_de", "slug_de", "created"}

	got := GroupFieldsets(flat, reg.Columns(), reg)
	want := []Fieldset{
		{Label: "", Fields: Names("text")},
		{Label: "Post title", Fields: Names("title_de", "title_en"), Classes: []string{FieldsetClass}},
		{Label: "Slug", Fields: Names("slug_de", "slug_en"), Classes: []string{FieldsetClass}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grouped fieldsets mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupFieldsets_NoUntranslatedFields(t *testing.T) {
	reg := newRegistry(t, "en", "de")
	got := GroupFieldsets([]string{"url_en"}, reg.Columns(), reg)
	want := []Fieldset{{Label: "Url", Fields: Names("url_de", "url_en"), Classes: []string{FieldsetClass}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grouped fieldsets mismatch (-want +got):\n%s", diff)
	}
}
