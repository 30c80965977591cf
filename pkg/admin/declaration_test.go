package admin

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modeltranslation/pkg/fieldspec"
	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/model"
)

func TestNew_PatchesListColumns(t *testing.T) {
	reg := newRegistry(t, "en", "de")
	a := MustNew(reg, Declaration{
		ListDisplay:  []string{"id", "title", "author"},
		ListEditable: []string{"title", "author"},
	})
	if diff := cmp.Diff([]string{"title_en", "title_de", "author"}, a.ListEditable()); diff != "" {
		t.Fatalf("list editable mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id", "title_en", "title_de", "author"}, a.ListDisplay()); diff != "" {
		t.Fatalf("list display mismatch:\n%s", diff)
	}

	inline := mustInline(t, reg, Declaration{ListEditable: []string{"title"}})
	if diff := cmp.Diff([]string{"title"}, inline.ListEditable()); diff != "" {
		t.Fatalf("inline list editable should be untouched:\n%s", diff)
	}
}

func TestNew_PatchesPrepopulated(t *testing.T) {
	reg := newRegistry(t, "en", "de")
	a := MustNew(reg, Declaration{
		Prepopulated: []fieldspec.Prepopulated{
			{Field: "slug", Sources: []string{"title"}},
			{Field: "author", Sources: []string{"title", "id"}},
		},
	}, WithLanguage("de"))

	want := []fieldspec.Prepopulated{
		{Field: "slug_en", Sources: []string{"title_en"}},
		{Field: "slug_de", Sources: []string{"title_de"}},
		{Field: "author", Sources: []string{"title_de", "id"}},
	}
	if diff := cmp.Diff(want, a.Prepopulated()); diff != "" {
		t.Fatalf("prepopulated mismatch (-want +got):\n%s", diff)
	}

	perRequest := a.PrepopulatedFor(languages.WithActive(context.Background(), "en"))
	if diff := cmp.Diff([]string{"title_en", "id"}, perRequest[2].Sources); diff != "" {
		t.Fatalf("request language mismatch:\n%s", diff)
	}
}

func TestNew_PrepopulateLanguageWins(t *testing.T) {
	langs := languages.MustNew([]string{"en", "de"}, languages.WithPrepopulate("en"))
	reg := model.MustRegister(model.Registration{
		Model:   "article",
		Columns: []model.Column{{Name: "title"}, {Name: "author"}},
		Fields:  []model.FieldOptions{{Name: "title"}},
	}, langs)
	a := MustNew(reg, Declaration{
		Prepopulated: []fieldspec.Prepopulated{{Field: "author", Sources: []string{"title"}}},
	}, WithLanguage("de"))
	if diff := cmp.Diff([]string{"title_en"}, a.Prepopulated()[0].Sources); diff != "" {
		t.Fatalf("pinned language mismatch:\n%s", diff)
	}
}

func TestDeclaredFieldsets(t *testing.T) {
	reg := newRegistry(t, "en", "de")

	if got := MustNew(reg, Declaration{}).DeclaredFieldsets(); got != nil {
		t.Fatalf("expected nil without declarations, got %+v", got)
	}

	fromFields := MustNew(reg, Declaration{Fields: fieldspec.Names("title", "author")}).DeclaredFieldsets()
	want := []fieldspec.Fieldset{{Label: "", Fields: fieldspec.Names("title_en", "title_de", "author")}}
	if diff := cmp.Diff(want, fromFields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	fromForm := MustNew(reg, Declaration{FormFields: []string{"slug"}}).DeclaredFieldsets()
	want = []fieldspec.Fieldset{{Label: "", Fields: fieldspec.Names("slug_en", "slug_de")}}
	if diff := cmp.Diff(want, fromForm); diff != "" {
		t.Fatalf("form fields mismatch (-want +got):\n%s", diff)
	}

	declared := MustNew(reg, Declaration{
		Fields:    fieldspec.Names("author"),
		Fieldsets: []fieldspec.Fieldset{{Label: "Main", Fields: fieldspec.Names("body")}},
	}).DeclaredFieldsets()
	want = []fieldspec.Fieldset{{Label: "Main", Fields: fieldspec.Names("body_en", "body_de")}}
	if diff := cmp.Diff(want, declared); diff != "" {
		t.Fatalf("fieldsets should win over fields (-want +got):\n%s", diff)
	}
}

func TestFormOptions_ComposesExclude(t *testing.T) {
	reg := newRegistry(t, "en", "de")
	cases := []struct {
		name string
		decl Declaration
		want []string
	}{
		{
			name: "nothing declared",
			decl: Declaration{},
			want: []string{"title", "slug", "body"},
		},
		{
			name: "exclude and readonly",
			decl: Declaration{Exclude: []string{"author"}, ReadonlyFields: []string{"slug"}, FormExclude: []string{"body"}},
			want: []string{"author", "slug_en", "slug_de", "title", "slug", "body"},
		},
		{
			name: "form exclude applies without admin exclude",
			decl: Declaration{FormExclude: []string{"body"}},
			want: []string{"body_en", "body_de", "title", "slug", "body"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MustNew(reg, tc.decl).FormOptions().Exclude
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("exclude mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFieldsets_PostForm(t *testing.T) {
	reg := newRegistry(t, "en", "de")
	form := &model.Form{Fields: []model.FormField{{Name: "title_en"}, {Name: "title_de"}, {Name: "author"}}}

	a := MustNew(reg, Declaration{ReadonlyFields: []string{"created"}})
	want := []fieldspec.Fieldset{{Label: "", Fields: fieldspec.Names("title_en", "title_de", "author", "created")}}
	if diff := cmp.Diff(want, a.Fieldsets(form)); diff != "" {
		t.Fatalf("post-form fieldsets mismatch (-want +got):\n%s", diff)
	}

	grouped := MustNew(reg, Declaration{GroupFieldsets: true})
	want = []fieldspec.Fieldset{
		{Label: "", Fields: fieldspec.Names("author")},
		{Label: "Title", Fields: fieldspec.Names("title_de", "title_en"), Classes: []string{fieldspec.FieldsetClass}},
	}
	if diff := cmp.Diff(want, grouped.Fieldsets(form)); diff != "" {
		t.Fatalf("grouped fieldsets mismatch (-want +got):\n%s", diff)
	}

	inline := mustInline(t, reg, Declaration{GroupFieldsets: true})
	if got := inline.Fieldsets(form); len(got) != 1 {
		t.Fatalf("inline admins never group fieldsets, got %+v", got)
	}
}

func TestTranslationFieldsAndExcludes(t *testing.T) {
	reg := newRegistry(t, "en", "de", "fr")
	a := MustNew(reg, Declaration{TranslationFieldOrder: []string{"body", "unknown", "body"}})

	if diff := cmp.Diff([]string{"body", "title", "slug"}, a.TranslationFields()); diff != "" {
		t.Fatalf("translation fields mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"body_de", "title_de", "slug_de"}, a.EditableFor("de")); diff != "" {
		t.Fatalf("editable mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title_fr", "slug_fr", "body_fr"}, a.TranslationFieldExcludes("fr")); diff != "" {
		t.Fatalf("language excludes mismatch:\n%s", diff)
	}
	if got := a.TranslationFieldExcludes(); len(got) != 0 {
		t.Fatalf("expected no excludes, got %v", got)
	}
}

func TestNew_RequiresRegistry(t *testing.T) {
	if _, err := New(nil, Declaration{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTabbedMedia(t *testing.T) {
	media := TabbedMedia("/static/")
	a := MustNew(newRegistry(t, "en"), Declaration{}, WithMedia(media))
	if a.Media().Empty() || a.Media().JS[0] != "/static/modeltranslation/js/tabbed_translation_fields.js" {
		t.Fatalf("unexpected media %+v", a.Media())
	}
}

func mustInline(t *testing.T, reg *model.Registry, decl Declaration) *Admin {
	t.Helper()
	a, err := NewInline(reg, decl)
	if err != nil {
		t.Fatalf("new inline: %v", err)
	}
	return a
}
