package status

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modeltranslation/pkg/languages"
	"github.com/goliatone/go-modeltranslation/pkg/model"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newEvaluator(t *testing.T, options ...Option) *Evaluator {
	t.Helper()
	langs := languages.MustNew([]string{"en", "de"})
	reg, err := model.Register(model.Registration{
		Model: "article",
		Fields: []model.FieldOptions{
			{Name: "title", Tracked: true},
			{Name: "body"},
		},
	}, langs)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return NewEvaluator(reg, langs.Default(), options...)
}

func TestEvaluate_Lifecycle(t *testing.T) {
	e := newEvaluator(t)
	rec := model.NewMapRecord("1", map[string]any{
		"title_en":               "Hello",
		"title_de":               "Hello",
		"title_en_last_modified": base,
		"title_de_last_modified": base,
	})
	if got := e.Evaluate(rec, "title", "de"); got != Equal {
		t.Fatalf("identical values: got %s, want %s", got, Equal)
	}

	_ = rec.Set("title_de", "Hallo")
	_ = rec.Set("title_de_last_modified", base.Add(time.Minute))
	if got := e.Evaluate(rec, "title", "de"); got != Updated {
		t.Fatalf("fresh translation: got %s, want %s", got, Updated)
	}

	_ = rec.Set("title_en", "Hello v2")
	_ = rec.Set("title_en_last_modified", base.Add(10*time.Minute))
	if got := e.Evaluate(rec, "title", "de"); got != NotUpdated {
		t.Fatalf("stale translation: got %s, want %s", got, NotUpdated)
	}
}

func TestEvaluate_Missing(t *testing.T) {
	e := newEvaluator(t)
	cases := []struct {
		name   string
		values map[string]any
	}{
		{name: "empty", values: map[string]any{"title_en": "Hello", "title_de": ""}},
		{name: "blank", values: map[string]any{"title_en": "Hello", "title_de": "   "}},
		{name: "absent", values: map[string]any{"title_en": "Hello"}},
		{
			name: "newer timestamp does not matter",
			values: map[string]any{
				"title_en":               "Hello",
				"title_de":               nil,
				"title_en_last_modified": base,
				"title_de_last_modified": base.Add(time.Hour),
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := model.NewMapRecord("1", tc.values)
			if got := e.Evaluate(rec, "title", "de"); got != Missing {
				t.Fatalf("got %s, want %s", got, Missing)
			}
		})
	}
}

func TestEvaluate_UntrackedAndUnknown(t *testing.T) {
	e := newEvaluator(t)
	rec := model.NewMapRecord("1", map[string]any{"body_en": "Hello", "body_de": ""})
	if got := e.Evaluate(rec, "body", "de"); got != Updated {
		t.Fatalf("untracked field: got %s", got)
	}
	if got := e.Evaluate(rec, "nope", "de"); got != Updated {
		t.Fatalf("unknown field: got %s", got)
	}
	if got := e.Evaluate(rec, "title", "fr"); got != Updated {
		t.Fatalf("unknown language: got %s", got)
	}
	if got := e.Evaluate(rec, "title", "en"); got != Updated {
		t.Fatalf("default language: got %s", got)
	}
	var nilEval *Evaluator
	if got := nilEval.Evaluate(rec, "title", "de"); got != Updated {
		t.Fatalf("nil evaluator: got %s", got)
	}
}

func TestEvaluate_Tolerance(t *testing.T) {
	rec := model.NewMapRecord("1", map[string]any{
		"title_en":               "Hello v2",
		"title_de":               "Hallo",
		"title_en_last_modified": base.Add(20 * time.Second),
		"title_de_last_modified": base,
	})
	if got := newEvaluator(t).Evaluate(rec, "title", "de"); got != Updated {
		t.Fatalf("inside tolerance: got %s", got)
	}
	if got := newEvaluator(t, WithTolerance(5*time.Second)).Evaluate(rec, "title", "de"); got != NotUpdated {
		t.Fatalf("outside custom tolerance: got %s", got)
	}
}

func TestEvaluate_UnknownTimestampsAreNotStale(t *testing.T) {
	rec := model.NewMapRecord("1", map[string]any{
		"title_en":               "Hello v2",
		"title_de":               "Hallo",
		"title_en_last_modified": base,
	})
	if got := newEvaluator(t).Evaluate(rec, "title", "de"); got != Updated {
		t.Fatalf("got %s", got)
	}
}

func TestEvaluateSet(t *testing.T) {
	e := newEvaluator(t)
	rec := model.NewMapRecord("1", map[string]any{
		"title_en":               "Hello",
		"title_de":               "Hello",
		"title_en_last_modified": base.Add(time.Hour),
		"title_de_last_modified": base,
	})
	got := e.EvaluateSet(rec, "title", "de")
	if diff := cmp.Diff(Set{Equal, NotUpdated}, got); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}
	if got.String() != "equal not-updated" {
		t.Fatalf("unexpected string %q", got.String())
	}
	// The single-label policy resolves the same input to equal.
	if label := e.Evaluate(rec, "title", "de"); label != Equal {
		t.Fatalf("single label = %s", label)
	}
}

func TestLastModified(t *testing.T) {
	e := newEvaluator(t)
	rec := model.NewMapRecord("1", map[string]any{
		"title_de_last_modified": "2024-05-01T12:30:45Z",
	})
	if got := e.LastModified(rec, "title", "de"); got != "01-05-2024 12:30:45" {
		t.Fatalf("formatted = %q", got)
	}
	if got := e.LastModified(rec, "title", "en"); got != UnknownTimestamp {
		t.Fatalf("missing timestamp = %q", got)
	}
	if got := e.LastModified(rec, "body", "de"); got != UnknownTimestamp {
		t.Fatalf("untracked = %q", got)
	}
}

func TestParseLabel(t *testing.T) {
	for _, label := range Labels() {
		got, ok := ParseLabel(" " + string(label) + " ")
		if !ok || got != label {
			t.Fatalf("parse %q failed", label)
		}
	}
	if _, ok := ParseLabel("stale"); ok {
		t.Fatalf("expected unknown label to fail")
	}
}
