package ranker

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type prompt struct {
	Slug    string   `ranker:"id"`
	Name    string   `ranker:"title"`
	Summary string   `ranker:"description"`
	Body    string   `ranker:"content"`
	Kind    Category `ranker:"category"`
	Labels  []string `ranker:"tags"`
	Notes   string
}

type minimalPrompt struct {
	ID       string `ranker:"id"`
	Title    string `ranker:"title"`
	Content  string `ranker:"content"`
	Category string `ranker:"category"`
}

type noIDPrompt struct {
	Title    string `ranker:"title"`
	Content  string `ranker:"content"`
	Category string `ranker:"category"`
}

type badRolePrompt struct {
	ID       string `ranker:"id"`
	Title    string `ranker:"title"`
	Content  string `ranker:"content"`
	Category string `ranker:"category"`
	Score    string `ranker:"score"`
}

type wrongTypePrompt struct {
	ID       string `ranker:"id"`
	Title    string `ranker:"title"`
	Content  string `ranker:"content"`
	Category string `ranker:"category"`
	Tags     string `ranker:"tags"`
}

type duplicateRolePrompt struct {
	ID       string `ranker:"id"`
	Title    string `ranker:"title"`
	Headline string `ranker:"title"`
	Content  string `ranker:"content"`
	Category string `ranker:"category"`
}

func prompts() []prompt {
	return []prompt{
		{
			Slug: "robot-mode-maker", Name: "Robot Mode Maker", Summary: "Turn an agent into a robot persona",
			Body: "You are a robot. Answer tersely.", Kind: CategoryAutomation, Labels: []string{"agents", "persona"},
			Notes: "dropped on round trip",
		},
		{
			Slug: "bug-hunter", Name: "Bug Hunter", Summary: "Find and fix bugs",
			Body: "Debug the code path.", Kind: CategoryDebugging, Labels: []string{"debugging"},
		},
	}
}

func TestNewIndex_Valid(t *testing.T) {
	idx, err := NewIndex[prompt](nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(idx.meta.roles) != 6 {
		t.Errorf("roles = %v, want 6", idx.meta.roles)
	}

	if _, err := NewIndex[minimalPrompt](nil); err != nil {
		t.Errorf("minimal schema: %v", err)
	}
}

func TestNewIndex_InvalidSchema(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"missing id", func() error { _, err := NewIndex[noIDPrompt](nil); return err }},
		{"unknown role", func() error { _, err := NewIndex[badRolePrompt](nil); return err }},
		{"tags not a slice", func() error { _, err := NewIndex[wrongTypePrompt](nil); return err }},
		{"duplicate role", func() error { _, err := NewIndex[duplicateRolePrompt](nil); return err }},
		{"non-struct", func() error { _, err := NewIndex[int](nil); return err }},
		{"pointer", func() error { _, err := NewIndex[*prompt](nil); return err }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fn() == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSchema_RoundTrip(t *testing.T) {
	meta, err := parseSchema[prompt]()
	if err != nil {
		t.Fatal(err)
	}
	p := prompts()[0]

	doc := meta.toDocument(p)
	if doc.ID != p.Slug || doc.Title != p.Name || doc.Category != CategoryAutomation {
		t.Errorf("toDocument = %+v", doc)
	}
	p.Labels[0] = "mutated"
	if doc.Tags[0] != "agents" {
		t.Error("tags should be copied")
	}

	back, ok := meta.fromDocument(&doc).(prompt)
	if !ok {
		t.Fatal("fromDocument returned the wrong type")
	}
	if back.Slug != "robot-mode-maker" || back.Kind != CategoryAutomation {
		t.Errorf("fromDocument = %+v", back)
	}
	if !reflect.DeepEqual(back.Labels, []string{"agents", "persona"}) {
		t.Errorf("labels = %v", back.Labels)
	}
	if back.Notes != "" {
		t.Errorf("untagged field should stay zero, got %q", back.Notes)
	}
}

func TestTypedIndex_RebuildSearchGet(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatal(err)
	}
	idx, err := NewIndex[prompt](eng)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := idx.Rebuild(ctx, prompts()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	hits, err := idx.Search().Query("rmm").Limit(5).Do(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 || hits[0].Item.Slug != "robot-mode-maker" {
		t.Fatalf("hits = %+v", hits)
	}
	if hits[0].Score <= 0 {
		t.Errorf("score = %v", hits[0].Score)
	}

	filtered, err := idx.Search().Query("bugs").Category(CategoryDebugging).Tag("debugging").Do(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Item.Name != "Bug Hunter" {
		t.Errorf("filtered = %+v", filtered)
	}

	got, err := idx.Get("bug-hunter")
	if err != nil {
		t.Fatal(err)
	}
	if got.Summary != "Find and fix bugs" {
		t.Errorf("Get = %+v", got)
	}
	if _, err := idx.Get("missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestTypedIndex_RebuildRejectsInvalid(t *testing.T) {
	eng, _ := New()
	idx, _ := NewIndex[prompt](eng)

	bad := []prompt{{Slug: "Bad Slug", Name: "x", Body: "y", Kind: CategoryTesting}}
	if err := idx.Rebuild(context.Background(), bad); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestSearchBuilder_Chaining(t *testing.T) {
	eng, _ := New()
	b := eng.Query().
		Query("robot").
		Mode(ModeHybrid).
		Category(CategoryAutomation).
		Tag("agents").
		Tag("persona").
		Limit(3).
		NoSynonyms()

	if b.query != "robot" || b.opts.Mode != ModeHybrid || b.opts.Category != CategoryAutomation {
		t.Errorf("builder = %+v", b)
	}
	if !reflect.DeepEqual(b.opts.Tags, []string{"agents", "persona"}) {
		t.Errorf("tags = %v", b.opts.Tags)
	}
	if b.opts.Limit != 3 || !b.opts.DisableSynonyms {
		t.Errorf("limit=%d nosyn=%v", b.opts.Limit, b.opts.DisableSynonyms)
	}
}

func TestEngineQuery_Do(t *testing.T) {
	eng := newEngine(t)

	res, err := eng.Query().Query("robot-mode-maker").Mode(ModeField).Do(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res) == 0 || res[0].Item.ID != "robot-mode-maker" || len(res[0].Fields) == 0 {
		t.Errorf("results = %+v", res)
	}

	if _, err := eng.Query().Query("robot").Limit(-1).Do(context.Background()); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestBuildIndex(t *testing.T) {
	eng, _ := New()

	x, err := eng.BuildIndex(testDocs())
	if err != nil {
		t.Fatal(err)
	}
	if x.Len() != len(testDocs()) {
		t.Errorf("Len = %d", x.Len())
	}
	if eng.Len() != 0 {
		t.Error("BuildIndex must not publish to the engine")
	}

	hits, err := x.Search("robot-mode-maker", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 || hits[0].ID != "robot-mode-maker" {
		t.Errorf("hits = %+v", hits)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i-1].Score < hits[i].Score {
			t.Errorf("hits not sorted: %+v", hits)
		}
	}

	synonymHits, _ := x.Search("repair", 0)
	found := false
	for _, h := range synonymHits {
		if h.ID == "bug-hunter" {
			found = true
		}
	}
	if !found {
		t.Errorf("repair should reach bug-hunter through synonyms, got %+v", synonymHits)
	}

	if doc, ok := x.Document("idea-wizard"); !ok || doc.Title != "Idea Wizard" {
		t.Errorf("Document = %+v, %v", doc, ok)
	}
	if _, err := x.Search("robot", -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestBuildIndex_Rejects(t *testing.T) {
	eng, _ := New()

	if _, err := eng.BuildIndex(append(testDocs(), testDocs()[1])); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("duplicate id: expected ErrInvalidDocument, got %v", err)
	}
	bad := []Document{{ID: "x", Title: "", Content: "c", Category: CategoryTesting}}
	if _, err := eng.BuildIndex(bad); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("blank title: expected ErrInvalidDocument, got %v", err)
	}
}
