package scoring

import (
	"math"
	"testing"

	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/filter"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	"github.com/Dicklesworthstone/ranker/internal/query"
	"github.com/Dicklesworthstone/ranker/internal/synonym"
)

func newDoc(id, title, desc, content string, cat document.Category, tags ...string) document.Document {
	return document.Reconstruct(id, title, desc, content, cat, tags)
}

func score(t *testing.T, s *Scorer, doc document.Document, raw string) float64 {
	t.Helper()
	m, ok := s.ScoreDocument(&doc, query.Parse(raw))
	if !ok {
		return 0
	}
	return m.Score()
}

func TestScoreDocument_ExactTitleWordEqualsTitleWeight(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Robot Mode Maker", "", "plain body text", document.Workflow)

	for _, q := range []string{"robot", "mode", "maker"} {
		if got := score(t, s, doc, q); got != DefaultWeights().Title {
			t.Errorf("score(%q) = %v, want %v", q, got, DefaultWeights().Title)
		}
	}
}

func TestScoreDocument_PrefixIncreasesTowardExact(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Robot Mode Maker", "", "plain body text", document.Workflow)
	exact := score(t, s, doc, "robot")

	prev := 0.0
	for _, q := range []string{"r", "ro", "rob", "robo"} {
		got := score(t, s, doc, q)
		if got <= prev {
			t.Errorf("score(%q) = %v, not above previous %v", q, got, prev)
		}
		if got >= exact {
			t.Errorf("score(%q) = %v, reaches exact %v", q, got, exact)
		}
		prev = got
	}
}

func TestScoreDocument_PrefixOnlyAtTailForLongTokens(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Planner Toolkit", "", "plain body text", document.Workflow)

	tail := score(t, s, doc, "toolkit plann")
	mid := score(t, s, doc, "plann toolkit")
	if tail <= mid {
		t.Errorf("tail prefix %v should beat mid-query prefix %v", tail, mid)
	}
}

func TestScoreDocument_FuzzyBelowPrefixBelowExact(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Robot Mode Maker", "", "plain body text", document.Workflow)

	fuzzy := score(t, s, doc, "rpbot")
	prefix := score(t, s, doc, "robo")
	exact := score(t, s, doc, "robot")
	if !(fuzzy > 0 && fuzzy < prefix && prefix < exact) {
		t.Errorf("want 0 < fuzzy(%v) < prefix(%v) < exact(%v)", fuzzy, prefix, exact)
	}
}

func TestScoreDocument_IdentifierBeatsPartialThreeTimes(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("robot-mode-maker", "Robot Mode Maker", "Builds robot personas", "Act as a robot", document.Automation)

	full := score(t, s, doc, "robot-mode-maker")
	spaced := score(t, s, doc, "robot mode maker")
	partials := []string{
		"robot", "mode", "maker",
		"robot-mode", "mode-maker",
		"robot mode", "mode maker",
	}
	for _, partial := range partials {
		p := score(t, s, doc, partial)
		if p == 0 {
			t.Errorf("partial %q should match", partial)
		}
		if full <= 3*p {
			t.Errorf("full %v should exceed 3x partial %q (%v)", full, partial, p)
		}
		if spaced <= 3*p {
			t.Errorf("spaced %v should exceed 3x partial %q (%v)", spaced, partial, p)
		}
	}
}

func TestScoreDocument_IdentifierBoostAtLeastFlat(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("robot", "Robot", "", "body", document.Automation)

	want := DefaultWeights().ID + DefaultWeights().Title + IdentifierBoost
	if got := score(t, s, doc, "robot"); math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestScoreDocument_HyphenatedAndSpacedAgree(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Robot Mode Maker", "Builds robot personas", "Act as a robot", document.Automation)

	tests := []struct {
		hyphenated string
		spaced     string
	}{
		{"robot-mode", "robot mode"},
		{"mode-maker", "mode maker"},
		{"robot-mo", "robot mo"},
	}
	for _, tc := range tests {
		h := score(t, s, doc, tc.hyphenated)
		sp := score(t, s, doc, tc.spaced)
		if h == 0 || math.Abs(h-sp) > 1e-9 {
			t.Errorf("score(%q) = %v, score(%q) = %v; want equal and positive", tc.hyphenated, h, tc.spaced, sp)
		}
	}
}

func TestScoreDocument_CoverageMoreThanDoubleSingle(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Robot Mode Maker", "", "plain body text", document.Workflow)

	both := score(t, s, doc, "robot maker")
	single := max(score(t, s, doc, "robot"), score(t, s, doc, "maker"))
	if both <= 2*single {
		t.Errorf("coverage: both = %v, want > 2 x %v", both, single)
	}
}

func TestScoreDocument_NoCoverageWhenATokenMisses(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Robot Mode Maker", "", "plain body text", document.Workflow)

	got := score(t, s, doc, "robot zebra")
	if got != DefaultWeights().Title {
		t.Errorf("score = %v, want bare title weight %v", got, DefaultWeights().Title)
	}
}

func TestScoreDocument_PhraseOrdering(t *testing.T) {
	s := New(DefaultWeights())
	contiguous := newDoc("one", "Robot Mode Maker", "", "body", document.Workflow)
	scattered := newDoc("two", "Mode of Robot Maker", "", "body", document.Workflow)

	c := score(t, s, contiguous, "robot mode")
	sc := score(t, s, scattered, "robot mode")
	if c <= sc {
		t.Errorf("contiguous phrase %v should beat scattered %v", c, sc)
	}

	full := score(t, s, contiguous, "robot mode maker")
	want := (3*DefaultWeights().Title)*CoverageMultiplier + PhraseBonus
	if full < want {
		t.Errorf("full phrase = %v, want at least %v", full, want)
	}
}

func TestScoreDocument_RepeatedTokenIsIdempotent(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("robot-mode-maker", "Robot Mode Maker", "robots", "robot", document.Automation, "robot")

	if a, b := score(t, s, doc, "robot"), score(t, s, doc, "robot robot"); a != b {
		t.Errorf("score(robot) = %v, score(robot robot) = %v", a, b)
	}
}

func TestScoreDocument_Acronym(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("robot-mode-maker", "Robot Mode Maker", "", "body", document.Automation)

	m, ok := s.ScoreDocument(&doc, query.Parse("rmm"))
	if !ok {
		t.Fatal("expected acronym match")
	}
	if m.Score() != 2*AcronymBonus {
		t.Errorf("score = %v, want %v", m.Score(), 2*AcronymBonus)
	}
}

func TestScoreDocument_AcronymDescriptionAndTags(t *testing.T) {
	s := New(DefaultWeights())
	tests := []struct {
		name  string
		doc   document.Document
		field string
	}{
		{"description", newDoc("alpha", "Helper", "Stable Exit Codes", "body", document.Automation), result.FieldDescription},
		{"tags", newDoc("alpha", "Helper", "", "body", document.Automation, "stable-exit-codes"), result.FieldTags},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := s.ScoreDocument(&tc.doc, query.Parse("sec"))
			if !ok {
				t.Fatal("expected acronym match")
			}
			if m.Score() != AcronymBonus {
				t.Errorf("score = %v, want %v", m.Score(), AcronymBonus)
			}
			if f := m.Fields(); len(f) != 1 || f[0] != tc.field {
				t.Errorf("fields = %v, want [%s]", f, tc.field)
			}
		})
	}
}

func TestScoreDocument_ContentIsSubstringOnly(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Title", "", "the robot walks", document.Workflow)

	got := score(t, s, doc, "robot")
	want := DefaultWeights().Content * query.SubstringFactor
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestScoreDocument_SynonymScoresBelowDirect(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Debug Helper", "", "body", document.Debugging)
	table := synonym.New(map[string][]string{"fix": {"debug"}})

	direct, _ := s.ScoreDocument(&doc, query.Parse("debug").Expand(table))
	viaSynonym, ok := s.ScoreDocument(&doc, query.Parse("fix").Expand(table))
	if !ok {
		t.Fatal("expected synonym match")
	}
	if viaSynonym.Score() >= direct.Score() {
		t.Errorf("synonym %v should score below direct %v", viaSynonym.Score(), direct.Score())
	}
	if _, ok := s.ScoreDocument(&doc, query.Parse("fix")); ok {
		t.Error("unexpanded query must not match through synonyms")
	}
}

func TestScoreDocument_NoMatch(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("alpha", "Robot", "", "body", document.Workflow)

	for _, q := range []string{"", "the of", "zebra"} {
		if _, ok := s.ScoreDocument(&doc, query.Parse(q)); ok {
			t.Errorf("query %q should not match", q)
		}
	}
}

func TestScoreDocument_Fields(t *testing.T) {
	s := New(DefaultWeights())
	doc := newDoc("robot-helper", "Robot", "a robot", "robot", document.Workflow, "robot")

	m, _ := s.ScoreDocument(&doc, query.Parse("robot"))
	want := []string{result.FieldID, result.FieldTitle, result.FieldDescription, result.FieldTags, result.FieldContent}
	got := m.Fields()
	if len(got) != len(want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScoreAll_PositiveSortedStable(t *testing.T) {
	s := New(DefaultWeights())
	docs := []document.Document{
		newDoc("content-only", "Other", "", "a robot inside", document.Workflow),
		newDoc("none", "Nothing", "", "body", document.Workflow),
		newDoc("title-a", "Robot", "", "body", document.Workflow),
		newDoc("title-b", "Robot", "", "body", document.Testing),
	}

	got := s.ScoreAll(docs, query.Parse("robot"), filter.Filter{})
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, m := range got {
		if m.Score() <= 0 {
			t.Errorf("result %d has non-positive score %v", i, m.Score())
		}
		if i > 0 && got[i-1].Score() < m.Score() {
			t.Errorf("results not sorted at %d", i)
		}
	}
	if got[0].ID() != "title-a" || got[1].ID() != "title-b" {
		t.Errorf("tie order = %s, %s; want input order", got[0].ID(), got[1].ID())
	}
}

func TestScoreAll_FilterBeforeScoring(t *testing.T) {
	s := New(DefaultWeights())
	docs := []document.Document{
		newDoc("a", "Robot", "", "body", document.Workflow, "go"),
		newDoc("b", "Robot", "", "body", document.Testing, "go", "cli"),
	}

	f, err := filter.New(document.Testing, []string{"cli"})
	if err != nil {
		t.Fatal(err)
	}
	got := s.ScoreAll(docs, query.Parse("robot"), f)
	if len(got) != 1 || got[0].ID() != "b" {
		t.Errorf("got %d matches, want only b", len(got))
	}
}

func TestScoreAll_EmptyQuery(t *testing.T) {
	s := New(DefaultWeights())
	docs := []document.Document{newDoc("a", "Robot", "", "body", document.Workflow)}

	got := s.ScoreAll(docs, query.Parse(""), filter.Filter{})
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestWeights_Validate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Errorf("default weights invalid: %v", err)
	}
	bad := []Weights{
		{},
		{Title: -1, ID: 1},
		{Title: math.NaN()},
		{Title: math.Inf(1)},
	}
	for _, w := range bad {
		if err := w.Validate(); err == nil {
			t.Errorf("Validate(%+v) should fail", w)
		}
	}
}
