package index

import (
	"errors"
	"math"
	"testing"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	"github.com/Dicklesworthstone/ranker/internal/query"
	"github.com/Dicklesworthstone/ranker/internal/synonym"
)

func corpus() []document.Document {
	return []document.Document{
		document.Reconstruct("idea-wizard", "Idea Wizard", "Generate and rank ideas",
			"Think of 30 ideas and pick the best five.", document.Ideation, []string{"brainstorm", "ideation"}),
		document.Reconstruct("bug-hunter", "Bug Hunter", "Find and fix bugs",
			"Debug the code path and explain the root cause.", document.Debugging, []string{"debugging", "fix"}),
		document.Reconstruct("robust-tests", "Robust Test Suite", "Write robust tests",
			"Cover edge cases with table tests.", document.Testing, []string{"testing", "unit-test"}),
		document.Reconstruct("readme-writer", "Readme Writer", "Write project docs",
			"Document installation and usage.", document.Documentation, []string{"docs", "readme"}),
		document.Reconstruct("robot-mode-maker", "Robot Mode Maker", "Turn an agent into a focused robot persona",
			"You are a robot. Answer tersely.", document.Automation, []string{"agents", "persona"}),
		document.Reconstruct("mode-switcher", "Mode Switcher", "Switch between planning and coding mode",
			"Alternate modes every step.", document.Workflow, []string{"planning"}),
	}
}

func rank(hits []result.Hit, id string) int {
	for i, h := range hits {
		if h.ID() == id {
			return i + 1
		}
	}
	return 0
}

func search(t *testing.T, x *Index, raw string, limit int) []result.Hit {
	t.Helper()
	hits, err := x.Search(query.Parse(raw), limit)
	if err != nil {
		t.Fatalf("Search(%q): %v", raw, err)
	}
	return hits
}

func TestSearch_RobotModeMaker(t *testing.T) {
	x := Build(corpus(), DefaultParams())

	if r := rank(search(t, x, "rob", 0), "robot-mode-maker"); r == 0 || r > 5 {
		t.Errorf("rob: robot-mode-maker rank = %d, want within top 5", r)
	}
	if hits := search(t, x, "robot-mode-maker", 0); len(hits) == 0 || hits[0].ID() != "robot-mode-maker" {
		t.Errorf("robot-mode-maker: want first, got %v", hits)
	}
	if hits := search(t, x, "robot mode maker", 0); len(hits) == 0 || hits[0].ID() != "robot-mode-maker" {
		t.Errorf("robot mode maker: want first, got %v", hits)
	}
	if r := rank(search(t, x, "rmm", 0), "robot-mode-maker"); r == 0 {
		t.Error("rmm: robot-mode-maker missing from results")
	}
	if hits := search(t, x, "", 0); len(hits) != 0 {
		t.Errorf("empty query returned %d hits", len(hits))
	}
}

func TestSearch_AcronymDescriptionAndTags(t *testing.T) {
	x := Build(corpus(), DefaultParams())

	tests := []struct {
		query string
		want  string
	}{
		{"ffb", "bug-hunter"},  // Find and fix bugs
		{"ut", "robust-tests"}, // unit-test
	}
	for _, tc := range tests {
		hits := search(t, x, tc.query, 0)
		if len(hits) != 1 || hits[0].ID() != tc.want {
			t.Errorf("%s: got %v, want only %s", tc.query, hits, tc.want)
		}
	}
}

func TestSearch_Fuzzy(t *testing.T) {
	x := Build(corpus(), DefaultParams())

	if r := rank(search(t, x, "robat", 0), "robot-mode-maker"); r != 1 {
		t.Errorf("robat: robot-mode-maker rank = %d, want 1", r)
	}
}

func TestSearch_PositiveAndSorted(t *testing.T) {
	x := Build(corpus(), DefaultParams())

	hits := search(t, x, "write tests", 0)
	if len(hits) == 0 {
		t.Fatal("expected hits")
	}
	for i, h := range hits {
		if h.Score() <= 0 || math.IsNaN(h.Score()) || math.IsInf(h.Score(), 0) {
			t.Errorf("hit %d has invalid score %v", i, h.Score())
		}
		if i > 0 && hits[i-1].Score() < h.Score() {
			t.Errorf("hits not sorted at %d", i)
		}
	}
}

func TestSearch_TiesInCorpusOrder(t *testing.T) {
	docs := []document.Document{
		document.Reconstruct("aa-one", "Robot", "", "body", document.Workflow, nil),
		document.Reconstruct("bb-two", "Robot", "", "body", document.Workflow, nil),
	}
	x := Build(docs, DefaultParams())

	hits := search(t, x, "robot", 0)
	if len(hits) != 2 || hits[0].ID() != "aa-one" || hits[1].ID() != "bb-two" {
		t.Fatalf("hits = %v", hits)
	}
	if hits[0].Score() != hits[1].Score() {
		t.Errorf("scores differ: %v vs %v", hits[0].Score(), hits[1].Score())
	}
	if hits[1].Position() != 1 {
		t.Errorf("Position() = %d, want 1", hits[1].Position())
	}
}

func TestSearch_Limit(t *testing.T) {
	x := Build(corpus(), DefaultParams())

	if hits := search(t, x, "mode", 1); len(hits) != 1 {
		t.Errorf("limit 1 returned %d hits", len(hits))
	}
	if all := search(t, x, "mode", 0); len(all) < 2 {
		t.Errorf("limit 0 returned %d hits, want all", len(all))
	}

	_, err := x.Search(query.Parse("mode"), -1)
	if !errors.Is(err, domain.ErrInvalidLimit) {
		t.Errorf("negative limit: err = %v, want ErrInvalidLimit", err)
	}
}

func TestSearch_ExpandedTermsDiscounted(t *testing.T) {
	docs := []document.Document{
		document.Reconstruct("debug-helper", "Debug Helper", "", "Step through it.", document.Debugging, nil),
	}
	x := Build(docs, DefaultParams())
	table := synonym.New(map[string][]string{"fix": {"debug"}})

	direct := search(t, x, "debug", 0)
	viaSynonym, err := x.Search(query.Parse("fix").Expand(table), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(direct) != 1 || len(viaSynonym) != 1 {
		t.Fatalf("direct=%v synonym=%v", direct, viaSynonym)
	}
	if viaSynonym[0].Score() >= direct[0].Score() {
		t.Errorf("synonym %v should score below direct %v", viaSynonym[0].Score(), direct[0].Score())
	}
}

func TestBuild_EmptyCorpus(t *testing.T) {
	x := Build(nil, DefaultParams())

	if x.Len() != 0 {
		t.Errorf("Len() = %d", x.Len())
	}
	if hits := search(t, x, "robot", 0); len(hits) != 0 {
		t.Errorf("hits = %v", hits)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := search(t, Build(corpus(), DefaultParams()), "mode rob", 0)
	b := search(t, Build(corpus(), DefaultParams()), "mode rob", 0)
	if len(a) != len(b) {
		t.Fatalf("len %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID() != b[i].ID() || a[i].Score() != b[i].Score() {
			t.Errorf("hit %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBuild_CopiesInput(t *testing.T) {
	docs := corpus()
	x := Build(docs, DefaultParams())
	docs[0] = document.Reconstruct("replaced", "Replaced", "", "x", document.Workflow, nil)

	if _, ok := x.Document("idea-wizard"); !ok {
		t.Error("index must keep its own snapshot")
	}
	if _, ok := x.Document("replaced"); ok {
		t.Error("caller mutation leaked into the index")
	}
}

func TestParams_Validate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
	for _, p := range []Params{{K1: -1, B: 0.5}, {K1: 1, B: 1.5}, {K1: math.NaN(), B: 0.5}} {
		if err := p.Validate(); err == nil {
			t.Errorf("Validate(%+v) should fail", p)
		}
	}
}
