package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/filter"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/mode"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("hello", "", filter.Filter{}, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "hello" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Mode() != mode.Index {
		t.Errorf("Mode() = %q, want index (default)", r.Mode())
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
	if r.ExpandSynonyms() {
		t.Error("ExpandSynonyms() = true")
	}
}

func TestNew_ExplicitValues(t *testing.T) {
	f, _ := filter.New(document.Testing, []string{"go"})
	r, err := New("query", mode.Hybrid, f, 500, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode() != mode.Hybrid {
		t.Errorf("Mode() = %q", r.Mode())
	}
	if r.Limit() != 500 {
		t.Errorf("Limit() = %d, large limits must not be clamped", r.Limit())
	}
	if r.Filter().Category() != document.Testing {
		t.Errorf("Filter().Category() = %q", r.Filter().Category())
	}
	if !r.ExpandSynonyms() {
		t.Error("ExpandSynonyms() = false")
	}
}

func TestNew_EmptyQueryAllowed(t *testing.T) {
	if _, err := New("", mode.Index, filter.Filter{}, 5, false); err != nil {
		t.Fatalf("empty query should be valid: %v", err)
	}
}

func TestNew_NegativeLimit(t *testing.T) {
	_, err := New("q", mode.Index, filter.Filter{}, -1, false)
	if !errors.Is(err, domain.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestNew_InvalidMode(t *testing.T) {
	_, err := New("q", mode.Mode("semantic"), filter.Filter{}, 0, false)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxQueryLength+1), mode.Index, filter.Filter{}, 0, false)
	if err == nil {
		t.Fatal("expected error for long query")
	}
}
