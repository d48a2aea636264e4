package search

import (
	"reflect"
	"testing"

	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
)

func makeMatch(id string, fields ...string) result.Match {
	doc := document.Reconstruct(id, id, "", "body", document.Workflow, nil)
	return result.NewMatch(&doc, 1, fields)
}

func TestFuseRRF_DisjointLists(t *testing.T) {
	indexed := []result.Match{makeMatch("a"), makeMatch("b")}
	fielded := []result.Match{makeMatch("c"), makeMatch("d")}

	got := fuseRRF(indexed, fielded)

	// Equal ranks tie; ties keep index-list order first.
	if want := []string{"a", "c", "b", "d"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestFuseRRF_OverlapRanksHigher(t *testing.T) {
	indexed := []result.Match{makeMatch("a"), makeMatch("b"), makeMatch("c")}
	fielded := []result.Match{makeMatch("b"), makeMatch("d"), makeMatch("a")}

	got := fuseRRF(indexed, fielded)
	if len(got) != 4 {
		t.Fatalf("len = %d", len(got))
	}
	// b: 1/62 + 1/61, a: 1/61 + 1/63
	if got[0].ID() != "b" || got[1].ID() != "a" {
		t.Errorf("ids = %v, want b, a first", ids(got))
	}
	want := 1.0/62 + 1.0/61
	if got[0].Score() != want {
		t.Errorf("score = %v, want %v", got[0].Score(), want)
	}
}

func TestFuseRRF_UnionsFields(t *testing.T) {
	indexed := []result.Match{makeMatch("a", result.FieldContent)}
	fielded := []result.Match{makeMatch("a", result.FieldTitle)}

	got := fuseRRF(indexed, fielded)
	if want := []string{result.FieldTitle, result.FieldContent}; !reflect.DeepEqual(got[0].Fields(), want) {
		t.Errorf("fields = %v, want %v", got[0].Fields(), want)
	}
}

func TestFuseRRF_ReturnsEveryDocument(t *testing.T) {
	indexed := []result.Match{makeMatch("a"), makeMatch("b"), makeMatch("c")}
	fielded := []result.Match{makeMatch("d"), makeMatch("a")}

	if got := fuseRRF(indexed, fielded); len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
	if got := fuseRRF(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}
