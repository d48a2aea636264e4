package result

import (
	"testing"

	"github.com/Dicklesworthstone/ranker/internal/domain/document"
)

func TestNewMatch(t *testing.T) {
	doc := document.Reconstruct("doc-1", "Title", "", "body", document.Workflow, nil)

	m := NewMatch(&doc, 12.5, []string{FieldTitle, FieldTags})

	if m.ID() != "doc-1" {
		t.Errorf("ID() = %q", m.ID())
	}
	if m.Score() != 12.5 {
		t.Errorf("Score() = %f", m.Score())
	}
	if m.Document() != &doc {
		t.Error("Document() should reference the original document")
	}
	if len(m.Fields()) != 2 {
		t.Errorf("Fields() = %v", m.Fields())
	}

	rescored := m.WithScore(1)
	if rescored.Score() != 1 || m.Score() != 12.5 {
		t.Error("WithScore must return a copy")
	}
}

func TestNewHit(t *testing.T) {
	h := NewHit("doc-2", 3, 4.2)
	if h.ID() != "doc-2" || h.Position() != 3 || h.Score() != 4.2 {
		t.Errorf("unexpected hit %+v", h)
	}
}
