package result

import "github.com/Dicklesworthstone/ranker/internal/domain/document"

// Field names reported in match explanations.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldContent     = "content"
)

// Match is a scored document for one query.
// Fields lists the fields that contributed, in canonical order; it never affects ranking.
type Match struct {
	doc    *document.Document
	score  float64
	fields []string
}

// NewMatch creates a match.
func NewMatch(doc *document.Document, score float64, fields []string) Match {
	return Match{doc: doc, score: score, fields: fields}
}

// Document returns the matched document (shared reference, not a copy).
func (m *Match) Document() *document.Document { return m.doc }

// ID returns the matched document identifier.
func (m *Match) ID() string { return m.doc.ID() }

// Score returns the relevance score.
func (m *Match) Score() float64 { return m.score }

// Fields returns the contributing field names.
func (m *Match) Fields() []string { return m.fields }

// WithScore returns a copy with the score replaced.
func (m *Match) WithScore(score float64) Match {
	return Match{doc: m.doc, score: score, fields: m.fields}
}

// Hit is an inverted-index result.
type Hit struct {
	id    string
	pos   int
	score float64
}

// NewHit creates a hit. pos is the document's position in the indexed corpus.
func NewHit(id string, pos int, score float64) Hit {
	return Hit{id: id, pos: pos, score: score}
}

// ID returns the document identifier.
func (h Hit) ID() string { return h.id }

// Position returns the document's corpus position.
func (h Hit) Position() int { return h.pos }

// Score returns the relevance score.
func (h Hit) Score() float64 { return h.score }
