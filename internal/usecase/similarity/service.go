package similarity

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/analysis"
	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/filter"
	"github.com/Dicklesworthstone/ranker/internal/embedding"
	"github.com/Dicklesworthstone/ranker/internal/logger"
	"github.com/Dicklesworthstone/ranker/internal/query"
	"github.com/Dicklesworthstone/ranker/internal/scoring"
)

// DefaultThreshold is the cosine similarity at which two documents are near-duplicates.
const DefaultThreshold = 0.95

// suggestionPool is how many top-scored neighbours contribute tags.
const suggestionPool = 10

// Duplicate reasons.
const (
	ReasonEmbedding = "embedding"
	ReasonTitle     = "title"
)

// Duplicate is a near-duplicate candidate.
type Duplicate struct {
	Document   *document.Document
	Similarity float64 // cosine of the canonical-text hash embeddings
	Score      float64 // field-weighted score of the candidate for the source title
	Reason     string
}

// TagSuggestion is a tag proposed for a document.
type TagSuggestion struct {
	Tag   string
	Score float64
}

// Service finds near-duplicates and suggests tags for single documents.
type Service struct {
	index    IndexReader
	scorer   Scorer
	embedder domain.Embedder
}

// New creates a similarity service. index may be nil when only the
// document-based methods are used.
func New(index IndexReader, scorer Scorer, embedder domain.Embedder) *Service {
	return &Service{index: index, scorer: scorer, embedder: embedder}
}

// NearDuplicates returns the documents in docs whose canonical text embeds within
// threshold of doc, plus those whose fields fully contain doc's title.
// A zero threshold means DefaultThreshold.
func (s *Service) NearDuplicates(
	ctx context.Context, doc *document.Document, docs []document.Document, threshold float64,
) ([]Duplicate, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v must be in [0, 1]", domain.ErrInvalidRequest, threshold)
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	texts := make([]string, 0, len(docs)+1)
	texts = append(texts, canonical(doc))
	for i := range docs {
		texts = append(texts, canonical(&docs[i]))
	}
	vectors, err := domain.EmbedAll(ctx, s.embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	source := vectors.Embeddings[0]

	titleQuery := query.Parse(doc.Title())
	titleFloor := titleFloor(s.scorer.Weights(), titleQuery)

	var out []Duplicate
	for i := range docs {
		other := &docs[i]
		if other.ID() == doc.ID() {
			continue
		}
		d := Duplicate{Document: other, Similarity: embedding.Cosine(source, vectors.Embeddings[i+1])}
		if m, ok := s.scorer.ScoreDocument(other, titleQuery); ok {
			d.Score = m.Score()
		}

		switch {
		case d.Similarity >= threshold:
			d.Reason = ReasonEmbedding
		case titleFloor > 0 && d.Score >= titleFloor:
			d.Reason = ReasonTitle
		default:
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Score > out[j].Score
	})

	logger.FromContext(ctx).Debug("Near-duplicate scan",
		zap.String("id", doc.ID()), zap.Float64("threshold", threshold), zap.Int("found", len(out)))
	return out, nil
}

// SuggestTags proposes tags carried by the documents that best match doc's
// title and description, excluding tags doc already has.
func (s *Service) SuggestTags(
	ctx context.Context, doc *document.Document, docs []document.Document, limit int,
) ([]TagSuggestion, error) {
	if err := domain.CheckLimit(limit); err != nil {
		return nil, err
	}

	others := make([]document.Document, 0, len(docs))
	for i := range docs {
		if docs[i].ID() != doc.ID() {
			others = append(others, docs[i])
		}
	}

	q := query.Parse(doc.Title() + " " + doc.Description())
	matches := s.scorer.ScoreAll(others, q, filter.Filter{})
	if len(matches) > suggestionPool {
		matches = matches[:suggestionPool]
	}

	scores := make(map[string]float64)
	var order []string
	for i := range matches {
		for _, tag := range matches[i].Document().Tags() {
			if doc.HasTag(tag) {
				continue
			}
			if _, ok := scores[tag]; !ok {
				order = append(order, tag)
			}
			scores[tag] += matches[i].Score()
		}
	}

	out := make([]TagSuggestion, 0, len(order))
	for _, tag := range order {
		out = append(out, TagSuggestion{Tag: tag, Score: scores[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	out = out[:domain.Cap(len(out), limit)]

	logger.FromContext(ctx).Debug("Tag suggestions",
		zap.String("id", doc.ID()), zap.Int("suggested", len(out)))
	return out, nil
}

// NearDuplicatesByID resolves id from the published snapshot and scans it.
func (s *Service) NearDuplicatesByID(ctx context.Context, id string, threshold float64) ([]Duplicate, error) {
	doc, docs, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	return s.NearDuplicates(ctx, doc, docs, threshold)
}

// SuggestTagsByID resolves id from the published snapshot and suggests tags for it.
func (s *Service) SuggestTagsByID(ctx context.Context, id string, limit int) ([]TagSuggestion, error) {
	doc, docs, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	return s.SuggestTags(ctx, doc, docs, limit)
}

func (s *Service) resolve(id string) (*document.Document, []document.Document, error) {
	if s.index == nil {
		return nil, nil, domain.ErrIndexNotBuilt
	}
	idx, err := s.index.Current()
	if err != nil {
		return nil, nil, fmt.Errorf("load index: %w", err)
	}
	doc, ok := idx.Document(id)
	if !ok {
		return nil, nil, fmt.Errorf("document %q: %w", id, domain.ErrDocumentNotFound)
	}
	return doc, idx.Documents(), nil
}

// canonical is the normalized token text of a document's prose fields,
// so formatting and casing differences do not change the embedding.
func canonical(doc *document.Document) string {
	return strings.Join(analysis.Tokenize(doc.Title()+" "+doc.Description()+" "+doc.Content()), " ")
}

// titleFloor is the score of every title word matching a title exactly.
// Single-word titles are too common to signal duplication and get no floor.
func titleFloor(w scoring.Weights, q query.Query) float64 {
	n := len(q.Words())
	if n < 2 {
		return 0
	}
	return w.Title * float64(n) * scoring.CoverageMultiplier
}
