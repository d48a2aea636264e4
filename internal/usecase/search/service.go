package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/mode"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/request"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
	"github.com/Dicklesworthstone/ranker/internal/logger"
	"github.com/Dicklesworthstone/ranker/internal/metrics"
	"github.com/Dicklesworthstone/ranker/internal/query"
)

// Service is the composite query facade: tokenize, expand, rank, filter, explain, cap.
type Service struct {
	index    IndexReader
	scorer   Scorer
	synonyms query.Expander
}

// New creates a search service. synonyms may be nil to disable expansion entirely.
func New(index IndexReader, scorer Scorer, synonyms query.Expander) *Service {
	return &Service{index: index, scorer: scorer, synonyms: synonyms}
}

// Search runs req against the published index.
// An empty or all-stopword query returns an empty result, not an error.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Match, error) {
	start := time.Now()
	results, err := s.search(req)

	status := "ok"
	if err != nil {
		status = "error"
	}
	m := string(req.Mode())
	metrics.SearchRequestsTotal.WithLabelValues(m, status).Inc()
	metrics.SearchDuration.WithLabelValues(m).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	metrics.SearchResults.Observe(float64(len(results)))

	logger.FromContext(ctx).Debug("Search executed",
		zap.String("query", req.Query()),
		zap.String("mode", m),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

func (s *Service) search(req *request.Request) ([]result.Match, error) {
	idx, err := s.index.Current()
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	q := query.Parse(req.Query())
	if q.IsEmpty() {
		return []result.Match{}, nil
	}
	if req.ExpandSynonyms() {
		q = q.Expand(s.synonyms)
	}

	var results []result.Match
	switch req.Mode() {
	case mode.Index:
		results, err = s.searchIndex(idx, q, req)
	case mode.Field:
		results = s.scorer.ScoreAll(idx.Documents(), q, req.Filter())
	case mode.Hybrid:
		var indexed []result.Match
		if indexed, err = s.searchIndex(idx, q, req); err == nil {
			fielded := s.scorer.ScoreAll(idx.Documents(), q, req.Filter())
			results = fuseRRF(indexed, fielded)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported search mode %q", domain.ErrInvalidRequest, req.Mode())
	}
	if err != nil {
		return nil, err
	}

	// Limit after filtering and scoring
	return results[:domain.Cap(len(results), req.Limit())], nil
}

// searchIndex ranks with BM25 over every hit, post-filters, and annotates each
// hit with the fields the reference scorer says contributed.
func (s *Service) searchIndex(idx *bm25.Index, q query.Query, req *request.Request) ([]result.Match, error) {
	hits, err := idx.Search(q, 0)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	f := req.Filter()
	results := make([]result.Match, 0, len(hits))
	for _, h := range hits {
		doc := idx.At(h.Position())
		if !f.Matches(doc) {
			continue
		}
		var fields []string
		if m, ok := s.scorer.ScoreDocument(doc, q); ok {
			fields = m.Fields()
		}
		results = append(results, result.NewMatch(doc, h.Score(), fields))
	}
	return results, nil
}
