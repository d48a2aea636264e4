package recommendation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	domrec "github.com/Dicklesworthstone/ranker/internal/domain/recommendation"
	"github.com/Dicklesworthstone/ranker/internal/logger"
	"github.com/Dicklesworthstone/ranker/internal/metrics"
	"github.com/Dicklesworthstone/ranker/internal/recommend"
)

// Service resolves documents by ID from the published snapshot and ranks recommendations.
type Service struct {
	index IndexReader
}

// New creates a recommendation service.
func New(index IndexReader) *Service {
	return &Service{index: index}
}

// Related recommends documents similar to the seed document id.
func (s *Service) Related(ctx context.Context, id string, limit int) ([]domrec.Recommendation, error) {
	idx, err := s.index.Current()
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	seed, ok := idx.Document(id)
	if !ok {
		return nil, fmt.Errorf("seed %q: %w", id, domain.ErrDocumentNotFound)
	}

	recs, err := recommend.Related(seed, idx.Documents(), limit)
	if err != nil {
		return nil, fmt.Errorf("related: %w", err)
	}
	metrics.RecommendationsTotal.WithLabelValues("related").Inc()
	logger.FromContext(ctx).Debug("Related recommendations",
		zap.String("seed", id), zap.Int("results", len(recs)))
	return recs, nil
}

// ForYou recommends documents for the given signal ids and preferences.
// Unknown signal ids are skipped; the profile is built from the rest.
func (s *Service) ForYou(
	ctx context.Context, signalIDs []string, prefs domrec.Preferences, limit int,
) ([]domrec.Recommendation, error) {
	idx, err := s.index.Current()
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	log := logger.FromContext(ctx)
	signals := make([]*document.Document, 0, len(signalIDs))
	for _, id := range signalIDs {
		doc, ok := idx.Document(id)
		if !ok {
			log.Debug("Unknown signal document skipped", zap.String("id", id))
			continue
		}
		signals = append(signals, doc)
	}

	recs, err := recommend.ForYou(domrec.Profile{Signals: signals, Preferences: prefs}, idx.Documents(), limit)
	if err != nil {
		return nil, fmt.Errorf("for you: %w", err)
	}
	metrics.RecommendationsTotal.WithLabelValues("for_you").Inc()
	log.Debug("For-you recommendations",
		zap.Int("signals", len(signals)), zap.Int("results", len(recs)))
	return recs, nil
}
