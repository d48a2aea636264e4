package indexing

import (
	"context"
	"fmt"
)

// Summary describes a published index.
type Summary struct {
	Generation uint64
	Documents  int
	Terms      int
}

// Service reloads the corpus and republishes the index.
type Service struct {
	loader    Loader
	publisher Publisher
}

// New creates an indexing service.
func New(loader Loader, publisher Publisher) *Service {
	return &Service{loader: loader, publisher: publisher}
}

// Reload reads the corpus and publishes a new index. On any error the
// current index keeps serving.
func (s *Service) Reload(ctx context.Context) (Summary, error) {
	docs, err := s.loader.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load corpus: %w", err)
	}
	idx, err := s.publisher.Rebuild(ctx, docs)
	if err != nil {
		return Summary{}, fmt.Errorf("publish index: %w", err)
	}
	return Summary{
		Generation: s.publisher.Generation(),
		Documents:  idx.Len(),
		Terms:      idx.VocabularySize(),
	}, nil
}
