package index

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
	"github.com/Dicklesworthstone/ranker/internal/logger"
	"github.com/Dicklesworthstone/ranker/internal/metrics"
)

// Repo owns the published index for one corpus.
// Readers load the current index lock-free; rebuilds are serialized and
// publish a fully built index with a single pointer swap.
type Repo struct {
	params     bm25.Params
	current    atomic.Pointer[bm25.Index]
	generation atomic.Uint64
	mu         sync.Mutex
}

// New creates an empty repository. Current fails with ErrIndexNotBuilt until the first Rebuild.
func New(params bm25.Params) *Repo {
	return &Repo{params: params}
}

// Rebuild validates docs, builds a new index off to the side and publishes it.
// On error the previously published index keeps serving.
func (r *Repo) Rebuild(ctx context.Context, docs []document.Document) (*bm25.Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := logger.FromContext(ctx)
	start := time.Now()

	if err := checkUnique(docs); err != nil {
		metrics.IndexRebuildsTotal.WithLabelValues("error").Inc()
		log.Warn("Index rebuild rejected", zap.Int("documents", len(docs)), zap.Error(err))
		return nil, fmt.Errorf("rebuild index: %w", err)
	}

	next := bm25.Build(docs, r.params)
	r.current.Store(next)
	gen := r.generation.Add(1)

	elapsed := time.Since(start)
	metrics.IndexRebuildsTotal.WithLabelValues("ok").Inc()
	metrics.IndexRebuildDuration.Observe(elapsed.Seconds())
	metrics.IndexDocuments.Set(float64(next.Len()))

	log.Info("Index published",
		zap.Uint64("generation", gen),
		zap.Int("documents", next.Len()),
		zap.Int("terms", next.VocabularySize()),
		zap.Duration("duration", elapsed),
	)
	return next, nil
}

// Current returns the published index.
func (r *Repo) Current() (*bm25.Index, error) {
	x := r.current.Load()
	if x == nil {
		return nil, domain.ErrIndexNotBuilt
	}
	return x, nil
}

// Generation counts successful rebuilds.
func (r *Repo) Generation() uint64 { return r.generation.Load() }

func checkUnique(docs []document.Document) error {
	seen := make(map[string]bool, len(docs))
	for i := range docs {
		id := docs[i].ID()
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidDocument, id)
		}
		seen[id] = true
	}
	return nil
}
