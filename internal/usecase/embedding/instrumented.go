package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/logger"
	"github.com/Dicklesworthstone/ranker/internal/metrics"
)

// DefaultMaxBatchSize bounds the texts handed to the inner embedder per call.
const DefaultMaxBatchSize = 256

// InstrumentedEmbedder wraps an Embedder with metrics and debug logging.
// Batches are split into chunks of at most maxBatch texts.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	maxBatch int
}

// NewInstrumentedEmbedder wraps inner. maxBatch <= 0 means DefaultMaxBatchSize.
func NewInstrumentedEmbedder(inner domain.Embedder, maxBatch int) *InstrumentedEmbedder {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}
	return &InstrumentedEmbedder{inner: inner, maxBatch: maxBatch}
}

// Embed delegates to the inner embedder and records the call.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	result, err := p.inner.Embed(ctx, text)
	p.observe("single", 1, start, err)
	if err != nil {
		logger.FromContext(ctx).Error("Embedding failed", zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return result, nil
}

// BatchEmbed splits texts into chunks and delegates each to the inner embedder.
func (p *InstrumentedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	log := logger.FromContext(ctx)
	start := time.Now()
	result, err := p.embedChunked(ctx, texts)
	p.observe("batch", len(texts), start, err)
	if err != nil {
		log.Error("Batch embedding failed", zap.Int("batch_size", len(texts)), zap.Error(err))
		return domain.BatchEmbeddingResult{}, err
	}

	log.Debug("Batch embedding completed",
		zap.Int("batch_size", len(texts)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (p *InstrumentedEmbedder) embedChunked(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	all := make([][]float32, 0, len(texts))
	for offset := 0; offset < len(texts); offset += p.maxBatch {
		end := min(offset+p.maxBatch, len(texts))
		chunk, err := domain.EmbedAll(ctx, p.inner, texts[offset:end])
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed (chunk %d): %w", offset, err)
		}
		all = append(all, chunk.Embeddings...)
	}
	return domain.BatchEmbeddingResult{Embeddings: all}, nil
}

func (p *InstrumentedEmbedder) observe(op string, texts int, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EmbeddingRequestsTotal.WithLabelValues(op, status).Inc()
	metrics.EmbeddingDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.EmbeddingTexts.Add(float64(texts))
	}
}
