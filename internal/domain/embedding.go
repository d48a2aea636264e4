package domain

import (
	"context"
	"fmt"
)

// DefaultEmbeddingDimensions is the hash embedding width used when none is configured.
const DefaultEmbeddingDimensions = 128

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector.
type EmbeddingResult struct {
	Embedding []float32
}

// BatchEmbeddingResult carries multiple embedding vectors in input order.
type BatchEmbeddingResult struct {
	Embeddings [][]float32
}

// BatchFallback calls Embed once per text for embedders without a native batch path.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		embeddings[i] = res.Embedding
	}
	return BatchEmbeddingResult{Embeddings: embeddings}, nil
}

// EmbedAll uses the native batch path when available and falls back to per-text calls.
func EmbedAll(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	if be, ok := e.(BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		return res, nil
	}
	return BatchFallback(ctx, e, texts)
}
