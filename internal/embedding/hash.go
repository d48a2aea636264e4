// Package embedding provides a deterministic hash-based pseudo-embedding.
// It needs no model: identical text always maps to the identical unit vector,
// which is enough to compare documents for near-duplication.
package embedding

import (
	"context"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/Dicklesworthstone/ranker/internal/domain"
)

// HashEmbed maps text to a dims-long unit vector. Each dimension i is the
// xxhash of text seeded with i, scaled to [-1, 1]. Empty text returns the
// zero vector unnormalized.
func HashEmbed(text string, dims int) ([]float32, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidDimensions, dims)
	}
	vec := make([]float32, dims)
	if text == "" {
		return vec, nil
	}

	for i := range vec {
		h := xxhash.NewWithSeed(uint64(i))
		_, _ = h.WriteString(text)
		// [0, 2^64) -> [-1, 1]
		vec[i] = float32(float64(h.Sum64())/math.MaxUint64*2 - 1)
	}
	NormalizeL2(vec)
	return vec, nil
}

// NormalizeL2 scales v to unit length in place. Zero vectors are left untouched.
func NormalizeL2(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// HashEmbedder adapts HashEmbed to domain.Embedder.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates an embedder producing dims-long vectors.
func NewHashEmbedder(dims int) (*HashEmbedder, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidDimensions, dims)
	}
	return &HashEmbedder{dims: dims}, nil
}

// Dimensions returns the vector length.
func (e *HashEmbedder) Dimensions() int { return e.dims }

// Embed implements domain.Embedder.
func (e *HashEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := HashEmbed(text, e.dims)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (e *HashEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchFallback(ctx, e, texts)
}
