package indexing

import (
	"context"

	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
)

// Loader reads the full document corpus.
type Loader interface {
	Load(ctx context.Context) ([]document.Document, error)
}

// Publisher builds and publishes an index for a corpus.
type Publisher interface {
	Rebuild(ctx context.Context, docs []document.Document) (*bm25.Index, error)
	Generation() uint64
}
