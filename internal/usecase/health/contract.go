package health

import (
	"context"

	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
)

// IndexReader exposes the currently published index.
type IndexReader interface {
	Current() (*bm25.Index, error)
}

// CatalogChecker checks that the catalog source is readable.
type CatalogChecker interface {
	HealthCheck(ctx context.Context) error
}
