package ranker

import (
	"context"
	"fmt"

	"github.com/Dicklesworthstone/ranker/internal/domain/search/mode"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/request"
)

// DefaultLimit is the number of results returned when SearchOptions.Limit is 0.
const DefaultLimit = request.DefaultLimit

// Search ranks the published corpus for q. opts may be nil.
// An empty or all-stopword query returns no results and no error.
func (e *Engine) Search(ctx context.Context, q string, opts *SearchOptions) ([]Match, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	f, err := toInternalFilter(opts.Category, opts.Tags)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	req, err := request.New(q, mode.Mode(opts.Mode), f, opts.Limit, !opts.DisableSynonyms)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	matches, err := e.searchSvc.Search(e.withLogger(ctx), &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromMatches(matches), nil
}

// Query returns a fluent search builder over the engine's documents.
func (e *Engine) Query() *SearchBuilder[Document] {
	return &SearchBuilder[Document]{
		eng:     e,
		convert: func(d Document) (Document, error) { return d, nil },
	}
}
