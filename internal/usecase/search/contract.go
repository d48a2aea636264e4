package search

import (
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/filter"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
	"github.com/Dicklesworthstone/ranker/internal/query"
)

// IndexReader exposes the currently published index.
type IndexReader interface {
	Current() (*bm25.Index, error)
}

// Scorer is the reference field-weighted scorer.
type Scorer interface {
	ScoreDocument(doc *document.Document, q query.Query) (result.Match, bool)
	ScoreAll(docs []document.Document, q query.Query, f filter.Filter) []result.Match
}
