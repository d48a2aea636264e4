package ranker

import (
	"context"
	"fmt"
)

// Result is a typed search result.
type Result[T any] struct {
	Item   T
	Score  float64
	Fields []string
}

// SearchBuilder is a fluent builder for search queries.
type SearchBuilder[T any] struct {
	eng     *Engine
	convert func(Document) (T, error)

	query string
	opts  SearchOptions
}

// Query sets the free-text query.
func (b *SearchBuilder[T]) Query(q string) *SearchBuilder[T] {
	b.query = q
	return b
}

// Mode sets the ranking strategy (index, field, hybrid).
func (b *SearchBuilder[T]) Mode(m SearchMode) *SearchBuilder[T] {
	b.opts.Mode = m
	return b
}

// Category restricts results to one category.
func (b *SearchBuilder[T]) Category(c Category) *SearchBuilder[T] {
	b.opts.Category = c
	return b
}

// Tag adds a required tag. Every tag added must be present.
func (b *SearchBuilder[T]) Tag(tag string) *SearchBuilder[T] {
	b.opts.Tags = append(b.opts.Tags, tag)
	return b
}

// Limit sets the maximum number of results.
func (b *SearchBuilder[T]) Limit(n int) *SearchBuilder[T] {
	b.opts.Limit = n
	return b
}

// NoSynonyms disables synonym expansion.
func (b *SearchBuilder[T]) NoSynonyms() *SearchBuilder[T] {
	b.opts.DisableSynonyms = true
	return b
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do(ctx context.Context) ([]Result[T], error) {
	opts := b.opts
	matches, err := b.eng.Search(ctx, b.query, &opts)
	if err != nil {
		return nil, err
	}

	out := make([]Result[T], len(matches))
	for i := range matches {
		item, err := b.convert(matches[i].Document)
		if err != nil {
			return nil, fmt.Errorf("convert %q: %w", matches[i].Document.ID, err)
		}
		out[i] = Result[T]{Item: item, Score: matches[i].Score, Fields: matches[i].Fields}
	}
	return out, nil
}
