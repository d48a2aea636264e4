package ranker

import (
	"context"
	"fmt"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
	"github.com/Dicklesworthstone/ranker/internal/query"
	"github.com/Dicklesworthstone/ranker/internal/synonym"
)

// Index is a standalone, immutable inverted index built by Engine.BuildIndex.
// It is independent of the engine's published corpus and safe for concurrent reads.
type Index struct {
	idx      *bm25.Index
	synonyms *synonym.Table
}

// BuildIndex validates docs and builds an index over them with the engine's
// BM25 parameters and synonym table. Duplicate ids are rejected.
func (e *Engine) BuildIndex(docs []Document) (*Index, error) {
	internal, err := toInternalDocuments(docs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	seen := make(map[string]bool, len(internal))
	for i := range internal {
		id := internal[i].ID()
		if seen[id] {
			return nil, fmt.Errorf("build index: %w: duplicate id %q", domain.ErrInvalidDocument, id)
		}
		seen[id] = true
	}
	return &Index{idx: bm25.Build(internal, e.cfg.params), synonyms: e.synonyms}, nil
}

// Search returns index hits for q by descending score, ties by insertion order.
// Synonyms of the typed tokens contribute at a reduced weight. A zero limit returns every hit.
func (x *Index) Search(q string, limit int) ([]Hit, error) {
	hits, err := x.idx.Search(query.Parse(q).Expand(x.synonyms), limit)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}
	return fromHits(hits), nil
}

// Len returns the number of indexed documents.
func (x *Index) Len() int { return x.idx.Len() }

// Document returns an indexed document by id.
func (x *Index) Document(id string) (Document, bool) {
	doc, ok := x.idx.Document(id)
	if !ok {
		return Document{}, false
	}
	return fromInternalDocument(doc), true
}

// TypedIndex is a generic, schema-first view over an Engine's corpus.
// Schema is inferred from T's `ranker` struct tags at construction time.
type TypedIndex[T any] struct {
	eng  *Engine
	meta *schemaMeta
}

// NewIndex creates a typed index handle. T must be a struct with ranker tags
// for at least id, title, content and category. Schema is parsed once and cached.
func NewIndex[T any](eng *Engine) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}
	return &TypedIndex[T]{eng: eng, meta: meta}, nil
}

// Rebuild replaces the engine's corpus with items.
func (idx *TypedIndex[T]) Rebuild(ctx context.Context, items []T) error {
	docs := make([]Document, len(items))
	for i := range items {
		docs[i] = idx.meta.toDocument(items[i])
	}
	return idx.eng.Rebuild(ctx, docs)
}

// Get retrieves a typed item by id.
func (idx *TypedIndex[T]) Get(id string) (T, error) {
	doc, err := idx.eng.Document(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return idx.convert(doc)
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{eng: idx.eng, convert: idx.convert}
}

func (idx *TypedIndex[T]) convert(doc Document) (T, error) {
	item, ok := idx.meta.fromDocument(&doc).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("ranker: type assertion to %s failed", idx.meta.typ)
	}
	return item, nil
}
