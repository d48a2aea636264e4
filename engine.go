package ranker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/analysis"
	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/embedding"
	"github.com/Dicklesworthstone/ranker/internal/logger"
	"github.com/Dicklesworthstone/ranker/internal/query"
	indexrepo "github.com/Dicklesworthstone/ranker/internal/repository/index"
	"github.com/Dicklesworthstone/ranker/internal/scoring"
	"github.com/Dicklesworthstone/ranker/internal/synonym"
	recommendationuc "github.com/Dicklesworthstone/ranker/internal/usecase/recommendation"
	searchuc "github.com/Dicklesworthstone/ranker/internal/usecase/search"
	similarityuc "github.com/Dicklesworthstone/ranker/internal/usecase/similarity"
)

// Engine is the ranker entry point. It owns one published corpus; queries
// read the current snapshot lock-free while Rebuild swaps in a new one.
type Engine struct {
	cfg       *engineConfig
	repo      *indexrepo.Repo
	scorer    *scoring.Scorer
	synonyms  *synonym.Table
	embedder  *embedding.HashEmbedder
	searchSvc *searchuc.Service
	recSvc    *recommendationuc.Service
	simSvc    *similarityuc.Service
	logger    *zap.Logger
}

// New creates an Engine. The corpus is empty until the first Rebuild.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if err := cfg.weights.Validate(); err != nil {
		return nil, fmt.Errorf("ranker: %w", err)
	}
	if err := cfg.params.Validate(); err != nil {
		return nil, fmt.Errorf("ranker: %w", err)
	}
	embedder, err := embedding.NewHashEmbedder(cfg.dimensions)
	if err != nil {
		return nil, fmt.Errorf("ranker: %w", err)
	}

	return wireEngine(cfg, embedder), nil
}

func wireEngine(cfg *engineConfig, embedder *embedding.HashEmbedder) *Engine {
	repo := indexrepo.New(cfg.params)
	scorer := scoring.New(cfg.weights)
	table := cfg.synonymTable()

	return &Engine{
		cfg:       cfg,
		repo:      repo,
		scorer:    scorer,
		synonyms:  table,
		embedder:  embedder,
		searchSvc: searchuc.New(repo, scorer, table),
		recSvc:    recommendationuc.New(repo),
		simSvc:    similarityuc.New(repo, scorer, embedder),
		logger:    cfg.logger,
	}
}

// withLogger attaches the engine logger unless the caller already supplied one.
func (e *Engine) withLogger(ctx context.Context) context.Context {
	return logger.Ensure(ctx, e.logger)
}

// Tokenize splits text into normalized, stopword-free tokens.
func (e *Engine) Tokenize(text string) []string {
	return analysis.Tokenize(text)
}

// ScoreDocument scores one document against query with the field-weighted
// scorer. The query is used as typed, without synonym expansion.
// The bool is false when nothing matched.
func (e *Engine) ScoreDocument(doc Document, q string) (Match, bool) {
	d := toTrustedDocument(&doc)
	m, ok := e.scorer.ScoreDocument(&d, query.Parse(q))
	if !ok {
		return Match{}, false
	}
	return fromMatch(&m), true
}

// ScoreAll scores docs against query and returns the matches by descending
// score, ties in input order. Documents outside the category and tag filter
// are dropped before scoring; documents that do not match are omitted.
// opts may be nil.
func (e *Engine) ScoreAll(docs []Document, q string, opts *ScoreOptions) ([]Match, error) {
	if opts == nil {
		opts = &ScoreOptions{}
	}
	f, err := toInternalFilter(opts.Category, opts.Tags)
	if err != nil {
		return nil, fmt.Errorf("score all: %w", err)
	}
	parsed := query.Parse(q)
	if opts.ExpandSynonyms {
		parsed = parsed.Expand(e.synonyms)
	}

	internal := make([]document.Document, len(docs))
	for i := range docs {
		internal[i] = toTrustedDocument(&docs[i])
	}
	return fromMatches(e.scorer.ScoreAll(internal, parsed, f)), nil
}

// Rebuild validates docs and publishes them as the engine's corpus.
// On error the previous corpus keeps serving.
func (e *Engine) Rebuild(ctx context.Context, docs []Document) error {
	internal, err := toInternalDocuments(docs)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	if _, err := e.repo.Rebuild(e.withLogger(ctx), internal); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	return nil
}

// Len returns the number of documents in the published corpus (0 before the first Rebuild).
func (e *Engine) Len() int {
	idx, err := e.repo.Current()
	if err != nil {
		return 0
	}
	return idx.Len()
}

// Document returns a published document by id.
func (e *Engine) Document(id string) (Document, error) {
	idx, err := e.repo.Current()
	if err != nil {
		return Document{}, fmt.Errorf("get %q: %w", id, err)
	}
	doc, ok := idx.Document(id)
	if !ok {
		return Document{}, fmt.Errorf("get %q: %w", id, domain.ErrDocumentNotFound)
	}
	return fromInternalDocument(doc), nil
}

// ExpandQuery returns tokens followed by their synonyms, deduplicated.
// Tokens are folded to token form first, so "Fix" expands like "fix".
func (e *Engine) ExpandQuery(tokens []string) []string {
	folded := make([]string, 0, len(tokens))
	for _, t := range tokens {
		folded = append(folded, analysis.NormalizeIdentifier(t))
	}
	return e.synonyms.Terms(folded)
}

// Related recommends published documents similar to the document id.
// A zero limit returns every candidate.
func (e *Engine) Related(ctx context.Context, id string, limit int) ([]Recommendation, error) {
	recs, err := e.recSvc.Related(e.withLogger(ctx), id, limit)
	if err != nil {
		return nil, fmt.Errorf("related: %w", err)
	}
	return fromRecommendations(recs), nil
}

// ForYou recommends published documents from the signal ids (seen or saved
// documents) and explicit preferences. An empty profile yields an empty list.
func (e *Engine) ForYou(ctx context.Context, signals []string, prefs Preferences, limit int) ([]Recommendation, error) {
	recs, err := e.recSvc.ForYou(e.withLogger(ctx), signals, toInternalPreferences(prefs), limit)
	if err != nil {
		return nil, fmt.Errorf("for you: %w", err)
	}
	return fromRecommendations(recs), nil
}

// HashEmbed returns the deterministic, L2-normalized hash embedding of text.
// dims 0 uses the engine's configured dimensions; negative dims fail.
func (e *Engine) HashEmbed(text string, dims int) ([]float32, error) {
	if dims == 0 {
		dims = e.embedder.Dimensions()
	}
	vec, err := embedding.HashEmbed(text, dims)
	if err != nil {
		return nil, fmt.Errorf("hash embed: %w", err)
	}
	return vec, nil
}

// NearDuplicates lists published documents that look like copies of id.
// threshold is the cosine cut-off in [0, 1]; 0 means the default (0.95).
func (e *Engine) NearDuplicates(ctx context.Context, id string, threshold float64) ([]Duplicate, error) {
	dups, err := e.simSvc.NearDuplicatesByID(e.withLogger(ctx), id, threshold)
	if err != nil {
		return nil, fmt.Errorf("near duplicates: %w", err)
	}
	return fromDuplicates(dups), nil
}

// SuggestTags proposes tags for id from the documents that best match its
// title and description. A zero limit returns every suggestion.
func (e *Engine) SuggestTags(ctx context.Context, id string, limit int) ([]TagSuggestion, error) {
	tags, err := e.simSvc.SuggestTagsByID(e.withLogger(ctx), id, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest tags: %w", err)
	}
	return fromTagSuggestions(tags), nil
}
