package ranker

import (
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	bm25 "github.com/Dicklesworthstone/ranker/internal/index"
	"github.com/Dicklesworthstone/ranker/internal/scoring"
	"github.com/Dicklesworthstone/ranker/internal/synonym"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

// Weights are the relative field weights of the field-weighted scorer.
type Weights struct {
	Title       float64
	ID          float64
	Tags        float64
	Description float64
	Content     float64
}

// DefaultWeights returns the reference weights (title 10, id 9, tags 6,
// description 4, content 1.5).
func DefaultWeights() Weights {
	w := scoring.DefaultWeights()
	return Weights{Title: w.Title, ID: w.ID, Tags: w.Tags, Description: w.Description, Content: w.Content}
}

type engineConfig struct {
	weights     scoring.Weights
	params      bm25.Params
	synonyms    map[string][]string
	hasSynonyms bool
	dimensions  int
	logger      *zap.Logger
}

func defaultConfig() *engineConfig {
	return &engineConfig{
		weights:    scoring.DefaultWeights(),
		params:     bm25.DefaultParams(),
		dimensions: domain.DefaultEmbeddingDimensions,
		logger:     zap.NewNop(),
	}
}

func (c *engineConfig) synonymTable() *synonym.Table {
	if !c.hasSynonyms {
		return synonym.Default()
	}
	return synonym.New(c.synonyms)
}

// WithWeights overrides the field weights.
func WithWeights(w Weights) Option {
	return optionFunc(func(c *engineConfig) {
		c.weights = scoring.Weights{
			Title: w.Title, ID: w.ID, Tags: w.Tags, Description: w.Description, Content: w.Content,
		}
	})
}

// WithSynonyms replaces the compiled-in synonym table. Keys are canonical
// terms, values their related terms; lookups work in both directions.
func WithSynonyms(entries map[string][]string) Option {
	return optionFunc(func(c *engineConfig) {
		c.synonyms = entries
		c.hasSynonyms = true
	})
}

// WithIndexParams sets the BM25 saturation (k1) and length normalization (b).
// Defaults: k1=1.2, b=0.75.
func WithIndexParams(k1, b float64) Option {
	return optionFunc(func(c *engineConfig) {
		c.params = bm25.Params{K1: k1, B: b}
	})
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithEmbeddingDimensions sets the hash embedding width used for similarity. Defaults to 128.
func WithEmbeddingDimensions(dims int) Option {
	return optionFunc(func(c *engineConfig) {
		c.dimensions = dims
	})
}
