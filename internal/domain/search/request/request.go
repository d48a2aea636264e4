package request

import (
	"fmt"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/filter"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in bytes.
	MaxQueryLength = 4096
	// DefaultLimit applies when the caller passes limit 0.
	DefaultLimit = 20
)

// Request is a validated search query.
type Request struct {
	query          string
	searchMode     mode.Mode
	filter         filter.Filter
	limit          int
	expandSynonyms bool
}

// New validates search parameters.
// Defaults: mode=index, limit=20 when 0. Negative limits are rejected, never clamped.
// An empty query is valid and yields no results.
func New(query string, m mode.Mode, f filter.Filter, limit int, expandSynonyms bool) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if m == "" {
		m = mode.Index
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidRequest, m)
	}
	if err := domain.CheckLimit(limit); err != nil {
		return Request{}, err
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	return Request{
		query:          query,
		searchMode:     m,
		filter:         f,
		limit:          limit,
		expandSynonyms: expandSynonyms,
	}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Mode returns the ranking strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Filter returns the post-filter.
func (r *Request) Filter() filter.Filter { return r.filter }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// ExpandSynonyms reports whether synonym expansion is enabled.
func (r *Request) ExpandSynonyms() bool { return r.expandSynonyms }
