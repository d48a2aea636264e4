package filter

import (
	"fmt"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
)

// MaxTags is the maximum number of tag conditions per filter.
const MaxTags = 32

// Filter is a post-scoring restriction on category and tags.
// A document passes when it is in the category (if set) and carries every tag.
type Filter struct {
	category document.Category
	tags     []string
}

// New validates and creates a Filter. An empty category means any category.
func New(category document.Category, tags []string) (Filter, error) {
	if category != "" && !category.IsValid() {
		return Filter{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, category)
	}
	if len(tags) > MaxTags {
		return Filter{}, fmt.Errorf("%w: too many tag filters (max %d)", domain.ErrInvalidRequest, MaxTags)
	}
	var clean []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t == "" {
			return Filter{}, fmt.Errorf("%w: tag filter value is required", domain.ErrInvalidRequest)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		clean = append(clean, t)
	}
	return Filter{category: category, tags: clean}, nil
}

// Category returns the required category, or "" for any.
func (f Filter) Category() document.Category { return f.category }

// Tags returns the required tags.
func (f Filter) Tags() []string { return f.tags }

// IsEmpty reports whether the filter has no conditions.
func (f Filter) IsEmpty() bool {
	return f.category == "" && len(f.tags) == 0
}

// Matches reports whether doc passes the filter.
func (f Filter) Matches(doc *document.Document) bool {
	if f.category != "" && doc.Category() != f.category {
		return false
	}
	for _, t := range f.tags {
		if !doc.HasTag(t) {
			return false
		}
	}
	return true
}
