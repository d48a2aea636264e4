// Package recommend scores documents by tag and category affinity:
// against one seed document, or against a user profile.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/recommendation"
)

// Affinity weights.
const (
	SharedTagWeight      = 3.0
	SameCategoryWeight   = 2.0
	SignalTagWeight      = 1.0
	SignalCategoryWeight = 1.5
	BoostTagWeight       = 2.0
	BoostCategoryWeight  = 3.0
)

// Related ranks every document other than seed by tag overlap and category match.
// A zero limit keeps every scored document.
func Related(seed *document.Document, docs []document.Document, limit int) ([]recommendation.Recommendation, error) {
	if err := domain.CheckLimit(limit); err != nil {
		return nil, err
	}
	out := make([]recommendation.Recommendation, 0)
	if seed == nil {
		return out, nil
	}

	for i := range docs {
		doc := &docs[i]
		if doc.ID() == seed.ID() {
			continue
		}

		var shared []string
		for _, t := range seed.Tags() {
			if doc.HasTag(t) {
				shared = append(shared, t)
			}
		}
		score := SharedTagWeight * float64(len(shared))
		var reasons []string
		if len(shared) > 0 {
			reasons = append(reasons, "shares tags: "+strings.Join(shared, ", "))
		}
		if doc.Category() == seed.Category() {
			score += SameCategoryWeight
			reasons = append(reasons, fmt.Sprintf("same category: %s", doc.Category()))
		}
		if score > 0 {
			out = append(out, recommendation.New(doc, score, reasons))
		}
	}
	return rank(out, limit), nil
}

// ForYou ranks documents for a profile. Signals and boosts add up first;
// excluded tags and categories then remove documents outright. Signal
// documents are never recommended back. An empty profile yields an empty list.
func ForYou(p recommendation.Profile, docs []document.Document, limit int) ([]recommendation.Recommendation, error) {
	if err := domain.CheckLimit(limit); err != nil {
		return nil, err
	}
	out := make([]recommendation.Recommendation, 0)
	if p.IsEmpty() {
		return out, nil
	}

	seen := make(map[string]bool, len(p.Signals))
	tagAffinity := make(map[string]float64)
	catAffinity := make(map[document.Category]float64)
	for _, s := range p.Signals {
		if s == nil {
			continue
		}
		seen[s.ID()] = true
		for _, t := range s.Tags() {
			tagAffinity[t] += SignalTagWeight
		}
		catAffinity[s.Category()] += SignalCategoryWeight
	}

	prefs := p.Preferences
	boostTags := toSet(prefs.BoostTags)
	boostCats := toSet(prefs.BoostCategories)
	excludeTags := toSet(prefs.ExcludeTags)
	excludeCats := toSet(prefs.ExcludeCategories)

	for i := range docs {
		doc := &docs[i]
		if seen[doc.ID()] {
			continue
		}

		score := 0.0
		var reasons, liked, boosted []string
		for _, t := range doc.Tags() {
			if a := tagAffinity[t]; a > 0 {
				score += a
				liked = append(liked, t)
			}
			if boostTags[t] {
				score += BoostTagWeight
				boosted = append(boosted, t)
			}
		}
		if len(liked) > 0 {
			reasons = append(reasons, "matches tags you use: "+strings.Join(liked, ", "))
		}
		if a := catAffinity[doc.Category()]; a > 0 {
			score += a
			reasons = append(reasons, fmt.Sprintf("category you use: %s", doc.Category()))
		}
		if len(boosted) > 0 {
			reasons = append(reasons, "boosted tags: "+strings.Join(boosted, ", "))
		}
		if boostCats[doc.Category()] {
			score += BoostCategoryWeight
			reasons = append(reasons, fmt.Sprintf("preferred category: %s", doc.Category()))
		}

		if score <= 0 || excluded(doc, excludeTags, excludeCats) {
			continue
		}
		out = append(out, recommendation.New(doc, score, reasons))
	}
	return rank(out, limit), nil
}

func excluded(doc *document.Document, tags map[string]bool, cats map[document.Category]bool) bool {
	if cats[doc.Category()] {
		return true
	}
	for _, t := range doc.Tags() {
		if tags[t] {
			return true
		}
	}
	return false
}

// rank sorts by descending score, ties in input order, then caps.
func rank(recs []recommendation.Recommendation, limit int) []recommendation.Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score() > recs[j].Score()
	})
	return recs[:domain.Cap(len(recs), limit)]
}

func toSet[T comparable](values []T) map[T]bool {
	set := make(map[T]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
