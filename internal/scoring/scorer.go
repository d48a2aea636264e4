// Package scoring is the reference field-weighted scorer: one document, one query,
// an explainable score built from per-field token matches.
package scoring

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Dicklesworthstone/ranker/internal/analysis"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/filter"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	"github.com/Dicklesworthstone/ranker/internal/query"
)

// Scorer scores documents against queries. Stateless after construction; safe for concurrent use.
type Scorer struct {
	weights Weights
}

// New creates a scorer with the given field weights.
func New(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the configured field weights.
func (s *Scorer) Weights() Weights { return s.weights }

// ScoreDocument scores one document. The bool is false for "no match".
func (s *Scorer) ScoreDocument(doc *document.Document, q query.Query) (result.Match, bool) {
	if doc == nil || q.IsEmpty() {
		return result.Match{}, false
	}

	views := s.views(doc)
	contributed := make(map[string]bool, len(views))
	score := s.score(doc, views, q, contributed)
	if analysis.NormalizeIdentifier(q.Raw()) == analysis.NormalizeIdentifier(doc.ID()) {
		score += s.identifierBoost(doc, views, q, score)
		contributed[result.FieldID] = true
	}

	if score <= 0 || math.IsNaN(score) || math.IsInf(score, 0) {
		return result.Match{}, false
	}
	return result.NewMatch(doc, score, orderedFields(views, contributed)), true
}

// score sums token, synonym, coverage, phrase and acronym signals.
func (s *Scorer) score(doc *document.Document, views []fieldView, q query.Query, contributed map[string]bool) float64 {
	words := q.Words()
	matched := make([]bool, len(words))

	sum := 0.0
	for wi, w := range words {
		for fi := range views {
			f := &views[fi]
			factor := f.best(w.Text, w.PrefixOK)
			if factor == 0 {
				continue
			}
			sum += f.weight * factor
			contributed[f.name] = true
			matched[wi] = true
		}
	}

	origin := make(map[string]int, len(q.Tokens()))
	for i, tok := range q.Tokens() {
		origin[tok] = i
	}
	for _, term := range q.Expanded() {
		for fi := range views {
			f := &views[fi]
			factor := f.expanded(term.Value)
			if factor == 0 {
				continue
			}
			sum += f.weight * factor
			contributed[f.name] = true
			if i, ok := origin[term.Origin]; ok {
				for wi := range words {
					if words[wi].Token == i {
						matched[wi] = true
					}
				}
			}
		}
	}

	score := sum
	if len(words) > 1 && all(matched) {
		score *= CoverageMultiplier
	}
	score += s.phrase(views, words)
	score += s.acronym(doc, q, contributed)
	return score
}

// identifierBoost is at least IdentifierBoost and large enough that the full
// identifier scores above three times any contiguous run of its words.
func (s *Scorer) identifierBoost(doc *document.Document, views []fieldView, q query.Query, base float64) float64 {
	parts := analysis.Words(doc.ID())
	best := 0.0
	for n := 1; n < len(parts); n++ {
		for i := 0; i+n <= len(parts); i++ {
			sub := q.Restrict(strings.Join(parts[i:i+n], " "))
			if sub.IsEmpty() {
				continue
			}
			best = max(best, s.score(doc, views, sub, map[string]bool{}))
		}
	}
	return IdentifierBoost + max(0, 3*best-base)
}

// ScoreAll filters docs, scores the rest, and returns matches by descending
// score with ties in input order.
func (s *Scorer) ScoreAll(docs []document.Document, q query.Query, f filter.Filter) []result.Match {
	matches := make([]result.Match, 0)
	if q.IsEmpty() {
		return matches
	}
	for i := range docs {
		doc := &docs[i]
		if !f.Matches(doc) {
			continue
		}
		if m, ok := s.ScoreDocument(doc, q); ok {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score() > matches[j].Score()
	})
	return matches
}

// phrase rewards the longest run of query words found at consecutive positions in one field.
func (s *Scorer) phrase(views []fieldView, words []query.Word) float64 {
	if len(words) < 2 {
		return 0
	}

	longest := 0
	for fi := range views {
		f := &views[fi]
		if f.substringOnly || f.weight == 0 || len(f.words) < 2 {
			continue
		}
		prev := make([]int, len(f.words))
		for i, qw := range words {
			cur := make([]int, len(f.words))
			for p, w := range f.words {
				if !wordMatch(qw.Text, w, qw.PrefixOK) {
					continue
				}
				cur[p] = 1
				if i > 0 && p > 0 {
					cur[p] += prev[p-1]
				}
				longest = max(longest, cur[p])
			}
			prev = cur
		}
	}
	if longest < 2 {
		return 0
	}
	return PhraseBonus * float64(longest) / float64(len(words))
}

// acronym compares the compacted raw query with the initials of each word field.
// Content is excluded: it is matched by substring only.
func (s *Scorer) acronym(doc *document.Document, q query.Query, contributed map[string]bool) float64 {
	compact := analysis.CompactQuery(q.Raw())
	if utf8.RuneCountInString(compact) < 2 {
		return 0
	}
	bonus := 0.0
	for _, f := range []struct {
		name   string
		texts  []string
		weight float64
	}{
		{result.FieldID, []string{doc.ID()}, s.weights.ID},
		{result.FieldTitle, []string{doc.Title()}, s.weights.Title},
		{result.FieldDescription, []string{doc.Description()}, s.weights.Description},
		{result.FieldTags, doc.Tags(), s.weights.Tags},
	} {
		if f.weight == 0 || !initialsMatch(f.texts, compact) {
			continue
		}
		bonus += AcronymBonus
		contributed[f.name] = true
	}
	return bonus
}

func initialsMatch(texts []string, compact string) bool {
	for _, t := range texts {
		for _, initials := range analysis.Initials(t) {
			if initials == compact {
				return true
			}
		}
	}
	return false
}

func orderedFields(views []fieldView, contributed map[string]bool) []string {
	fields := make([]string, 0, len(contributed))
	for _, v := range views {
		if contributed[v.name] {
			fields = append(fields, v.name)
		}
	}
	return fields
}

func all(flags []bool) bool {
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}
