package search

import (
	"sort"

	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges the index and field rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// Contributing fields are unioned; ties keep first-seen order (index list first).
// Every document is returned; the caller applies the limit.
func fuseRRF(indexed, fielded []result.Match) []result.Match {
	type scored struct {
		match  result.Match
		score  float64
		fields []string
	}

	merged := make(map[string]*scored, len(indexed)+len(fielded))
	order := make([]*scored, 0, len(indexed)+len(fielded))

	for _, list := range [][]result.Match{indexed, fielded} {
		for rank := range list {
			m := &list[rank]
			s := 1.0 / float64(rrfK+rank+1)
			if existing, ok := merged[m.ID()]; ok {
				existing.score += s
				existing.fields = unionFields(existing.fields, m.Fields())
				continue
			}
			entry := &scored{match: *m, score: s, fields: m.Fields()}
			merged[m.ID()] = entry
			order = append(order, entry)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	results := make([]result.Match, 0, len(order))
	for _, s := range order {
		results = append(results, result.NewMatch(s.match.Document(), s.score, s.fields))
	}
	return results
}

// unionFields merges two canonical-order field lists, keeping canonical order.
func unionFields(a, b []string) []string {
	has := make(map[string]bool, len(a)+len(b))
	for _, f := range a {
		has[f] = true
	}
	for _, f := range b {
		has[f] = true
	}
	out := make([]string, 0, len(has))
	for _, f := range []string{
		result.FieldID, result.FieldTitle, result.FieldDescription, result.FieldTags, result.FieldContent,
	} {
		if has[f] {
			out = append(out, f)
		}
	}
	return out
}
