package index

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Dicklesworthstone/ranker/internal/analysis"
	"github.com/Dicklesworthstone/ranker/internal/domain"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	"github.com/Dicklesworthstone/ranker/internal/query"
)

// Flat bonuses on top of BM25, sized to the BM25 scale.
const (
	// AcronymBonus is added once to a document whose title or id initials equal the compact query.
	AcronymBonus = 5.0
	// IdentifierBonus is added when the query names a document identifier.
	IdentifierBonus = 50.0
	// maxPrefixTerms caps vocabulary expansion for one prefix token.
	maxPrefixTerms = 64
)

type variant struct {
	term   string
	factor float64
}

// Search ranks indexed documents for q. Results are sorted by descending
// score with ties in corpus order; only positive scores are returned.
// A zero limit returns every hit.
func (x *Index) Search(q query.Query, limit int) ([]result.Hit, error) {
	if err := domain.CheckLimit(limit); err != nil {
		return nil, err
	}
	if q.IsEmpty() || len(x.docs) == 0 {
		return []result.Hit{}, nil
	}

	scores := make([]float64, len(x.docs))

	for i, tok := range q.Tokens() {
		for doc, s := range x.tokenScores(tok, q.PrefixEligible(i)) {
			scores[doc] += s
		}
	}
	for _, term := range q.Expanded() {
		for _, p := range x.postings[term.Value] {
			scores[p.doc] += query.ExpandedFactor * x.bm25(term.Value, p)
		}
	}

	if compact := analysis.CompactQuery(q.Raw()); utf8.RuneCountInString(compact) >= 2 {
		for _, doc := range x.acronyms[compact] {
			scores[doc] += AcronymBonus
		}
	}
	if doc, ok := x.identifiers[analysis.NormalizeIdentifier(q.Raw())]; ok {
		scores[doc] += IdentifierBonus
	}

	hits := make([]result.Hit, 0)
	for pos, s := range scores {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			continue
		}
		hits = append(hits, result.NewHit(x.docs[pos].ID(), pos, s))
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score() > hits[j].Score()
	})
	return hits[:domain.Cap(len(hits), limit)], nil
}

// tokenScores returns the best per-document contribution of one typed token
// across its exact, prefix and fuzzy vocabulary variants.
func (x *Index) tokenScores(tok string, prefixOK bool) map[int]float64 {
	out := make(map[int]float64)
	for _, v := range x.variants(tok, prefixOK) {
		for _, p := range x.postings[v.term] {
			if s := v.factor * x.bm25(v.term, p); s > out[p.doc] {
				out[p.doc] = s
			}
		}
	}

	// A compound missing from a document still matches through its parts.
	parts := analysis.Parts(tok)
	if len(parts) < 2 {
		return out
	}
	partial := make(map[int]float64)
	for _, part := range parts {
		for _, p := range x.postings[part] {
			partial[p.doc] += x.bm25(part, p) / float64(len(parts))
		}
	}
	for doc, s := range partial {
		if s > out[doc] {
			out[doc] = s
		}
	}
	return out
}

// variants expands a token into vocabulary terms with their match factors.
// Fuzzy expansion only runs when neither an exact nor a prefix term exists.
func (x *Index) variants(tok string, prefixOK bool) []variant {
	var vs []variant
	if _, ok := x.postings[tok]; ok {
		vs = append(vs, variant{term: tok, factor: query.ExactFactor})
	}

	if prefixOK {
		start := sort.SearchStrings(x.vocab, tok)
		for i := start; i < len(x.vocab) && len(vs) <= maxPrefixTerms; i++ {
			term := x.vocab[i]
			if !strings.HasPrefix(term, tok) {
				break
			}
			if f := query.Prefix(tok, term); f > 0 {
				vs = append(vs, variant{term: term, factor: f})
			}
		}
	}
	if len(vs) > 0 {
		return vs
	}

	for _, term := range x.vocab {
		if f := query.Fuzzy(tok, term); f > 0 {
			vs = append(vs, variant{term: term, factor: f})
		}
	}
	return vs
}

func (x *Index) bm25(term string, p posting) float64 {
	avg := x.avgLen
	if avg <= 0 {
		avg = 1
	}
	k1, b := x.params.K1, x.params.B
	tf := float64(p.tf)
	norm := k1 * (1 - b + b*float64(x.lengths[p.doc])/avg)
	denom := tf + norm
	if denom <= 0 {
		return 0
	}
	return x.idf[term] * tf * (k1 + 1) / denom
}
