package scoring

import (
	"strings"

	"github.com/Dicklesworthstone/ranker/internal/analysis"
	"github.com/Dicklesworthstone/ranker/internal/domain/document"
	"github.com/Dicklesworthstone/ranker/internal/domain/search/result"
	"github.com/Dicklesworthstone/ranker/internal/query"
)

// fieldView is one document field prepared for matching.
type fieldView struct {
	name      string
	weight    float64
	words     []string
	wordSet   map[string]bool
	compounds []string
	text      string
	// substringOnly fields skip token-aligned strategies.
	substringOnly bool
}

func newFieldView(name string, weight float64, texts ...string) fieldView {
	f := fieldView{name: name, weight: weight, wordSet: map[string]bool{}}
	normalized := make([]string, 0, len(texts))
	for _, t := range texts {
		f.words = append(f.words, analysis.Words(t)...)
		for _, tok := range analysis.Tokenize(t) {
			if strings.Contains(tok, "-") {
				f.compounds = append(f.compounds, tok)
			}
		}
		normalized = append(normalized, analysis.NormalizeText(t))
	}
	for _, w := range f.words {
		f.wordSet[w] = true
	}
	f.text = strings.Join(normalized, " ")
	return f
}

// views returns the scored fields of doc in canonical order.
func (s *Scorer) views(doc *document.Document) []fieldView {
	content := fieldView{
		name:          result.FieldContent,
		weight:        s.weights.Content,
		text:          analysis.NormalizeText(doc.Content()),
		substringOnly: true,
	}
	return []fieldView{
		newFieldView(result.FieldID, s.weights.ID, doc.ID()),
		newFieldView(result.FieldTitle, s.weights.Title, doc.Title()),
		newFieldView(result.FieldDescription, s.weights.Description, doc.Description()),
		newFieldView(result.FieldTags, s.weights.Tags, doc.Tags()...),
		content,
	}
}

// exact: the term is a field word, a field compound, or its parts appear contiguously.
func (f *fieldView) exact(term string, parts []string) bool {
	if len(parts) <= 1 {
		return f.wordSet[term]
	}
	for _, c := range f.compounds {
		if c == term {
			return true
		}
	}
	return hasRun(f.words, parts)
}

func (f *fieldView) substring(token string) bool {
	needle := strings.ReplaceAll(token, "-", " ")
	return needle != "" && strings.Contains(f.text, needle)
}

// best returns the highest factor over all strategies for one query word.
func (f *fieldView) best(word string, prefixOK bool) float64 {
	if f.weight == 0 {
		return 0
	}
	if f.substringOnly {
		if f.substring(word) {
			return query.SubstringFactor
		}
		return 0
	}
	if f.wordSet[word] {
		return query.ExactFactor
	}

	best := 0.0
	for _, w := range f.words {
		if prefixOK {
			best = max(best, query.Prefix(word, w))
		}
		best = max(best, query.Fuzzy(word, w))
	}
	if best == 0 && f.substring(word) {
		best = query.SubstringFactor
	}
	return best
}

// expanded returns the factor for a dictionary term: exact or substring only.
func (f *fieldView) expanded(term string) float64 {
	if f.weight == 0 {
		return 0
	}
	if !f.substringOnly && f.exact(term, analysis.Parts(term)) {
		return query.ExactFactor * query.ExpandedFactor
	}
	if f.substring(term) {
		return query.SubstringFactor * query.ExpandedFactor
	}
	return 0
}

// wordMatch reports whether a single query word hits one field word.
func wordMatch(qw, w string, prefixOK bool) bool {
	if qw == w {
		return true
	}
	if prefixOK && query.Prefix(qw, w) > 0 {
		return true
	}
	return query.Fuzzy(qw, w) > 0
}

func hasRun(words, parts []string) bool {
	if len(parts) == 0 || len(parts) > len(words) {
		return false
	}
outer:
	for i := 0; i+len(parts) <= len(words); i++ {
		for j, p := range parts {
			if words[i+j] != p {
				continue outer
			}
		}
		return true
	}
	return false
}
