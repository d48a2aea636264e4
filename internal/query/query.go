// Package query holds the parsed form of a free-text query and the
// token-matching factors shared by the field scorer and the index.
package query

import (
	"strings"
	"unicode/utf8"

	"github.com/Dicklesworthstone/ranker/internal/analysis"
	"github.com/Dicklesworthstone/ranker/internal/synonym"
)

// Query is a tokenized query (immutable value object).
type Query struct {
	raw      string
	tokens   []string
	expanded []synonym.Term
	expander Expander
}

// Parse tokenizes raw. An empty or all-stopword raw string yields an empty query.
func Parse(raw string) Query {
	return Query{raw: raw, tokens: analysis.Tokenize(raw)}
}

// FromTokens builds a query from already tokenized input.
func FromTokens(tokens []string) Query {
	clean := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		clean = append(clean, t)
	}
	return Query{raw: strings.Join(clean, " "), tokens: clean}
}

// Expander resolves dictionary terms for typed tokens (*synonym.Table).
type Expander interface {
	Expand(tokens []string) synonym.Expansion
}

// Expand returns a copy carrying the expander's dictionary terms for the typed tokens.
func (q Query) Expand(e Expander) Query {
	if e == nil || len(q.tokens) == 0 {
		return q
	}
	q.expanded = e.Expand(q.tokens).Extra()
	q.expander = e
	return q
}

// Raw returns the original query text.
func (q Query) Raw() string { return q.raw }

// Tokens returns the typed tokens.
func (q Query) Tokens() []string { return q.tokens }

// Expanded returns dictionary-introduced terms (empty unless Expand was called).
func (q Query) Expanded() []synonym.Term { return q.expanded }

// IsEmpty reports whether the query has no typed tokens.
func (q Query) IsEmpty() bool { return len(q.tokens) == 0 }

// Word is one scoring unit: a typed token, or one part of a hyphenated token.
type Word struct {
	Text string
	// Token is the index of the typed token the word came from.
	Token    int
	PrefixOK bool
}

// Words splits hyphenated tokens into their parts so "robot-mode" and "robot mode"
// score alike. A part already produced by an earlier token is dropped. Prefix
// eligibility follows PrefixEligible, except that only the final part of a
// compound can be the tail of the query.
func (q Query) Words() []Word {
	words := make([]Word, 0, len(q.tokens))
	seen := make(map[string]bool, len(q.tokens))
	for i, tok := range q.tokens {
		parts := analysis.Parts(tok)
		for j, p := range parts {
			if seen[p] {
				continue
			}
			seen[p] = true
			tail := i == len(q.tokens)-1 && j == len(parts)-1
			words = append(words, Word{
				Text:     p,
				Token:    i,
				PrefixOK: utf8.RuneCountInString(p) <= MaxShortPrefix || tail,
			})
		}
	}
	return words
}

// Restrict parses raw as a new query, expanded with the same dictionary as q.
func (q Query) Restrict(raw string) Query {
	return Parse(raw).Expand(q.expander)
}

// PrefixEligible reports whether the i-th token may match as a prefix:
// short tokens anywhere, longer ones only at the tail of the query.
func (q Query) PrefixEligible(i int) bool {
	return utf8.RuneCountInString(q.tokens[i]) <= MaxShortPrefix || i == len(q.tokens)-1
}
