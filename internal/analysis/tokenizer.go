// Package analysis turns raw text into normalized tokens and field word sequences.
package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize normalizes text into an ordered, deduplicated token sequence.
//
// Text is folded to lowercase without diacritics and split on whitespace and punctuation.
// Internal hyphens are kept ("idea-wizard" is one token); leading, trailing and repeated
// hyphens are not. Stopwords and tokens shorter than two runes (outside the short
// allow-list) are dropped. Order is first occurrence. Empty or all-stopword input
// yields an empty slice.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(Fold(text), isTokenSeparator)
	if len(raw) == 0 {
		return []string{}
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		tok := cleanHyphens(r)
		if tok == "" || seen[tok] || !keep(tok) {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Terms is Tokenize without deduplication, for term-frequency counting.
// Hyphen compounds are emitted followed by their kept parts, so both
// "idea-wizard" and "wizard" are indexed.
func Terms(text string) []string {
	raw := strings.FieldsFunc(Fold(text), isTokenSeparator)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		tok := cleanHyphens(r)
		if tok == "" || !keep(tok) {
			continue
		}
		out = append(out, tok)
		if !strings.Contains(tok, "-") {
			continue
		}
		for _, p := range Parts(tok) {
			if keep(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// Parts splits a hyphenated token into its words. Plain tokens return themselves.
func Parts(token string) []string {
	if !strings.Contains(token, "-") {
		return []string{token}
	}
	return strings.FieldsFunc(token, func(r rune) bool { return r == '-' })
}

func keep(tok string) bool {
	if IsStopword(tok) {
		return false
	}
	if utf8.RuneCountInString(tok) < 2 {
		return shortTokens[tok]
	}
	return true
}

// cleanHyphens trims edge hyphens and collapses hyphen runs.
func cleanHyphens(s string) string {
	s = strings.Trim(s, "-")
	if !strings.Contains(s, "--") {
		return s
	}
	var b strings.Builder
	prev := false
	for _, r := range s {
		if r == '-' {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isTokenSeparator(r rune) bool {
	return r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
