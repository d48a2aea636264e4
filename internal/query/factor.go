package query

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Match factors relative to a field weight.
const (
	ExactFactor     = 1.0
	SubstringFactor = 0.2
	// ExpandedFactor discounts terms reached only through the synonym table.
	ExpandedFactor = 0.5

	prefixBase  = 0.3
	prefixSlope = 0.65
	fuzzyScale  = 0.7

	// MaxShortPrefix is the longest token that may prefix-match mid-query.
	MaxShortPrefix = 3
	minFuzzyLen    = 4
	twoEditLen     = 7
)

// PrefixFactor scores a strict prefix proportionally to completion.
// It is always above SubstringFactor and below ExactFactor.
func PrefixFactor(tokenLen, wordLen int) float64 {
	if wordLen <= 0 || tokenLen >= wordLen {
		return 0
	}
	return prefixBase + prefixSlope*float64(tokenLen)/float64(wordLen)
}

// MaxEdits is the fuzzy tolerance for a token of n runes.
func MaxEdits(n int) int {
	switch {
	case n >= twoEditLen:
		return 2
	case n >= minFuzzyLen:
		return 1
	default:
		return 0
	}
}

// Fuzzy returns the fuzzy factor of token against word, or 0 when the
// edit distance is zero or exceeds the token's tolerance.
func Fuzzy(token, word string) float64 {
	tl, wl := utf8.RuneCountInString(token), utf8.RuneCountInString(word)
	edits := MaxEdits(tl)
	if edits == 0 || abs(tl-wl) > edits {
		return 0
	}
	dist := levenshtein.ComputeDistance(token, word)
	if dist == 0 || dist > edits {
		return 0
	}
	similarity := 1 - float64(dist)/float64(max(tl, wl))
	return fuzzyScale * (prefixBase + prefixSlope*similarity)
}

// Prefix returns the prefix factor of token against word, or 0 when token
// is not a strict prefix.
func Prefix(token, word string) float64 {
	if len(token) >= len(word) || word[:len(token)] != token {
		return 0
	}
	return PrefixFactor(utf8.RuneCountInString(token), utf8.RuneCountInString(word))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
