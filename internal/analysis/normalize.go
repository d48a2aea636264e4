package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks ("Café" -> "cafe").
func Fold(s string) string {
	if isASCII(s) {
		return strings.ToLower(s)
	}
	// transform chains keep internal state, so one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Words splits folded text into its alphanumeric words, hyphen compounds split into parts.
// Stopwords and single letters are kept so word positions stay contiguous.
func Words(text string) []string {
	return strings.FieldsFunc(Fold(text), isSeparator)
}

// NormalizeText folds text and collapses every separator run to one space.
// Substring matching runs on this form, so "robot-mode" and "robot mode" agree.
func NormalizeText(text string) string {
	return strings.Join(Words(text), " ")
}

// NormalizeIdentifier folds s and joins its words with single hyphens.
// Hyphens, underscores and whitespace are equivalent separators.
func NormalizeIdentifier(s string) string {
	return strings.Join(Words(s), "-")
}

// Initials returns the distinct initialisms of text: one over all words,
// one over non-stopword words. Texts with fewer than two words have none.
func Initials(text string) []string {
	words := Words(text)
	if len(words) < 2 {
		return nil
	}

	var all, content strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		all.WriteRune(r)
		if !IsStopword(w) {
			content.WriteRune(r)
		}
	}

	out := []string{all.String()}
	if c := content.String(); len(c) >= 2 && c != out[0] {
		out = append(out, c)
	}
	return out
}

// CompactQuery folds a raw query and removes every separator ("R.M.M" -> "rmm").
func CompactQuery(query string) string {
	return strings.Join(Words(query), "")
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
