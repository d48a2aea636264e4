package analysis

// stopwords are removed from queries and indexed text.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"nor": true, "of": true, "to": true, "in": true, "on": true, "at": true,
	"for": true, "with": true, "by": true, "from": true, "into": true, "onto": true,
	"about": true, "as": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "am": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "if": true, "then": true,
	"than": true, "so": true, "too": true, "very": true, "can": true, "will": true,
	"just": true, "do": true, "does": true, "did": true, "have": true, "has": true,
	"had": true, "i": true, "me": true, "my": true, "we": true, "our": true,
	"you": true, "your": true, "he": true, "she": true, "they": true, "them": true,
	"their": true, "his": true, "her": true, "what": true, "which": true, "who": true,
	"whom": true, "when": true, "where": true, "why": true, "how": true, "all": true,
	"any": true, "each": true, "not": true, "no": true, "only": true, "own": true,
	"such": true, "some": true, "other": true, "here": true, "there": true,
	"while": true, "also": true, "via": true, "per": true,
}

// shortTokens are single-letter tokens that carry meaning in identifiers.
var shortTokens = map[string]bool{
	"c": true, "r": true, "v": true, "x": true, "k": true,
}

// IsStopword reports whether w (already folded) is a stopword.
func IsStopword(w string) bool {
	return stopwords[w]
}
