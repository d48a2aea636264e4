package recommendation

import "github.com/Dicklesworthstone/ranker/internal/domain/document"

// Preferences is an explicit user preference profile.
// A value present in both a boost and an exclude list is treated as excluded.
type Preferences struct {
	BoostTags         []string
	BoostCategories   []document.Category
	ExcludeTags       []string
	ExcludeCategories []document.Category
}

// IsEmpty reports whether no preference is set.
func (p Preferences) IsEmpty() bool {
	return len(p.BoostTags) == 0 && len(p.BoostCategories) == 0 &&
		len(p.ExcludeTags) == 0 && len(p.ExcludeCategories) == 0
}

// Profile combines behavioral signals (documents the user saved or viewed) with preferences.
type Profile struct {
	Signals     []*document.Document
	Preferences Preferences
}

// IsEmpty reports whether the profile carries no signal and no preference.
func (p Profile) IsEmpty() bool {
	return len(p.Signals) == 0 && p.Preferences.IsEmpty()
}

// Recommendation is one ranked suggestion with human-readable reasons.
type Recommendation struct {
	doc     *document.Document
	score   float64
	reasons []string
}

// New creates a recommendation.
func New(doc *document.Document, score float64, reasons []string) Recommendation {
	return Recommendation{doc: doc, score: score, reasons: reasons}
}

// Document returns the recommended document.
func (r *Recommendation) Document() *document.Document { return r.doc }

// Score returns the affinity score.
func (r *Recommendation) Score() float64 { return r.score }

// Reasons returns the explanation lines, e.g. "shares tags: go, cli".
func (r *Recommendation) Reasons() []string { return r.reasons }
