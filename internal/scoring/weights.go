package scoring

import (
	"fmt"
	"math"
)

// Flat bonuses added once per document.
const (
	// AcronymBonus is added per field (id, title, description, tags) whose initials equal the compact query.
	AcronymBonus = 8.0
	// IdentifierBoost is the minimum boost when the query names the document identifier.
	IdentifierBoost = 100.0
	// PhraseBonus is scaled by the share of query words matched contiguously.
	PhraseBonus = 6.0
	// CoverageMultiplier applies when every typed token of a multi-token query matched.
	CoverageMultiplier = 1.2
)

// Weights are the relative field weights.
type Weights struct {
	Title       float64
	ID          float64
	Tags        float64
	Description float64
	Content     float64
}

// DefaultWeights returns the reference configuration.
func DefaultWeights() Weights {
	return Weights{Title: 10, ID: 9, Tags: 6, Description: 4, Content: 1.5}
}

// Validate checks that every weight is finite and non-negative, and at least one is positive.
func (w Weights) Validate() error {
	all := map[string]float64{
		"title": w.Title, "id": w.ID, "tags": w.Tags,
		"description": w.Description, "content": w.Content,
	}
	positive := false
	for name, v := range all {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("weight %s must be a finite non-negative number, got %v", name, v)
		}
		if v > 0 {
			positive = true
		}
	}
	if !positive {
		return fmt.Errorf("at least one field weight must be positive")
	}
	return nil
}
