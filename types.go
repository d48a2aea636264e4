package ranker

import "time"

// Category is a document category.
type Category string

// Category constants.
const (
	CategoryIdeation      Category = "ideation"
	CategoryDocumentation Category = "documentation"
	CategoryAutomation    Category = "automation"
	CategoryRefactoring   Category = "refactoring"
	CategoryTesting       Category = "testing"
	CategoryDebugging     Category = "debugging"
	CategoryWorkflow      Category = "workflow"
	CategoryCommunication Category = "communication"
)

// SearchMode controls the ranking strategy.
type SearchMode string

// Search mode constants.
const (
	ModeIndex  SearchMode = "index"
	ModeField  SearchMode = "field"
	ModeHybrid SearchMode = "hybrid"
)

// Document is the unit being indexed and scored.
type Document struct {
	ID          string
	Title       string
	Description string
	Content     string
	Category    Category
	Tags        []string

	// Display-only; never scored.
	Author    string
	Version   string
	CreatedAt time.Time
	Featured  bool
}

// Match is a scored document with the fields that contributed to the score.
type Match struct {
	Document Document
	Score    float64
	Fields   []string
}

// Hit is an inverted-index result.
type Hit struct {
	ID    string
	Score float64
}

// Preferences is an explicit user preference profile for ForYou.
type Preferences struct {
	BoostTags         []string
	BoostCategories   []Category
	ExcludeTags       []string
	ExcludeCategories []Category
}

// Recommendation is a ranked suggestion with human-readable reasons.
type Recommendation struct {
	Document Document
	Score    float64
	Reasons  []string
}

// Duplicate is a near-duplicate candidate.
type Duplicate struct {
	Document   Document
	Similarity float64
	Score      float64
	Reason     string
}

// TagSuggestion is a tag proposed for a document.
type TagSuggestion struct {
	Tag   string
	Score float64
}

// ScoreOptions configures ScoreAll. The zero value scores every document
// against the query as typed.
type ScoreOptions struct {
	// Category and Tags filter docs before scoring.
	Category Category
	Tags     []string
	// ExpandSynonyms adds the engine's dictionary terms to the query.
	ExpandSynonyms bool
}

// SearchOptions configures Search. The zero value means index mode,
// the default limit and synonym expansion on.
type SearchOptions struct {
	Mode            SearchMode
	Category        Category
	Tags            []string
	Limit           int
	DisableSynonyms bool
}
