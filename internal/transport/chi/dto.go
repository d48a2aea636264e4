package chi

import "time"

// ErrorCode is the machine-readable error identifier in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeInvalidLimit     ErrorCode = "invalid_limit"
	ErrorCodeInvalidDocument  ErrorCode = "invalid_document"
	ErrorCodeDocumentNotFound ErrorCode = "document_not_found"
	ErrorCodeIndexNotBuilt    ErrorCode = "index_not_built"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// DocumentSummary is a document as returned in result lists.
type DocumentSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Author      string     `json:"author,omitempty"`
	Version     string     `json:"version,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	Featured    bool       `json:"featured,omitempty"`
}

// SearchResultItem is one ranked search hit.
type SearchResultItem struct {
	Document DocumentSummary `json:"document"`
	Score    float64         `json:"score"`
	Fields   []string        `json:"matched_fields"`
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Query string             `json:"query"`
	Mode  string             `json:"mode"`
	Items []SearchResultItem `json:"items"`
	Limit int                `json:"limit"`
	Total int                `json:"total"`
}

// RecommendationItem is one recommended document.
type RecommendationItem struct {
	Document DocumentSummary `json:"document"`
	Score    float64         `json:"score"`
	Reasons  []string        `json:"reasons"`
}

// RecommendationListResponse wraps recommendation results.
type RecommendationListResponse struct {
	Items []RecommendationItem `json:"items"`
	Total int                  `json:"total"`
}

// PreferencesRequest is an explicit preference profile.
type PreferencesRequest struct {
	BoostTags         []string `json:"boost_tags" validate:"max=32,dive,required"`
	BoostCategories   []string `json:"boost_categories" validate:"max=8,dive,required"`
	ExcludeTags       []string `json:"exclude_tags" validate:"max=32,dive,required"`
	ExcludeCategories []string `json:"exclude_categories" validate:"max=8,dive,required"`
}

// RecommendationsRequest is the body of POST /api/v1/recommendations.
type RecommendationsRequest struct {
	Signals     []string           `json:"signals" validate:"max=256,dive,required"`
	Preferences PreferencesRequest `json:"preferences"`
	Limit       int                `json:"limit" validate:"min=0"`
}

// DuplicateItem is one near-duplicate candidate.
type DuplicateItem struct {
	Document   DocumentSummary `json:"document"`
	Similarity float64         `json:"similarity"`
	Score      float64         `json:"score"`
	Reason     string          `json:"reason"`
}

// DuplicateListResponse wraps near-duplicate results.
type DuplicateListResponse struct {
	ID        string          `json:"id"`
	Threshold float64         `json:"threshold"`
	Items     []DuplicateItem `json:"items"`
}

// TagSuggestionItem is one suggested tag.
type TagSuggestionItem struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

// TagSuggestionResponse wraps tag suggestions.
type TagSuggestionResponse struct {
	ID    string              `json:"id"`
	Items []TagSuggestionItem `json:"items"`
}

// ExpandRequest is the body of POST /api/v1/expand.
type ExpandRequest struct {
	Tokens []string `json:"tokens" validate:"required,max=64,dive,required"`
}

// ExpandResponse lists the typed tokens followed by their synonyms.
type ExpandResponse struct {
	Tokens []string `json:"tokens"`
}

// EmbedRequest is the body of POST /api/v1/embed.
type EmbedRequest struct {
	Text string `json:"text" validate:"max=65536"`
	Dims int    `json:"dims" validate:"min=0,max=4096"`
}

// EmbedResponse carries a hash embedding.
type EmbedResponse struct {
	Dims      int       `json:"dims"`
	Embedding []float32 `json:"embedding"`
}

// RebuildResponse describes a freshly published index.
type RebuildResponse struct {
	Generation uint64 `json:"generation"`
	Documents  int    `json:"documents"`
	Terms      int    `json:"terms"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks"`
	Documents int               `json:"documents"`
}
