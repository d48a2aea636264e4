package ranker

import "github.com/Dicklesworthstone/ranker/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidLimit      = domain.ErrInvalidLimit
	ErrInvalidDimensions = domain.ErrInvalidDimensions
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrInvalidDocument   = domain.ErrInvalidDocument
	ErrDocumentNotFound  = domain.ErrDocumentNotFound
	ErrIndexNotBuilt     = domain.ErrIndexNotBuilt
)
