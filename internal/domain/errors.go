package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLimit signals a negative result limit.
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrInvalidDimensions signals a non-positive embedding dimensionality.
	ErrInvalidDimensions = errors.New("invalid embedding dimensions")
	// ErrInvalidRequest signals a malformed query request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidDocument signals a document that violates the data model.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrIndexNotBuilt signals a query against a repository with no published index.
	ErrIndexNotBuilt = errors.New("index not built")
)

// LimitError wraps ErrInvalidLimit with the rejected value.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %d (must be >= 0)", ErrInvalidLimit.Error(), e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrInvalidLimit }

// CheckLimit returns a LimitError for negative limits.
func CheckLimit(limit int) error {
	if limit < 0 {
		return &LimitError{Limit: limit}
	}
	return nil
}

// Cap truncates n results to limit. A zero limit keeps everything.
func Cap(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}
