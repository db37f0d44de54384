package domain

import (
	"fmt"
	"strings"
)

// Query is one retrieval request: a question plus optional exact-match
// metadata filters and a result limit. Transient, one per request.
type Query struct {
	Question string
	Filters  Metadata
	TopK     int
}

// NewQuery validates and constructs a query. topK <= 0 falls back to
// defaultTopK; topK above maxTopK is an error, not a silent clamp.
func NewQuery(question string, filters Metadata, topK, defaultTopK, maxTopK int) (Query, error) {
	if strings.TrimSpace(question) == "" {
		return Query{}, fmt.Errorf("%w: question must not be empty", ErrValidation)
	}
	if err := ValidateFilters(filters); err != nil {
		return Query{}, err
	}
	if topK <= 0 {
		topK = defaultTopK
	}
	if topK > maxTopK {
		return Query{}, fmt.Errorf("%w: top_k %d exceeds maximum %d", ErrValidation, topK, maxTopK)
	}
	return Query{Question: question, Filters: filters, TopK: topK}, nil
}
