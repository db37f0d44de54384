package domain

// Document is a retrievable text chunk derived from a product or a review.
// Documents are immutable once written; re-indexing the same external
// record replaces the prior document under the same ID.
type Document struct {
	ID       string
	Text     string
	Metadata Metadata
	Vector   []float32 // not exposed to clients
}

// ScoredDocument is a single retrieval hit. Higher score = more similar
// (cosine similarity, in [-1, 1]).
type ScoredDocument struct {
	Document
	Score float64
}

// Answer is the orchestrator's result. UsedContextIDs records which
// documents grounded the answer, for provenance and debugging.
type Answer struct {
	Text           string
	UsedContextIDs []string
}
