package domain

import "errors"

// Sentinel errors forming the pipeline error taxonomy.
var (
	// ErrValidation signals bad caller input (4xx-equivalent, no retry).
	ErrValidation = errors.New("invalid input")
	// ErrRetrieval signals that the vector store is unreachable or the query failed.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration signals a generative model failure (timeout, rate limit, empty response).
	ErrGeneration = errors.New("generation failed")
	// ErrIndexing signals a per-record indexing failure (skip-and-continue policy).
	ErrIndexing = errors.New("indexing failed")
	// ErrConfiguration signals a fatal startup misconfiguration.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDimensionMismatch signals an embedding dimension mismatch between
	// the configured model and the stored collection.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
