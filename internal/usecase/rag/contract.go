package rag

import (
	"context"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// Retriever returns the top-K most similar documents for a query.
type Retriever interface {
	Retrieve(ctx context.Context, q domain.Query) ([]domain.ScoredDocument, error)
}

// Generator produces the final answer text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}

// Embedder is used during initialization to probe the embedding
// dimension against the collection.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// SchemaEnsurer bootstraps the vector store schema for one collection.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context, collection string, dimensions int) error
}
