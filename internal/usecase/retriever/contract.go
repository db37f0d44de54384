package retriever

import (
	"context"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// Repository defines the storage contract for similarity search.
type Repository interface {
	SearchKNN(
		ctx context.Context, collection string,
		vector []float32, filters domain.Metadata, topK int,
	) ([]domain.ScoredDocument, error)
}

// Embedder vectorizes the question text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
