package indexer

import (
	"context"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// RecordSource supplies raw catalog records (the shop backend).
type RecordSource interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
	FetchReviews(ctx context.Context) []domain.Review
}

// Repository defines the storage contract for indexing.
type Repository interface {
	Upsert(ctx context.Context, collection string, doc domain.Document) error
	PruneExcept(ctx context.Context, collection string, keep []string) (int64, error)
	Count(ctx context.Context, collection string) (int, error)
}

// Embedder vectorizes document text before insertion.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
