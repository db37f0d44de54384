// Package retriever turns a question into the top-K most similar
// documents from the vector store.
package retriever

import (
	"context"
	"fmt"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// Service embeds the question and runs KNN search against one collection.
type Service struct {
	repo       Repository
	embed      Embedder
	collection string
}

// New creates a retriever service.
func New(repo Repository, embed Embedder, collection string) *Service {
	return &Service{repo: repo, embed: embed, collection: collection}
}

// Retrieve returns up to q.TopK documents ordered by descending
// similarity. Filters were validated when the query was constructed. An
// empty result is not an error; unreachable dependencies surface as
// domain.ErrRetrieval for the orchestrator's fallback handling.
func (s *Service) Retrieve(ctx context.Context, q domain.Query) ([]domain.ScoredDocument, error) {
	embRes, err := s.embed.Embed(ctx, q.Question)
	if err != nil {
		return nil, fmt.Errorf("%w: vectorize question: %w", domain.ErrRetrieval, err)
	}

	results, err := s.repo.SearchKNN(ctx, s.collection, embRes.Embedding, q.Filters, q.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: search knn: %w", domain.ErrRetrieval, err)
	}

	// The store already orders and limits; keep the guard cheap in case a
	// backend over-returns.
	if len(results) > q.TopK {
		results = results[:q.TopK]
	}
	return results, nil
}
