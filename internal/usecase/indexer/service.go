// Package indexer transforms raw product and review records into
// embedded documents in the vector store.
package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kahwa-ai/brewrag/internal/domain"
	"github.com/kahwa-ai/brewrag/internal/metrics"
)

// Service runs full index passes: fetch records, derive documents, embed,
// upsert, prune what disappeared upstream.
type Service struct {
	source     RecordSource
	repo       Repository
	embed      Embedder
	collection string
	logger     *zap.Logger
}

// New creates an indexer service.
func New(source RecordSource, repo Repository, embed Embedder, collection string, logger *zap.Logger) *Service {
	return &Service{
		source:     source,
		repo:       repo,
		embed:      embed,
		collection: collection,
		logger:     logger,
	}
}

// Result summarizes one index pass.
type Result struct {
	Indexed int
	Skipped int
	Pruned  int64
}

// Reindex performs a full pass. Per-record embedding failures are skipped
// and counted, not fatal: indexing is not atomic across the batch. A
// skipped record keeps its previously indexed version, so the prune keep
// list covers every derived document, not only the freshly indexed ones.
// Storage failures abort the pass.
func (s *Service) Reindex(ctx context.Context) (Result, error) {
	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch products: %w", err)
	}
	reviews := s.source.FetchReviews(ctx)

	docs := BuildDocuments(products, reviews)
	s.logger.Info("Derived documents from backend records",
		zap.Int("products", len(products)),
		zap.Int("reviews", len(reviews)),
		zap.Int("documents", len(docs)),
	)

	var res Result
	keep := make([]string, 0, len(docs))

	for _, doc := range docs {
		keep = append(keep, doc.ID)

		embRes, err := s.embed.Embed(ctx, doc.Text)
		if err != nil {
			res.Skipped++
			metrics.DocumentsIndexedTotal.WithLabelValues("skipped").Inc()
			s.logger.Warn("Skipping record: embedding failed",
				zap.String("id", doc.ID),
				zap.Error(fmt.Errorf("%w: %w", domain.ErrIndexing, err)),
			)
			continue
		}
		doc.Vector = embRes.Embedding

		if err := s.repo.Upsert(ctx, s.collection, doc); err != nil {
			return res, fmt.Errorf("upsert %s: %w", doc.ID, err)
		}
		res.Indexed++
		metrics.DocumentsIndexedTotal.WithLabelValues("indexed").Inc()
	}

	if len(keep) > 0 {
		pruned, err := s.repo.PruneExcept(ctx, s.collection, keep)
		if err != nil {
			return res, fmt.Errorf("prune stale documents: %w", err)
		}
		res.Pruned = pruned
	}

	total, err := s.repo.Count(ctx, s.collection)
	if err != nil {
		s.logger.Warn("Failed to count documents after reindex", zap.Error(err))
	}

	s.logger.Info("Reindex complete",
		zap.Int("indexed", res.Indexed),
		zap.Int("skipped", res.Skipped),
		zap.Int64("pruned", res.Pruned),
		zap.Int("collection_size", total),
	)
	return res, nil
}
