package indexer

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// --- Mocks ---

type mockSource struct {
	products []domain.Product
	reviews  []domain.Review
	err      error
}

func (m *mockSource) FetchProducts(_ context.Context) ([]domain.Product, error) {
	return m.products, m.err
}

func (m *mockSource) FetchReviews(_ context.Context) []domain.Review {
	return m.reviews
}

type mockRepo struct {
	upserted  map[string]domain.Document
	upsertErr error
	pruneKeep []string
	pruneErr  error
	pruned    int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{upserted: make(map[string]domain.Document)}
}

func (m *mockRepo) Upsert(_ context.Context, _ string, doc domain.Document) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted[doc.ID] = doc
	return nil
}

func (m *mockRepo) PruneExcept(_ context.Context, _ string, keep []string) (int64, error) {
	m.pruneKeep = keep
	return m.pruned, m.pruneErr
}

func (m *mockRepo) Count(_ context.Context, _ string) (int, error) {
	return len(m.upserted), nil
}

type mockEmbedder struct {
	vec   []float32
	errOn map[string]error // keyed by text substring match is overkill; exact text
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if err, ok := m.errOn[text]; ok {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 3}, nil
}

func newTestService(t *testing.T, src *mockSource, repo *mockRepo, emb *mockEmbedder) *Service {
	t.Helper()
	return New(src, repo, emb, "products_reviews", zap.NewNop())
}

func testProduct(id int64, name string) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Description: "test description",
		Price:       99,
		Category:    "beans",
	}
}
