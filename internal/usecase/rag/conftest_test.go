package rag

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// --- Mocks ---

type mockRetriever struct {
	results []domain.ScoredDocument
	err     error
	calls   int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ domain.Query) ([]domain.ScoredDocument, error) {
	m.calls++
	return m.results, m.err
}

type mockGenerator struct {
	text       string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (domain.GenerationResult, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return domain.GenerationResult{Text: m.text, TotalTokens: 42}, nil
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockSchema struct {
	err    error
	called bool
}

func (m *mockSchema) EnsureSchema(_ context.Context, _ string, _ int) error {
	m.called = true
	return m.err
}

func scored(id, text string, score float64) domain.ScoredDocument {
	return domain.ScoredDocument{
		Document: domain.Document{ID: id, Text: text},
		Score:    score,
	}
}

func testOptions() Options {
	return Options{
		Collection:    "products_reviews",
		Dimensions:    4,
		ContextBudget: 6000,
		DefaultTopK:   10,
		MaxTopK:       50,
	}
}

func newTestPipeline(
	t *testing.T, ret *mockRetriever, gen *mockGenerator,
) *Pipeline {
	t.Helper()
	p := New(ret, gen, &mockEmbedder{vec: []float32{0.1, 0.2, 0.3, 0.4}}, &mockSchema{}, testOptions(), zap.NewNop())
	if err := p.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return p
}
