package chi

import (
	"context"

	"github.com/kahwa-ai/brewrag/internal/domain"
	"github.com/kahwa-ai/brewrag/internal/usecase/health"
	"github.com/kahwa-ai/brewrag/internal/usecase/indexer"
	"github.com/kahwa-ai/brewrag/internal/usecase/rag"
)

// Pipeline answers questions and exposes its lifecycle state.
type Pipeline interface {
	Answer(ctx context.Context, question string, filters domain.Metadata, topK int) (domain.Answer, error)
	State() rag.State
	MarkDegraded()
	MarkReady()
}

// Indexer runs full index passes on demand.
type Indexer interface {
	Reindex(ctx context.Context) (indexer.Result, error)
}

// HealthService aggregates dependency health checks.
type HealthService interface {
	Check(ctx context.Context) health.Report
}
