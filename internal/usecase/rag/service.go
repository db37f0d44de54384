// Package rag coordinates the query pipeline: retrieve, assemble, build
// the prompt, generate.
package rag

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kahwa-ai/brewrag/internal/domain"
	"github.com/kahwa-ai/brewrag/internal/metrics"
)

// State is the pipeline lifecycle state.
type State int32

const (
	// StateUninitialized means dependencies have not been verified yet.
	StateUninitialized State = iota
	// StateReady means all dependencies were reachable at the last check.
	StateReady
	// StateDegraded means a dependency check failed after initialization;
	// answers are still attempted per call.
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "uninitialized"
	}
}

// Fallback answers. Retrieval and generation failures produce distinct
// texts so the causes stay distinguishable downstream.
const (
	FallbackRetrieval  = "I can't search the product catalog right now. Please try again in a moment."
	FallbackGeneration = "I found relevant product information but couldn't compose an answer right now. Please try again in a moment."
	AnswerNoContext    = "I couldn't find any relevant product information for your question."
)

// dimensionProbe is the fixed text embedded once at startup to verify the
// model's output dimension.
const dimensionProbe = "dimension probe"

// Options holds pipeline tuning parameters.
type Options struct {
	Collection    string
	Dimensions    int
	ContextBudget int
	DefaultTopK   int
	MaxTopK       int
}

// Pipeline is the stateless query pipeline plus its lifecycle state. Safe
// for concurrent use: per-call data stays on the stack, the shared
// clients are concurrency-safe, and the state is a single atomic.
type Pipeline struct {
	retriever Retriever
	generator Generator
	embed     Embedder
	schema    SchemaEnsurer
	opts      Options
	state     atomic.Int32
	logger    *zap.Logger
}

// New creates an uninitialized pipeline. Call Initialize before Answer.
func New(
	retriever Retriever, generator Generator, embed Embedder,
	schema SchemaEnsurer, opts Options, logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		generator: generator,
		embed:     embed,
		schema:    schema,
		opts:      opts,
		logger:    logger,
	}
}

// Initialize bootstraps the schema and verifies that the configured
// embedding model produces vectors of the collection's dimension. A
// dimension mismatch is a configuration error: the pipeline must never
// reach Ready with an embedding space that differs from the index.
func (p *Pipeline) Initialize(ctx context.Context) error {
	if err := p.schema.EnsureSchema(ctx, p.opts.Collection, p.opts.Dimensions); err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}
		return fmt.Errorf("ensure schema: %w", err)
	}

	probe, err := p.embed.Embed(ctx, dimensionProbe)
	if err != nil {
		return fmt.Errorf("probe embedding provider: %w", err)
	}
	if len(probe.Embedding) != p.opts.Dimensions {
		return fmt.Errorf("%w: model produces %d dimensions, configured %d: %w",
			domain.ErrConfiguration, len(probe.Embedding), p.opts.Dimensions,
			domain.ErrDimensionMismatch)
	}

	p.state.Store(int32(StateReady))
	p.logger.Info("RAG pipeline ready",
		zap.String("collection", p.opts.Collection),
		zap.Int("dimensions", p.opts.Dimensions),
	)
	return nil
}

// Shutdown returns the pipeline to Uninitialized. Client teardown belongs
// to the composition root.
func (p *Pipeline) Shutdown() {
	p.state.Store(int32(StateUninitialized))
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// MarkDegraded records a failed dependency check. Answers are still
// attempted per call; only health reporting changes.
func (p *Pipeline) MarkDegraded() {
	p.state.CompareAndSwap(int32(StateReady), int32(StateDegraded))
}

// MarkReady records a recovered dependency check.
func (p *Pipeline) MarkReady() {
	p.state.CompareAndSwap(int32(StateDegraded), int32(StateReady))
}

// Answer runs the pipeline for one question. Stage failures in retrieval
// and generation are converted into fallback answers, never surfaced as
// errors: the contract is "always return an answer". Only invalid input
// returns an error (domain.ErrValidation). Stages run strictly in order
// within one call; concurrent calls are independent.
func (p *Pipeline) Answer(
	ctx context.Context, question string, filters domain.Metadata, topK int,
) (domain.Answer, error) {
	q, err := domain.NewQuery(question, filters, topK, p.opts.DefaultTopK, p.opts.MaxTopK)
	if err != nil {
		metrics.AnswersTotal.WithLabelValues(metrics.OutcomeValidationError).Inc()
		return domain.Answer{}, err
	}

	log := p.logger.With(zap.Int("top_k", q.TopK))

	start := time.Now()
	results, err := p.retriever.Retrieve(ctx, q)
	metrics.StageDuration.WithLabelValues("retrieve").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnswersTotal.WithLabelValues(metrics.OutcomeRetrievalFallback).Inc()
		log.Error("Retrieval failed, returning fallback answer", zap.Error(err))
		return domain.Answer{Text: FallbackRetrieval}, nil
	}

	if len(results) == 0 {
		// No grounding material: skip the metered generation call and say so.
		metrics.AnswersTotal.WithLabelValues(metrics.OutcomeNoContext).Inc()
		log.Info("No documents matched the question")
		return domain.Answer{Text: AnswerNoContext}, nil
	}

	assembled := Assemble(results, p.opts.ContextBudget)
	prompt := BuildPrompt(q.Question, assembled)

	start = time.Now()
	gen, err := p.generator.Generate(ctx, prompt)
	metrics.StageDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnswersTotal.WithLabelValues(metrics.OutcomeGenerationFallback).Inc()
		log.Error("Generation failed, returning fallback answer", zap.Error(err))
		return domain.Answer{
			Text:           FallbackGeneration,
			UsedContextIDs: assembled.DocumentIDs,
		}, nil
	}

	metrics.AnswersTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Debug("Answered question",
		zap.Int("context_documents", len(assembled.DocumentIDs)),
		zap.Int("generation_tokens", gen.TotalTokens),
	)

	return domain.Answer{
		Text:           gen.Text,
		UsedContextIDs: assembled.DocumentIDs,
	}, nil
}
