package domain

import "context"

// Generator is the generative model contract. Implementations enforce
// their own timeout and return ErrGeneration-wrapped failures; callers do
// not retry.
type Generator interface {
	Generate(ctx context.Context, prompt string) (GenerationResult, error)
}

// GenerationResult carries the model answer and token usage.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
