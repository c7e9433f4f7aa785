package port

import "context"

// LLM represents a language model for text generation.
type LLM interface {
	// Generate produces a completion for the system/user message pair.
	Generate(ctx context.Context, system, user string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
