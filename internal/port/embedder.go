package port

import (
	"context"

	"aria/internal/domain"
)

// Embedder generates a vector embedding for a single text.
type Embedder interface {
	// Embed returns the embedding for text. Fails on empty input or
	// upstream errors; callers must not retry.
	Embed(ctx context.Context, text string) (domain.Vector, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
