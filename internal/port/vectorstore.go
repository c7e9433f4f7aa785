package port

import (
	"context"

	"aria/internal/domain"
)

// VectorStore stores and searches embedding vectors in named collections.
// All collections use cosine similarity.
type VectorStore interface {
	// EnsureCollection creates the collection if absent. Idempotent.
	EnsureCollection(ctx context.Context, name string, dimension int) error

	// Upsert inserts or overwrites points by ID. No partial updates.
	Upsert(ctx context.Context, collection string, points []domain.Point) error

	// Search returns up to limit nearest neighbors, highest score first.
	Search(ctx context.Context, collection string, vector domain.Vector, limit int) ([]domain.SearchHit, error)

	// Scroll returns up to limit points in backend-defined order.
	Scroll(ctx context.Context, collection string, limit int) ([]domain.Point, error)
}
