package port

import (
	"context"

	"snaps/internal/domain"
)

// Retriever returns the chunks most relevant to a query, ranked, scores
// already dropped.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.Chunk, error)
}
