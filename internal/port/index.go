package port

import (
	"context"

	"snaps/internal/domain"
)

// Index is a read-only nearest-neighbour view over the embedded corpus.
// Implementations are built once and safe for concurrent queries.
type Index interface {
	// Query embeds text with the index's embedder and returns the k most
	// similar chunks, ordered by descending score, ties stable in build
	// order. An empty index returns an empty result, not an error.
	Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)

	// Len returns the number of indexed chunks.
	Len() int
}
