package retriever

import (
	"context"
	"strings"

	"snaps/internal/domain"
	"snaps/internal/port"
)

// SimilarityRetriever is a thin policy wrapper over the embedding index:
// plain top-k similarity search with a fixed k, no diversity reranking and no
// score threshold. Scores are dropped after ranking.
type SimilarityRetriever struct {
	index port.Index
	k     int
}

func NewSimilarityRetriever(index port.Index, k int) *SimilarityRetriever {
	if k <= 0 {
		k = 5
	}
	return &SimilarityRetriever{index: index, k: k}
}

func (r *SimilarityRetriever) Retrieve(ctx context.Context, query string) ([]domain.Chunk, error) {
	scored, err := r.index.Query(ctx, query, r.k)
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}

	chunks := make([]domain.Chunk, len(scored))
	for i, s := range scored {
		chunks[i] = s.Chunk
	}
	return chunks, nil
}

// JoinContext concatenates chunk contents in ranked order, separated by a
// blank line. Order and separator are part of the contract: they determine
// the composed prompt byte for byte.
func JoinContext(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n")
}
