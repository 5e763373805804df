package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"snaps/internal/domain"
	"snaps/internal/port"
)

// MemoryIndex holds one embedding vector per chunk and answers top-k cosine
// similarity queries by brute force. The index is built once per corpus
// version and read-only afterwards, so concurrent queries need no locking.
type MemoryIndex struct {
	embedder port.Embedder
	chunks   []domain.Chunk
	vectors  [][]float32
	built    bool
}

func NewMemoryIndex(embedder port.Embedder) *MemoryIndex {
	return &MemoryIndex{embedder: embedder}
}

// Build embeds all chunks and freezes the index. Batches are embedded in
// parallel but written into a pre-sized slice at their batch offset, so the
// merged result preserves original chunk order regardless of completion
// order. progress may be nil.
func (ix *MemoryIndex) Build(ctx context.Context, chunks []domain.Chunk, batchSize int, progress func(done, total int)) error {
	if ix.built {
		return errors.New("index already built; entries are write-once per build")
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	vectors := make([][]float32, len(chunks))

	type batch struct {
		start, end int
	}
	var batches []batch
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, batch{start: i, end: end})
	}

	const maxInFlight = 4
	sem := make(chan struct{}, maxInFlight)
	errCh := make(chan error, len(batches))

	var mu sync.Mutex
	done := 0

	var wg sync.WaitGroup
	for _, b := range batches {
		wg.Add(1)
		sem <- struct{}{}
		go func(b batch) {
			defer wg.Done()
			defer func() { <-sem }()

			texts := make([]string, b.end-b.start)
			for i := b.start; i < b.end; i++ {
				texts[i-b.start] = chunks[i].Content
			}

			embedded, err := ix.embedder.Embed(ctx, texts)
			if err != nil {
				errCh <- fmt.Errorf("embed batch [%d:%d]: %w", b.start, b.end, err)
				return
			}
			if len(embedded) != len(texts) {
				errCh <- fmt.Errorf("embed batch [%d:%d]: got %d vectors for %d texts", b.start, b.end, len(embedded), len(texts))
				return
			}
			copy(vectors[b.start:b.end], embedded)

			mu.Lock()
			done += len(texts)
			if progress != nil {
				progress(done, len(chunks))
			}
			mu.Unlock()
			errCh <- nil
		}(b)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}

	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("chunk %d: empty embedding", i)
		}
	}

	ix.chunks = chunks
	ix.vectors = vectors
	ix.built = true
	return nil
}

// Query embeds text with the index's embedder and returns the k most similar
// chunks, ordered descending by score. Ties keep original chunk order.
// An empty index returns an empty result rather than an error.
func (ix *MemoryIndex) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	if len(ix.chunks) == 0 {
		return nil, nil
	}
	if k <= 0 {
		return nil, nil
	}

	embedded, err := ix.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embedded) == 0 {
		return nil, errors.New("embedder returned no vector for query")
	}
	query := embedded[0]

	scored := make([]domain.ScoredChunk, len(ix.chunks))
	for i := range ix.chunks {
		scored[i] = domain.ScoredChunk{
			Chunk: ix.chunks[i],
			Score: cosineSimilarity(query, ix.vectors[i]),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Len returns the number of indexed chunks.
func (ix *MemoryIndex) Len() int {
	return len(ix.chunks)
}

// ModelName returns the name of the embedding model behind the index.
func (ix *MemoryIndex) ModelName() string {
	return ix.embedder.ModelName()
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
