package chunker

import (
	"fmt"

	"snaps/internal/domain"
)

// CharChunker splits document content into fixed-size, overlapping character
// windows. Offsets are counted in runes so multi-byte text chunks cleanly.
type CharChunker struct {
	size    int
	overlap int
}

// NewCharChunker creates a chunker with the given window size and overlap,
// both in characters. Overlap must be strictly less than size; this is a
// configuration invariant checked at startup.
func NewCharChunker(size, overlap int) (*CharChunker, error) {
	if size <= 0 {
		return nil, &domain.ConfigError{Field: "chunking.size", Err: fmt.Errorf("must be positive, got %d", size)}
	}
	if overlap < 0 || overlap >= size {
		return nil, &domain.ConfigError{Field: "chunking.overlap", Err: fmt.Errorf("overlap %d must be in [0, %d)", overlap, size)}
	}
	return &CharChunker{size: size, overlap: overlap}, nil
}

// Chunk scans the document left to right, emitting a window of at most size
// characters and advancing the start by (size - overlap) each step. The final
// chunk may be shorter than size. A document shorter than the window yields
// exactly one chunk covering the whole content. Each chunk records its start
// offset relative to the document.
func (c *CharChunker) Chunk(doc domain.Document) []domain.Chunk {
	runes := []rune(doc.Content)
	if len(runes) == 0 {
		return nil
	}

	if len(runes) <= c.size {
		return []domain.Chunk{{
			Content:    doc.Content,
			Source:     doc.Source,
			StartIndex: 0,
		}}
	}

	step := c.size - c.overlap
	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Content:    string(runes[start:end]),
			Source:     doc.Source,
			StartIndex: start,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// ChunkAll chunks a sequence of documents in order.
func (c *CharChunker) ChunkAll(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, c.Chunk(doc)...)
	}
	return chunks
}
