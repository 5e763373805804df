package port

import "snaps/internal/domain"

type Chunker interface {
	Chunk(doc domain.Document) []domain.Chunk
}
