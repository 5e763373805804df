package usecase

import (
	"context"

	"snaps/internal/adapter/index"
	"snaps/internal/domain"
	"snaps/internal/port"
)

// IngestUseCase builds the embedding index from a style-guide corpus:
// load -> chunk -> embed -> freeze. This runs once, offline or at startup;
// request handling only ever reads the result.
type IngestUseCase struct {
	loader    port.Loader
	chunker   port.Chunker
	batchSize int
}

func NewIngestUseCase(loader port.Loader, chunker port.Chunker, batchSize int) *IngestUseCase {
	return &IngestUseCase{
		loader:    loader,
		chunker:   chunker,
		batchSize: batchSize,
	}
}

// IngestResult contains the results of an ingestion run.
type IngestResult struct {
	Documents int
	Chunks    int
}

// Ingest loads the corpus directory and builds ix from it. progress may be
// nil. Loader failures (missing directory, empty corpus) surface as
// domain.LoadError before any embedding call is made.
func (u *IngestUseCase) Ingest(ctx context.Context, dir string, ix *index.MemoryIndex, progress func(done, total int)) (*IngestResult, error) {
	docs, err := u.loader.Load(ctx, dir)
	if err != nil {
		return nil, err
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, u.chunker.Chunk(doc)...)
	}

	if err := ix.Build(ctx, chunks, u.batchSize, progress); err != nil {
		return nil, err
	}

	return &IngestResult{
		Documents: len(docs),
		Chunks:    len(chunks),
	}, nil
}
