package port

import (
	"context"

	"snaps/internal/domain"
)

// Loader reads a corpus directory into Documents.
type Loader interface {
	// Load returns one Document per eligible file under dir.
	// Fails with domain.LoadError if dir is missing or yields no documents.
	Load(ctx context.Context, dir string) ([]domain.Document, error)
}
