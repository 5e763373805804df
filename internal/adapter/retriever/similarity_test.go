package retriever

import (
	"context"
	"errors"
	"testing"

	"snaps/internal/adapter/embedding"
	"snaps/internal/adapter/index"
	"snaps/internal/domain"
)

func newIndex(t *testing.T, contents ...string) *index.MemoryIndex {
	t.Helper()
	chunks := make([]domain.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = domain.Chunk{Content: c, Source: "guide.txt"}
	}
	ix := index.NewMemoryIndex(embedding.NewHashEmbedder(32))
	if err := ix.Build(context.Background(), chunks, 100, nil); err != nil {
		t.Fatal(err)
	}
	return ix
}

func TestRetrieveCapsAtIndexSize(t *testing.T) {
	ix := newIndex(t, "twitter style", "linkedin style")
	r := NewSimilarityRetriever(ix, 5)

	chunks, err := r.Retrieve(context.Background(), "style")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks for k=5 over 2 entries, got %d", len(chunks))
	}
}

func TestRetrieveDeterministic(t *testing.T) {
	ix := newIndex(t, "a short chunk", "another chunk", "a third chunk")
	r := NewSimilarityRetriever(ix, 2)

	first, err := r.Retrieve(context.Background(), "chunk")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := r.Retrieve(context.Background(), "chunk")
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatal("result length changed between calls")
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("call %d: result %d differs", i, j)
			}
		}
	}
}

func TestRetrieveWrapsErrors(t *testing.T) {
	r := NewSimilarityRetriever(failingIndex{}, 5)

	_, err := r.Retrieve(context.Background(), "anything")
	var retErr *domain.RetrievalError
	if !errors.As(err, &retErr) {
		t.Fatalf("expected RetrievalError, got %T", err)
	}
}

func TestJoinContext(t *testing.T) {
	chunks := []domain.Chunk{
		{Content: "first"},
		{Content: "second"},
		{Content: "third"},
	}
	if got := JoinContext(chunks); got != "first\n\nsecond\n\nthird" {
		t.Errorf("unexpected join: %q", got)
	}
	if got := JoinContext(nil); got != "" {
		t.Errorf("expected empty join for no chunks, got %q", got)
	}
}

type failingIndex struct{}

func (failingIndex) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	return nil, errors.New("index unavailable")
}

func (failingIndex) Len() int { return 0 }
