package index

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"snaps/internal/adapter/embedding"
	"snaps/internal/domain"
)

func buildTestIndex(t *testing.T, contents []string) *MemoryIndex {
	t.Helper()

	chunks := make([]domain.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = domain.Chunk{Content: c, Source: "guide.txt", StartIndex: i * 100}
	}

	ix := NewMemoryIndex(embedding.NewHashEmbedder(64))
	if err := ix.Build(context.Background(), chunks, 2, nil); err != nil {
		t.Fatal(err)
	}
	return ix
}

func TestQueryTopK(t *testing.T) {
	ix := buildTestIndex(t, []string{
		"Use short sentences for Twitter posts.",
		"LinkedIn prefers a professional tone.",
		"Hashtags help reach on Instagram.",
		"Facebook posts can run longer.",
	})

	results, err := ix.Query(context.Background(), "short Twitter sentences", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %f > %f", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestQueryKLargerThanIndex(t *testing.T) {
	ix := buildTestIndex(t, []string{"first chunk", "second chunk"})

	results, err := ix.Query(context.Background(), "chunk", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected min(k, size)=2 results, got %d", len(results))
	}
}

func TestQueryEmptyIndex(t *testing.T) {
	ix := NewMemoryIndex(embedding.NewHashEmbedder(64))

	results, err := ix.Query(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("empty index query should not error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result, got %d", len(results))
	}
}

func TestQueryDeterministic(t *testing.T) {
	ix := buildTestIndex(t, []string{
		"alpha style guide", "beta style guide", "gamma style guide",
	})

	first, err := ix.Query(context.Background(), "style", 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := ix.Query(context.Background(), "style", 3)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("query %d returned a different ordering", i)
		}
	}
}

func TestQueryStableTies(t *testing.T) {
	// Identical contents embed identically, so all scores tie; the result
	// must keep build order.
	ix := buildTestIndex(t, []string{"same text", "same text", "same text"})

	results, err := ix.Query(context.Background(), "same text", 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r.Chunk.StartIndex != i*100 {
			t.Errorf("tie order broken at %d: start index %d", i, r.Chunk.StartIndex)
		}
	}
}

func TestBuildPreservesChunkOrder(t *testing.T) {
	// More chunks than one batch so the parallel merge is exercised.
	contents := make([]string, 25)
	for i := range contents {
		contents[i] = fmt.Sprintf("chunk number %d with some padding text", i)
	}
	ix := buildTestIndex(t, contents)

	for i, chunk := range ix.chunks {
		if chunk.StartIndex != i*100 {
			t.Fatalf("chunk %d out of order: start index %d", i, chunk.StartIndex)
		}
	}
}

func TestBuildTwiceFails(t *testing.T) {
	ix := buildTestIndex(t, []string{"only chunk"})
	err := ix.Build(context.Background(), []domain.Chunk{{Content: "more"}}, 10, nil)
	if err == nil {
		t.Fatal("expected rebuild of a frozen index to fail")
	}
}

func TestSaveAndLoad(t *testing.T) {
	embedder := embedding.NewHashEmbedder(64)
	ix := buildTestIndex(t, []string{
		"Keep tweets under 280 characters.",
		"Use paragraphs on LinkedIn.",
	})

	path := filepath.Join(t.TempDir(), "index.db")
	if err := ix.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFromBolt(path, embedder)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != ix.Len() {
		t.Fatalf("expected %d chunks after load, got %d", ix.Len(), loaded.Len())
	}

	want, err := ix.Query(context.Background(), "tweet length", 2)
	if err != nil {
		t.Fatal(err)
	}
	got, err := loaded.Query(context.Background(), "tweet length", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Error("loaded index does not answer queries identically")
	}
}

func TestLoadModelMismatch(t *testing.T) {
	ix := buildTestIndex(t, []string{"one chunk"})

	path := filepath.Join(t.TempDir(), "index.db")
	if err := ix.Save(path); err != nil {
		t.Fatal(err)
	}

	other := &renamedEmbedder{HashEmbedder: embedding.NewHashEmbedder(64)}
	if _, err := LoadFromBolt(path, other); !errors.Is(err, ErrModelMismatch) {
		t.Fatalf("expected ErrModelMismatch, got %v", err)
	}
}

type renamedEmbedder struct {
	*embedding.HashEmbedder
}

func (e *renamedEmbedder) ModelName() string { return "other-model" }
