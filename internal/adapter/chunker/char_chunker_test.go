package chunker

import (
	"errors"
	"strings"
	"testing"

	"snaps/internal/domain"
)

func TestCharChunkerShortDocument(t *testing.T) {
	c, err := NewCharChunker(100, 10)
	if err != nil {
		t.Fatal(err)
	}

	doc := domain.Document{Content: "short text", Source: "guide.txt"}
	chunks := c.Chunk(doc)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != doc.Content {
		t.Errorf("expected whole content, got %q", chunks[0].Content)
	}
	if chunks[0].StartIndex != 0 {
		t.Errorf("expected start index 0, got %d", chunks[0].StartIndex)
	}
	if chunks[0].Source != "guide.txt" {
		t.Errorf("expected source to carry over, got %q", chunks[0].Source)
	}
}

func TestCharChunkerCountFormula(t *testing.T) {
	// For L > C: count = ceil((L-O)/(C-O)).
	cases := []struct {
		length, size, overlap int
	}{
		{1000, 100, 10},
		{1001, 100, 10},
		{250, 100, 0},
		{333, 50, 25},
		{101, 100, 50},
	}

	for _, tc := range cases {
		c, err := NewCharChunker(tc.size, tc.overlap)
		if err != nil {
			t.Fatal(err)
		}

		doc := domain.Document{Content: strings.Repeat("x", tc.length)}
		chunks := c.Chunk(doc)

		step := tc.size - tc.overlap
		want := (tc.length - tc.overlap + step - 1) / step
		if len(chunks) != want {
			t.Errorf("L=%d C=%d O=%d: expected %d chunks, got %d",
				tc.length, tc.size, tc.overlap, want, len(chunks))
		}
	}
}

func TestCharChunkerReconstruction(t *testing.T) {
	c, err := NewCharChunker(40, 10)
	if err != nil {
		t.Fatal(err)
	}

	content := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump!"
	doc := domain.Document{Content: content}
	chunks := c.Chunk(doc)

	// Strip the duplicated overlap from every chunk after the first and
	// concatenate; the original content must come back exactly.
	var sb strings.Builder
	for i, ch := range chunks {
		text := []rune(ch.Content)
		if i > 0 {
			text = text[10:]
		}
		sb.WriteString(string(text))
	}
	if sb.String() != content {
		t.Errorf("reconstruction mismatch:\nwant %q\ngot  %q", content, sb.String())
	}
}

func TestCharChunkerOffsets(t *testing.T) {
	c, err := NewCharChunker(30, 5)
	if err != nil {
		t.Fatal(err)
	}

	content := strings.Repeat("abcde", 20) // 100 chars
	chunks := c.Chunk(domain.Document{Content: content})

	for i, ch := range chunks {
		if want := i * 25; ch.StartIndex != want {
			t.Errorf("chunk %d: expected start index %d, got %d", i, want, ch.StartIndex)
		}
		runes := []rune(content)
		end := ch.StartIndex + len([]rune(ch.Content))
		if string(runes[ch.StartIndex:end]) != ch.Content {
			t.Errorf("chunk %d: content does not match offset slice", i)
		}
	}
}

func TestCharChunkerOverlapInvariant(t *testing.T) {
	c, err := NewCharChunker(50, 20)
	if err != nil {
		t.Fatal(err)
	}

	content := strings.Repeat("0123456789", 30)
	chunks := c.Chunk(domain.Document{Content: content})

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Content)
		cur := []rune(chunks[i].Content)
		tail := string(prev[len(prev)-20:])
		head := string(cur[:20])
		if tail != head {
			t.Errorf("chunks %d/%d: overlap mismatch: %q vs %q", i-1, i, tail, head)
		}
	}
}

func TestCharChunkerMultibyte(t *testing.T) {
	c, err := NewCharChunker(10, 2)
	if err != nil {
		t.Fatal(err)
	}

	content := strings.Repeat("가나다라마", 5) // 25 runes
	chunks := c.Chunk(domain.Document{Content: content})

	for i, ch := range chunks {
		if got := len([]rune(ch.Content)); got > 10 {
			t.Errorf("chunk %d: %d runes exceeds size", i, got)
		}
	}
}

func TestCharChunkerInvalidOverlap(t *testing.T) {
	_, err := NewCharChunker(100, 100)
	if err == nil {
		t.Fatal("expected error for overlap == size")
	}
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %T", err)
	}

	if _, err := NewCharChunker(100, 150); err == nil {
		t.Error("expected error for overlap > size")
	}
	if _, err := NewCharChunker(0, 0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestCharChunkerEmptyDocument(t *testing.T) {
	c, err := NewCharChunker(100, 10)
	if err != nil {
		t.Fatal(err)
	}
	if chunks := c.Chunk(domain.Document{}); chunks != nil {
		t.Errorf("expected no chunks for empty document, got %d", len(chunks))
	}
}
