package imaging

import (
	"bytes"
	"testing"

	"snaps/internal/domain"
)

func TestLookupCaseInsensitive(t *testing.T) {
	table := NewSpecTable(nil)

	spec, ok := table.Lookup("Facebook")
	if !ok {
		t.Fatal("expected facebook spec")
	}
	if spec.MaxWidth != 2048 || spec.MaxHeight != 2048 {
		t.Errorf("unexpected facebook dimensions: %dx%d", spec.MaxWidth, spec.MaxHeight)
	}

	spec, ok = table.Lookup("LINKEDIN")
	if !ok {
		t.Fatal("expected linkedin spec")
	}
	if spec.MaxWidth != 1200 || spec.MaxHeight != 627 {
		t.Errorf("unexpected linkedin dimensions: %dx%d", spec.MaxWidth, spec.MaxHeight)
	}
}

func TestLookupUnknownPlatform(t *testing.T) {
	table := NewSpecTable(nil)
	if _, ok := table.Lookup("myspace"); ok {
		t.Error("expected no spec for unknown platform")
	}
}

func TestCustomSpecs(t *testing.T) {
	table := NewSpecTable(map[string]domain.ImageSpec{
		"Mastodon": {MaxWidth: 800, MaxHeight: 600, Format: "webp"},
	})

	spec, ok := table.Lookup("mastodon")
	if !ok {
		t.Fatal("expected custom spec under lowered key")
	}
	if spec.Format != "webp" {
		t.Errorf("unexpected format %q", spec.Format)
	}
}

func TestPassThroughProcessor(t *testing.T) {
	p := NewPassThroughProcessor(NewSpecTable(nil))

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	out, err := p.Process(data, "twitter")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Error("pass-through modified image bytes")
	}

	if _, err := p.Process(data, "unknown"); err == nil {
		t.Error("expected error for unknown platform")
	}
}
