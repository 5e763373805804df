package history

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"snaps/internal/domain"
)

var sampleRecords = []domain.ConversionRecord{
	{
		InputPost:      "Check out my new product!",
		SourcePlatform: "Instagram",
		TargetPlatform: "Twitter",
		ConvertedPost:  "New product alert! #launch",
		ImageURL:       "https://example.com/p.jpg",
	},
	{
		InputPost:      "Team offsite recap",
		SourcePlatform: "Instagram",
		TargetPlatform: "LinkedIn",
		ConvertedPost:  "Reflections from our team offsite.",
	},
}

func TestFileSinkFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.txt")
	sink := NewFileSink(path)

	if err := sink.Write(sampleRecords); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.Contains(text, "Source (Instagram): Check out my new product!") {
		t.Error("missing source line")
	}
	if !strings.Contains(text, "Target (Twitter): New product alert! #launch") {
		t.Error("missing target line")
	}
	if !strings.Contains(text, "Image: https://example.com/p.jpg") {
		t.Error("missing image line")
	}
	if strings.Count(text, "Image:") != 1 {
		t.Error("image line written for record without image")
	}

	// First record appears before the second.
	if strings.Index(text, "Twitter") > strings.Index(text, "LinkedIn") {
		t.Error("records out of order")
	}
}

func TestBoltSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversions.db")
	sink := NewBoltSink(path)

	if err := sink.Write(sampleRecords[:1]); err != nil {
		t.Fatal(err)
	}
	// Second write appends rather than overwrites.
	if err := sink.Write(sampleRecords[1:]); err != nil {
		t.Fatal(err)
	}

	got, err := sink.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sampleRecords) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", sampleRecords, got)
	}
}

func TestBoltSinkEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversions.db")
	sink := NewBoltSink(path)

	if err := sink.Write(nil); err != nil {
		t.Fatal(err)
	}
	got, err := sink.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}
