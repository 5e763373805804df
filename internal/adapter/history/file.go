package history

import (
	"fmt"
	"os"
	"strings"

	"snaps/internal/domain"
)

// FileSink serialises the conversion history to a human-readable text file.
// The whole snapshot is written each time; records stay in completion order.
type FileSink struct {
	Path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

func (s *FileSink) Write(records []domain.ConversionRecord) error {
	var sb strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&sb, "Source (%s): %s\n", rec.SourcePlatform, rec.InputPost)
		fmt.Fprintf(&sb, "Target (%s): %s\n", rec.TargetPlatform, rec.ConvertedPost)
		if rec.ImageURL != "" {
			fmt.Fprintf(&sb, "Image: %s\n", rec.ImageURL)
		}
		sb.WriteString("\n")
	}
	return os.WriteFile(s.Path, []byte(sb.String()), 0644)
}
