package domain

// Document is one raw text unit read from the style-guide corpus.
type Document struct {
	Content string
	Source  string
}

// Chunk is a bounded slice of a Document's content. StartIndex is the
// character offset of the chunk within its source document.
type Chunk struct {
	Content    string
	Source     string
	StartIndex int
}

// ScoredChunk pairs a chunk with its similarity score for a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// ConversionRequest describes a single post conversion. Transient; never
// stored directly.
type ConversionRequest struct {
	InputPost      string
	SourcePlatform string
	TargetPlatform string
	ImageIncluded  bool
	ImageURL       string
}

// ConversionRecord is the persisted outcome of a successful conversion.
type ConversionRecord struct {
	InputPost      string `json:"input_post"`
	SourcePlatform string `json:"source_platform"`
	TargetPlatform string `json:"target_platform"`
	ConvertedPost  string `json:"converted_post"`
	ImageURL       string `json:"image_url,omitempty"`
}

// ImageSpec describes the image transform a target platform requires.
type ImageSpec struct {
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
	Format    string `yaml:"format"`
}
