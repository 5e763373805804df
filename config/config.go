package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"snaps/internal/domain"
)

// Config holds all configuration for the converter.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Generation GenerationConfig `yaml:"generation"`
	History    HistoryConfig    `yaml:"history"`
	Images     ImagesConfig     `yaml:"images"`
}

// CorpusConfig selects which style-guide files are eligible for ingestion.
type CorpusConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	Workers  int      `yaml:"workers"`
}

// ChunkingConfig controls how documents are split into chunks.
type ChunkingConfig struct {
	Size    int `yaml:"size"`    // chunk size in characters
	Overlap int `yaml:"overlap"` // overlap between consecutive chunks
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "mock"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// RetrievalConfig holds retrieval configuration.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// GenerationConfig holds generation configuration.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	Stream      bool    `yaml:"stream"`
	// PromptTemplate overrides the built-in conversion prompt when set.
	PromptTemplate string `yaml:"prompt_template"`
}

// HistoryConfig holds conversion-history export configuration.
type HistoryConfig struct {
	FilePath string `yaml:"file_path"`
	DBPath   string `yaml:"db_path"`
}

// ImagesConfig maps platform names to their image transform descriptors.
type ImagesConfig struct {
	Platforms map[string]domain.ImageSpec `yaml:"platforms"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Includes: []string{"**/*.txt", "**/*.md"},
			Excludes: []string{"**/.git/**", "**/.snaps/**"},
			Workers:  4,
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 50,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Generation: GenerationConfig{
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0.7,
			TimeoutSecs: 120,
			Stream:      true,
		},
		History: HistoryConfig{
			FilePath: "conversion_history.txt",
			DBPath:   "conversions.db",
		},
		Images: ImagesConfig{
			Platforms: map[string]domain.ImageSpec{
				"facebook":  {MaxWidth: 2048, MaxHeight: 2048, Format: "png"},
				"linkedin":  {MaxWidth: 1200, MaxHeight: 627, Format: "png"},
				"twitter":   {MaxWidth: 1600, MaxHeight: 900, Format: "png"},
				"instagram": {MaxWidth: 1080, MaxHeight: 1080, Format: "jpeg"},
			},
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for snaps.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "snaps.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".snaps", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks configuration invariants. Violations are fatal at
// construction and reported as domain.ConfigError.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return &domain.ConfigError{Field: "chunking.size", Err: fmt.Errorf("must be positive, got %d", c.Chunking.Size)}
	}
	if c.Chunking.Overlap < 0 {
		return &domain.ConfigError{Field: "chunking.overlap", Err: fmt.Errorf("must not be negative, got %d", c.Chunking.Overlap)}
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return &domain.ConfigError{Field: "chunking.overlap", Err: fmt.Errorf("overlap %d must be less than chunk size %d", c.Chunking.Overlap, c.Chunking.Size)}
	}
	if c.Retrieval.TopK <= 0 {
		return &domain.ConfigError{Field: "retrieval.top_k", Err: fmt.Errorf("must be positive, got %d", c.Retrieval.TopK)}
	}
	if c.Generation.TimeoutSecs <= 0 {
		return &domain.ConfigError{Field: "generation.timeout_secs", Err: fmt.Errorf("must be positive, got %d", c.Generation.TimeoutSecs)}
	}
	if c.Embedding.Provider == "openai" && os.Getenv(c.Embedding.APIKeyEnv) == "" {
		return &domain.ConfigError{Field: "embedding.api_key_env", Err: errors.New("API key not set in environment: " + c.Embedding.APIKeyEnv)}
	}
	return nil
}

// IndexDBPath returns the path to the persisted embedding index for a corpus
// directory.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".snaps", "index.db")
}

// EnsureStateDir ensures the .snaps directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".snaps"), 0755)
}
