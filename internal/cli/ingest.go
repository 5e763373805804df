package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"snaps/config"
	"snaps/internal/adapter/chunker"
	"snaps/internal/adapter/embedding"
	"snaps/internal/adapter/index"
	"snaps/internal/adapter/loader"
	"snaps/internal/port"
	"snaps/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index a style-guide corpus for retrieval",
	Long: `Load, chunk, and embed the documents in a corpus directory.
The resulting index is stored in .snaps/index.db within the directory.

Examples:
  snaps ingest .                  # Index current directory
  snaps ingest /path/to/guides    # Index specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	chk, err := chunker.NewCharChunker(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}
	ld := loader.NewDirectoryLoader(cfg.Corpus.Includes, cfg.Corpus.Excludes, cfg.Corpus.Workers)
	ingestUC := usecase.NewIngestUseCase(ld, chk, cfg.Embedding.BatchSize)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var initialized bool

	progress := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if !initialized {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}

		bar.Set(done)
	}

	ix := index.NewMemoryIndex(embedder)
	result, err := ingestUC.Ingest(cmd.Context(), path, ix, progress)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if err := config.EnsureStateDir(path); err != nil {
		return fmt.Errorf("failed to create .snaps directory: %w", err)
	}
	dbPath := config.IndexDBPath(path)
	if err := ix.Save(dbPath); err != nil {
		return fmt.Errorf("failed to persist index: %w", err)
	}

	fmt.Printf("\nIngest complete:\n")
	fmt.Printf("  Documents loaded: %d\n", result.Documents)
	fmt.Printf("  Chunks embedded:  %d\n", result.Chunks)
	fmt.Printf("  Embedding model:  %s\n", embedder.ModelName())
	fmt.Printf("\nIndex stored at: %s\n", dbPath)
	return nil
}

// newEmbedder builds the configured embedding provider.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BatchSize)
	case "mock":
		return embedding.NewHashEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}
