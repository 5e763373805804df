package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"snaps/config"
	"snaps/internal/adapter/generation"
	"snaps/internal/adapter/history"
	"snaps/internal/adapter/imaging"
	"snaps/internal/adapter/index"
	"snaps/internal/adapter/retriever"
	"snaps/internal/domain"
	"snaps/internal/prompt"
	"snaps/internal/usecase"
)

var (
	convertInput    string
	convertSource   string
	convertTarget   string
	convertImage    bool
	convertImageURL string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a post from one platform's style to another's",
	Long: `Convert a social media post between platform conventions. Retrieval
uses the index built by 'snaps ingest', so run that first.

Examples:
  snaps convert -i "Big launch today!" -s Instagram -t Twitter
  snaps convert -i "We are hiring" -s Twitter -t LinkedIn --image --image-url https://example.com/team.png`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "post text to convert (required)")
	convertCmd.Flags().StringVarP(&convertSource, "source", "s", "", "source platform (required)")
	convertCmd.Flags().StringVarP(&convertTarget, "target", "t", "", "target platform (required)")
	convertCmd.Flags().BoolVar(&convertImage, "image", false, "the post carries an image")
	convertCmd.Flags().StringVar(&convertImageURL, "image-url", "", "URL of the attached image")
	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("source")
	convertCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}

	composer, err := newComposer(cfg)
	if err != nil {
		return err
	}

	gen, err := generation.NewOpenAIGenerator(
		cfg.Generation.APIKeyEnv,
		cfg.Generation.Model,
		cfg.Generation.Temperature,
		time.Duration(cfg.Generation.TimeoutSecs)*time.Second,
	)
	if err != nil {
		return err
	}

	o := usecase.NewOrchestrator(
		retriever.NewSimilarityRetriever(ix, cfg.Retrieval.TopK),
		composer,
		gen,
		imaging.NewPassThroughProcessor(imaging.NewSpecTable(cfg.Images.Platforms)),
		cfg.Generation.Stream,
	)

	req := domain.ConversionRequest{
		InputPost:      convertInput,
		SourcePlatform: convertSource,
		TargetPlatform: convertTarget,
		ImageIncluded:  convertImage,
		ImageURL:       convertImageURL,
	}

	out, err := o.Convert(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Println(out)

	sink := history.NewBoltSink(statePath(cfg.History.DBPath))
	if err := o.ExportHistory(sink); err != nil {
		return fmt.Errorf("failed to record conversion history: %w", err)
	}
	return nil
}

// openIndex restores the persisted embedding index for the corpus directory.
func openIndex(cfg *config.Config) (*index.MemoryIndex, error) {
	dbPath := config.IndexDBPath(GetRootDir())
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no index found at %s, run 'snaps ingest' first", dbPath)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	ix, err := index.LoadFromBolt(dbPath, embedder)
	if errors.Is(err, index.ErrModelMismatch) {
		return nil, fmt.Errorf("index was built with a different embedding model, re-run 'snaps ingest': %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}
	if ix.Len() == 0 {
		return nil, fmt.Errorf("index at %s is empty, re-run 'snaps ingest'", dbPath)
	}
	return ix, nil
}

func newComposer(cfg *config.Config) (*prompt.Composer, error) {
	if cfg.Generation.PromptTemplate != "" {
		return prompt.NewComposerWithTemplate(cfg.Generation.PromptTemplate)
	}
	return prompt.NewComposer()
}

// statePath resolves a history path relative to the corpus directory.
func statePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(GetRootDir(), path)
}
