package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snaps/internal/adapter/history"
)

var historyExport bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past conversions",
	Long: `Print the conversion history recorded by 'snaps convert', oldest
first. With --export, also write the history to the configured text file.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyExport, "export", false, "also write history to the configured text file")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dbPath := statePath(cfg.History.DBPath)
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Println("No conversion history yet.")
		return nil
	}

	records, err := history.NewBoltSink(dbPath).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No conversion history yet.")
		return nil
	}

	for i, rec := range records {
		fmt.Printf("--- Conversion %d ---\n", i+1)
		fmt.Printf("Source (%s): %s\n", rec.SourcePlatform, rec.InputPost)
		fmt.Printf("Target (%s): %s\n", rec.TargetPlatform, rec.ConvertedPost)
		if rec.ImageURL != "" {
			fmt.Printf("Image: %s\n", rec.ImageURL)
		}
		fmt.Println()
	}

	if historyExport {
		filePath := statePath(cfg.History.FilePath)
		if err := history.NewFileSink(filePath).Write(records); err != nil {
			return fmt.Errorf("failed to export history: %w", err)
		}
		fmt.Printf("History exported to %s\n", filePath)
	}
	return nil
}
