package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"snaps/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "snaps",
	Short: "Social post converter - rewrite posts between platforms using a style-guide corpus",
	Long: `snaps converts social media posts from one platform's conventions to
another's. It indexes a directory of style-guide documents, retrieves the
guidance most relevant to each request, and asks a language model to rewrite
the post accordingly.

Example usage:
  snaps ingest ./guides                                  # Index style guides
  snaps convert -i "Big launch day!" -s Instagram -t Twitter
  snaps history                                          # Show past conversions`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		// API keys may live in a local .env file.
		_ = godotenv.Load()

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./snaps.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "corpus directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
