// @title Kitchen Store API
// @version 1.0
// @description Catalog search, filtering and tab session API for the kitchenware storefront
// @host localhost:8081
// @BasePath /api/v1
// @schemes http
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kitcomfeedback-cell/kitchen-store/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	_ = godotenv.Load()
}

var (
	settings config.Settings
	logger   *zap.Logger
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "kitchen-store",
	Short: "Kitchenware storefront catalog engine",
	Long: `kitchen-store serves the storefront catalog: shuffled browsing, fuzzy
search, subcategory and price filters, sorting, infinite scroll and
per-tab session restore.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.Load()
		if err != nil {
			return err
		}
		if verbose {
			settings.LogLevel = "debug"
		}
		logger, err = config.NewLogger(settings)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(serveCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
