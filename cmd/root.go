package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/segmap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "segmap",
	Short: "Census block demographic dominance choropleth toolkit",
	Long:  "Joins PL 94-171 block demographics to TIGER block-group geometry, classifies each block by dominant category, and derives the fill/stroke styling a choropleth renderer consumes.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
