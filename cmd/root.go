package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenprism/siteopt/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "siteopt",
	Short: "Constrained facility siting optimizer",
	Long:  "Finds the transport-cost-minimizing facility location for a set of demand sites, honoring the admissible boundary, exclusion zones, and buffers around sensitive points.",
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
