package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tiger-clip/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tiger-clip",
	Short: "Clip TIGER/Line layers to an administrative boundary",
	Long:  "Resolves a U.S. state, place, or county from Census TIGER/Line shapefiles, dissolves its boundary, and clips road and county layers to it.",
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
