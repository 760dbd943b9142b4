package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fairclaim/tradeline-audit/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tradeline-audit",
	Short: "Credit tradeline audit engine",
	Long:  "Audits structured credit-account data for debt re-aging, statute-of-limitations problems, status-code inconsistencies, and furnisher-level misreporting, then scores the case.",
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
