package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/outreach/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "leadgen",
	Short:        "B2B lead generation pipeline",
	Long:         "Searches organizations, scrapes their homepages, drafts outreach messages and stores the resulting leads.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
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
