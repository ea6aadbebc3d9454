package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/logger"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Track habits and tasks, earn points, lose points",
	Long: `
	Tally tracks recurring habits and one-off tasks against a local store.
	Logging a completion earns points according to the habit's evaluation
	rule; missed days are backfilled as penalized absences so the history
	stays honest even when the app wasn't opened.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
