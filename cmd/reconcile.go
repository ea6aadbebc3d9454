package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/nudge"
	"github.com/tallyhq/tally/internal/reconcile"
	"github.com/tallyhq/tally/internal/storage/bolt"
	"github.com/tallyhq/tally/pkg/datekey"
)

var notifyFlag bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Backfill missed habit days as penalized absences",
	Long: `The "reconcile" command scans every habit for occurrences up to yesterday
that were never logged and inserts penalty entries for them. Safe to run
repeatedly; a second run with no new activity inserts nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd)
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&notifyFlag, "notify", false,
		"email a summary of missed habits (needs resend_api_key and nudge_email in config)")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command) error {
	store, err := bolt.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	r := reconcile.New(store, store, datekey.SystemClock{})
	report, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("habits: %d, absences inserted: %d, failed: %d\n",
		report.HabitsSeen, report.RowsInserted, report.HabitsFailed)
	for id, n := range report.Inserted {
		cmd.Printf("  %s: %d\n", id, n)
	}
	for id, msg := range report.Failed {
		cmd.Printf("  %s: FAILED: %s\n", id, msg)
	}

	if notifyFlag {
		if cfg.ResendAPIKey == "" || cfg.NudgeEmail == "" {
			return fmt.Errorf("--notify needs resend_api_key and nudge_email in config")
		}
		notifier := &nudge.ResendNotifier{APIKey: cfg.ResendAPIKey, Email: cfg.NudgeEmail}
		if err := nudge.SendReport(notifier, store, report); err != nil {
			return err
		}
	}
	return nil
}
