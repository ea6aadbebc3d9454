package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/apiclient"
	"github.com/tallyhq/tally/pkg/datekey"
)

var dueDate string

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show habits due on a date",
	Long:  `The "due" command shows which habits are due today, or on the date given with --date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return due(cmd)
	},
}

func due(cmd *cobra.Command) error {
	var day datekey.DateKey
	if dueDate != "" {
		parsed, err := datekey.Parse(dueDate)
		if err != nil {
			return err
		}
		day = parsed
	}

	client := apiclient.New(cfg.APIBaseURL)
	habits, err := client.ListDueHabits(cmd.Context(), day)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		cmd.Println("nothing due")
		return nil
	}
	for _, h := range habits {
		cmd.Printf("%s\t%s\n", h.ID, h.Name)
	}
	return nil
}

func init() {
	dueCmd.Flags().StringVar(&dueDate, "date", "", "date to check (YYYY-MM-DD), default today")
	rootCmd.AddCommand(dueCmd)
}
