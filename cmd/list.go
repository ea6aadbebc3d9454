package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Long:  `The "list" command lists your habits from a running tally server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return list(cmd)
	},
}

func list(cmd *cobra.Command) error {
	client := apiclient.New(cfg.APIBaseURL)
	habits, err := client.ListHabits(cmd.Context())
	if err != nil {
		return err
	}
	for _, h := range habits {
		cmd.Printf("%s\t%s\t%s\n", h.ID, h.Name, h.Frequency)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
}
