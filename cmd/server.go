package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/logger"
	"github.com/tallyhq/tally/internal/server"
	"github.com/tallyhq/tally/internal/storage/bolt"
	"github.com/tallyhq/tally/pkg/datekey"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `The "server" command serves the tally API over HTTP against the local store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func startServer() error {
	store, err := bolt.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(store, datekey.SystemClock{})
	logger.Info("Starting server", "addr", cfg.ListenAddr, "db", cfg.DBPath)
	return http.ListenAndServe(cfg.ListenAddr, srv.Router())
}
