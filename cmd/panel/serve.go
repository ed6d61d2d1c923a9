package main

import (
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-player-panel/internal/config"
	"github.com/preston-bernstein/nba-player-panel/internal/logging"
	"github.com/preston-bernstein/nba-player-panel/internal/server"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the panel over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(logging.Config{
				Level:   cfg.Log.Level,
				Format:  cfg.Log.Format,
				Service: appName,
				Version: appVersion,
			})
			return server.New(*cfg, logger).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP port (env: PORT)")
	return cmd
}
