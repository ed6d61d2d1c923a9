package main

import (
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-player-panel/internal/config"
)

// newRootCmd wires the panel commands. Flags default to the environment.
func newRootCmd() *cobra.Command {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "panel",
		Short: "Show NBA players with a cancellable fetch",
		Long: `panel loads the balldontlie players list after a short delay and lets
you cancel the request while it is in flight. The reason of the abort is
shown in place of the list.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.Provider, "provider", cfg.Provider, "Players source: balldontlie, fixture (env: PROVIDER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Balldontlie.PlayersURL, "players-url", cfg.Balldontlie.PlayersURL, "Players endpoint (env: BALLDONTLIE_PLAYERS_URL)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Balldontlie.FetchDelay, "delay", cfg.Balldontlie.FetchDelay, "Wait before each request, 0 to disable (env: FETCH_DELAY)")

	rootCmd.AddCommand(newServeCmd(&cfg))
	rootCmd.AddCommand(newTUICmd(&cfg))

	return rootCmd
}
