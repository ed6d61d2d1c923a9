package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-player-panel/internal/config"
	"github.com/preston-bernstein/nba-player-panel/internal/logging"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
	"github.com/preston-bernstein/nba-player-panel/internal/panel"
	"github.com/preston-bernstein/nba-player-panel/internal/server"
	"github.com/preston-bernstein/nba-player-panel/internal/tui"
)

func newTUICmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the panel in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := newTUILogger(*cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			recorder := metrics.NewRecorder()
			container := panel.New(server.SelectSource(*cfg, logger, recorder),
				panel.WithLogger(logger),
				panel.WithRecorder(recorder),
				panel.WithLabel(cfg.Provider),
			)

			ctx := cmd.Context()
			err = tui.Run(ctx, container, logger, tea.WithAltScreen())
			if err != nil && ctx.Err() != nil {
				// Interrupted by a signal; the container is already closed.
				return nil
			}
			return err
		},
	}
}

// newTUILogger writes to LOG_FILE so the terminal stays clean; without it logs are dropped.
func newTUILogger(cfg config.Config) (*slog.Logger, func(), error) {
	if cfg.Log.File == "" {
		return logging.NewDiscardLogger(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log file %s", cfg.Log.File)
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: appName,
		Version: appVersion,
		Output:  f,
	})
	return logger, func() { _ = f.Close() }, nil
}
