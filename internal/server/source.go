package server

import (
	"log/slog"

	"github.com/preston-bernstein/nba-player-panel/internal/config"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
	"github.com/preston-bernstein/nba-player-panel/internal/providers"
	"github.com/preston-bernstein/nba-player-panel/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-player-panel/internal/providers/fixture"
)

// SelectSource builds the players source named by cfg.Provider.
func SelectSource(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) providers.PlayersSource {
	switch cfg.Provider {
	case config.ProviderFixture:
		return fixture.New(cfg.Balldontlie.FetchDelay, logger, recorder)
	case config.ProviderBalldontlie, "":
		return balldontlie.NewClient(balldontlie.Config{
			PlayersURL: cfg.Balldontlie.PlayersURL,
			APIKey:     cfg.Balldontlie.APIKey,
			Timeout:    cfg.Balldontlie.Timeout,
			Delay:      cfg.Balldontlie.FetchDelay,
			Logger:     logger,
			Recorder:   recorder,
		})
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New(cfg.Balldontlie.FetchDelay, logger, recorder)
	}
}
