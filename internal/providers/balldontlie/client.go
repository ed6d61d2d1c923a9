package balldontlie

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/preston-bernstein/nba-player-panel/internal/cancel"
	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
	"github.com/preston-bernstein/nba-player-panel/internal/fetch"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
)

// Config controls how the balldontlie client reaches the upstream API.
type Config struct {
	PlayersURL string
	APIKey     string
	HTTPClient *http.Client
	// Timeout applies to the default client only.
	Timeout time.Duration
	// Delay is waited before every request; the panel uses it to leave room for cancel.
	Delay    time.Duration
	Logger   *slog.Logger
	Recorder *metrics.Recorder
}

// Client builds cancellable player fetches against balldontlie.
type Client struct {
	playersURL string
	apiKey     string
	httpClient *http.Client
	delay      time.Duration
	logger     *slog.Logger
	recorder   *metrics.Recorder
}

// NewClient constructs a balldontlie client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		playersURL: normalizePlayersURL(cfg.PlayersURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		delay:      resolveDelay(cfg.Delay),
		logger:     cfg.Logger,
		recorder:   cfg.Recorder,
	}
}

// PlayersFetch returns the deferred players fetch bound to handle, mapped to display records.
func (c *Client) PlayersFetch(handle *cancel.Handle) (fetch.Operation[[]players.DisplayPlayer], fetch.Teardown) {
	return fetch.New(c.playersURL, handle, fetch.Options{
		Source:     providerName,
		Delay:      c.delay,
		Header:     c.header(),
		HTTPClient: c.httpClient,
		Logger:     c.logger,
		Recorder:   c.recorder,
	}, mapPlayers)
}

// PlayersURL reports the endpoint this client hits.
func (c *Client) PlayersURL() string {
	return c.playersURL
}

func (c *Client) header() http.Header {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
	}
	return h
}
