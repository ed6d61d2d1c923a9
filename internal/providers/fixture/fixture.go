// Package fixture serves a fixed roster through the regular balldontlie
// fetch path without touching the network. Useful offline and in demos.
package fixture

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-player-panel/internal/cancel"
	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
	"github.com/preston-bernstein/nba-player-panel/internal/fetch"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
	"github.com/preston-bernstein/nba-player-panel/internal/providers/balldontlie"
)

const playersURL = "http://fixture.local/api/v1/players"

const rosterJSON = `{"data":[
{"id":237,"first_name":"LeBron","last_name":"James","position":"F","team":{"id":14,"full_name":"Los Angeles Lakers"}},
{"id":115,"first_name":"Stephen","last_name":"Curry","position":"G","team":{"id":10,"full_name":"Golden State Warriors"}},
{"id":434,"first_name":"Jayson","last_name":"Tatum","position":"F","team":{"id":2,"full_name":"Boston Celtics"}},
{"id":246,"first_name":"Nikola","last_name":"Jokic","position":"C","team":{"id":8,"full_name":"Denver Nuggets"}},
{"id":15,"first_name":"Giannis","last_name":"Antetokounmpo","position":"F","team":{"id":17,"full_name":"Milwaukee Bucks"}}
]}`

// Source answers every players fetch with the fixed roster.
type Source struct {
	client *balldontlie.Client
}

// New creates a fixture source. delay mirrors the upstream slowdown.
func New(delay time.Duration, logger *slog.Logger, recorder *metrics.Recorder) *Source {
	return &Source{
		client: balldontlie.NewClient(balldontlie.Config{
			PlayersURL: playersURL,
			HTTPClient: &http.Client{Transport: rosterTransport{}},
			Delay:      delay,
			Logger:     logger,
			Recorder:   recorder,
		}),
	}
}

// PlayersFetch returns the roster fetch bound to handle.
func (s *Source) PlayersFetch(handle *cancel.Handle) (fetch.Operation[[]players.DisplayPlayer], fetch.Teardown) {
	return s.client.PlayersFetch(handle)
}

type rosterTransport struct{}

func (rosterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(rosterJSON)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    req,
	}, nil
}
