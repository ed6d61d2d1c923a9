package providers

import (
	"github.com/preston-bernstein/nba-player-panel/internal/cancel"
	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
	"github.com/preston-bernstein/nba-player-panel/internal/fetch"
)

// PlayersSource builds the players fetch for one list mount.
// The returned operation must observe handle; the teardown aborts it.
type PlayersSource interface {
	PlayersFetch(handle *cancel.Handle) (fetch.Operation[[]players.DisplayPlayer], fetch.Teardown)
}
