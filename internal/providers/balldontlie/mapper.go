package balldontlie

import (
	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
)

func mapPlayers(resp playersResponse) ([]players.DisplayPlayer, error) {
	out := make([]players.DisplayPlayer, 0, len(resp.Data))
	for _, p := range resp.Data {
		out = append(out, mapPlayer(p))
	}
	return out, nil
}

func mapPlayer(p playerResponse) players.DisplayPlayer {
	return players.DisplayPlayer{
		ID:       p.ID,
		FullName: players.FullName(p.FirstName, p.LastName),
		Team:     p.Team.FullName,
	}
}
