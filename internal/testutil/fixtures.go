package testutil

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
)

// SinglePlayerJSON is the upstream payload used across scenario tests.
const SinglePlayerJSON = `{"data":[{"id":1,"first_name":"A","last_name":"B","team":{"full_name":"T","id":7},"position":"G"}]}`

// SamplePlayers returns n display players with predictable values.
func SamplePlayers(n int) []players.DisplayPlayer {
	out := make([]players.DisplayPlayer, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, players.DisplayPlayer{
			ID:       i,
			FullName: fmt.Sprintf("First%d Last%d", i, i),
			Team:     fmt.Sprintf("Team %d", i),
		})
	}
	return out
}

// PlayersJSON renders n raw upstream records matching SamplePlayers(n).
func PlayersJSON(n int) string {
	records := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, fmt.Sprintf(
			`{"id":%d,"first_name":"First%d","last_name":"Last%d","team":{"full_name":"Team %d","id":%d},"position":"F"}`,
			i, i, i, i, i,
		))
	}
	return `{"data":[` + strings.Join(records, ",") + `]}`
}
