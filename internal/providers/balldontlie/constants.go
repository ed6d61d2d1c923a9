package balldontlie

import "time"

const (
	defaultPlayersURL  = "https://www.balldontlie.io/api/v1/players"
	defaultHTTPTimeout = 10 * time.Second
)
