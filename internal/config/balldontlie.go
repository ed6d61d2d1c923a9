package config

const (
	envBdlPlayersURL = "BALLDONTLIE_PLAYERS_URL"
	envBdlAPIKey     = "BALLDONTLIE_API_KEY"
	envFetchDelay    = "FETCH_DELAY"
	envFetchTimeout  = "FETCH_TIMEOUT"

	defaultBdlPlayersURL = "https://www.balldontlie.io/api/v1/players"
)

// BalldontlieConfig controls how we talk to the balldontlie API.
type BalldontlieConfig struct {
	PlayersURL string `validate:"required,url"`
	APIKey     string
	FetchDelay Duration `validate:"gte=0"`
	Timeout    Duration `validate:"gt=0"`
}

func loadBalldontlie() BalldontlieConfig {
	return BalldontlieConfig{
		PlayersURL: envOrDefault(envBdlPlayersURL, defaultBdlPlayersURL),
		APIKey:     envOrDefault(envBdlAPIKey, ""),
		FetchDelay: delayEnvOrDefault(envFetchDelay, defaultFetchDelay),
		Timeout:    durationEnvOrDefault(envFetchTimeout, defaultFetchTimeout),
	}
}
