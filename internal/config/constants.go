package config

import "time"

// Players sources accepted by PROVIDER.
const (
	ProviderBalldontlie = "balldontlie"
	ProviderFixture     = "fixture"
)

const (
	envPort         = "PORT"
	envProvider     = "PROVIDER"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel     = "LOG_LEVEL"
	envLogFormat    = "LOG_FORMAT"
	envLogFile      = "LOG_FILE"

	defaultPort        = "4000"
	defaultProvider    = ProviderBalldontlie
	defaultMetricsPort = "9090"
	defaultServiceName = "nba-player-panel"

	// Matches the artificial slowdown of the panel so cancel has a window to land in.
	defaultFetchDelay   = 2 * Duration(time.Second)
	defaultFetchTimeout = 10 * Duration(time.Second)
)
