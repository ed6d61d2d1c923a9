package balldontlie

import (
	"net/http"
	"strings"
	"time"
)

func resolveHTTPClient(client *http.Client, timeout time.Duration) *http.Client {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func normalizePlayersURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = defaultPlayersURL
	}
	return strings.TrimSuffix(raw, "/")
}

func resolveDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	return delay
}
