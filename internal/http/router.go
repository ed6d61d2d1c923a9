package http

import (
	nethttp "net/http"

	"github.com/gorilla/mux"

	"github.com/preston-bernstein/nba-player-panel/internal/http/handlers"
)

// NewRouter registers HTTP routes.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", handler.Health).Methods(nethttp.MethodGet)
	r.HandleFunc("/panel", handler.View).Methods(nethttp.MethodGet)
	r.HandleFunc("/panel/show", handler.Show).Methods(nethttp.MethodPost)
	r.HandleFunc("/panel/cancel", handler.Cancel).Methods(nethttp.MethodPost)
	r.NotFoundHandler = nethttp.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = nethttp.HandlerFunc(handler.MethodNotAllowed)
	return r
}
