package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/nba-player-panel/internal/logging"
	"github.com/preston-bernstein/nba-player-panel/internal/panel"
)

// Panel is the container surface the HTTP layer drives.
type Panel interface {
	Show(ctx context.Context) error
	Cancel()
	View() panel.View
}

// Handler wires HTTP routes to the panel container.
type Handler struct {
	panel  Panel
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(p Panel, logger *slog.Logger) *Handler {
	return &Handler{panel: p, logger: logger}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// View returns what the panel currently displays.
func (h *Handler) View(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, h.panel.View(), h.logger)
}

// Show opens the panel. The fetch outlives the request, so the request
// context only contributes its values.
func (h *Handler) Show(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	if err := h.panel.Show(context.WithoutCancel(r.Context())); err != nil {
		logging.Error(logger, "failed to show panel", err)
		writeError(w, r, nethttp.StatusInternalServerError, "failed to show panel", h.logger)
		return
	}
	view := h.panel.View()
	logging.Info(logger, "panel show requested", slog.String(logging.FieldState, view.State.String()))
	writeJSON(w, nethttp.StatusAccepted, view, h.logger)
}

// Cancel hides the panel, aborting any in-flight fetch.
func (h *Handler) Cancel(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.panel.Cancel()
	view := h.panel.View()
	logging.Info(loggerFromContext(r, h.logger), "panel cancel requested",
		slog.String(logging.FieldState, view.State.String()),
		slog.String(logging.FieldReason, view.Reason),
	)
	writeJSON(w, nethttp.StatusOK, view, h.logger)
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
