package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/nba-player-panel/internal/config"
	httpserver "github.com/preston-bernstein/nba-player-panel/internal/http"
	"github.com/preston-bernstein/nba-player-panel/internal/http/handlers"
	"github.com/preston-bernstein/nba-player-panel/internal/http/middleware"
	"github.com/preston-bernstein/nba-player-panel/internal/logging"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
	"github.com/preston-bernstein/nba-player-panel/internal/panel"
	"github.com/preston-bernstein/nba-player-panel/internal/providers"
)

var metricsSetup = metrics.Setup

// panelContainer is the panel surface the server exposes and closes on shutdown.
type panelContainer interface {
	handlers.Panel
	Close()
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	panel         panelContainer
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server with the configured players source.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithSource(cfg, logger, nil, nil)
}

func newServerWithSource(cfg config.Config, logger *slog.Logger, source providers.PlayersSource, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	if source == nil {
		source = SelectSource(cfg, logger, recorder)
	}
	container := panel.New(source,
		panel.WithLogger(logger),
		panel.WithRecorder(recorder),
		panel.WithLabel(cfg.Provider),
	)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		panel:         container,
		httpServer:    buildHTTPServer(cfg, container, logger, recorder),
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, container panelContainer, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		panel:      container,
		httpServer: httpSrv,
	}
}

func buildHTTPServer(cfg config.Config, p handlers.Panel, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	router := httpserver.NewRouter(handlers.NewHandler(p, logger))
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run serves the API and metrics listeners until ctx ends or the API
// listener fails, then shuts everything down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	g.Go(func() error {
		return serve("http", s.httpServer, s.logger)
	})

	if s.metricsServer != nil {
		logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
		g.Go(func() error {
			// Telemetry is best effort; a failed listener must not stop the panel.
			_ = serve("metrics", s.metricsServer, s.logger)
			return nil
		})
	}

	<-runCtx.Done()
	if ctx.Err() != nil {
		logging.Info(s.logger, "shutdown signal received")
	}

	s.gracefulShutdown()
	return g.Wait()
}

func serve(name string, srv httpServer, logger *slog.Logger) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Warn(logger, name+" server failed", "error", err)
		return errors.Wrapf(err, "%s server", name)
	}
	return nil
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Aborts an in-flight fetch and waits for it before the listeners go away.
	if s.panel != nil {
		s.panel.Close()
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
