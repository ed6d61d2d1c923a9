package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/preston-bernstein/nba-player-panel/internal/config"
	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
	"github.com/preston-bernstein/nba-player-panel/internal/panel"
	"github.com/preston-bernstein/nba-player-panel/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-player-panel/internal/providers/fixture"
	"github.com/preston-bernstein/nba-player-panel/internal/testutil"
)

type stubPanel struct {
	closeCalls atomic.Int32
}

func (p *stubPanel) Show(ctx context.Context) error { return nil }
func (p *stubPanel) Cancel()                        {}
func (p *stubPanel) View() panel.View {
	return panel.View{State: panel.Hidden, Players: []players.DisplayPlayer{}}
}
func (p *stubPanel) Close() { p.closeCalls.Add(1) }

type viewBody struct {
	State   string                  `json:"state"`
	Players []players.DisplayPlayer `json:"players"`
	Reason  string                  `json:"reason"`
}

func testConfig() config.Config {
	return config.Config{
		Port:     "0",
		Provider: config.ProviderFixture,
		Metrics:  config.MetricsConfig{Enabled: false},
	}
}

func TestServerServesHealthAndPanel(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	srv := newServerWithSource(testConfig(), logger, testutil.NewReadySource(testutil.SamplePlayers(2)), metrics.NewRecorder())
	t.Cleanup(srv.panel.Close)

	router := srv.Handler()

	rr := testutil.Serve(router, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected middleware to set a request id")
	}

	rr = testutil.Serve(router, http.MethodPost, "/panel/show", nil)
	testutil.AssertStatus(t, rr, http.StatusAccepted)

	deadline := time.Now().Add(2 * time.Second)
	for {
		rr = testutil.Serve(router, http.MethodGet, "/panel", nil)
		var body viewBody
		testutil.DecodeJSON(t, rr, &body)
		if len(body.Players) == 2 {
			if body.State != "shown" {
				t.Fatalf("expected shown state, got %s", body.State)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for players")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if srv.metrics.Transitions(panel.Shown.String()) != 1 {
		t.Fatalf("expected one shown transition, got %d", srv.metrics.Transitions(panel.Shown.String()))
	}
}

func TestServerCancelReportsUnmountReason(t *testing.T) {
	src := testutil.NewGatedSource(testutil.SamplePlayers(1))
	srv := newServerWithSource(testConfig(), nil, src, metrics.NewRecorder())
	router := srv.Handler()

	testutil.Serve(router, http.MethodPost, "/panel/show", nil)
	<-src.Started()
	rr := testutil.Serve(router, http.MethodPost, "/panel/cancel", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var body viewBody
	testutil.DecodeJSON(t, rr, &body)
	if body.State != "hidden" || body.Reason != "Aborted! component was unmount" || len(body.Players) != 0 {
		t.Fatalf("unexpected view after cancel %+v", body)
	}
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	httpSrv := &testutil.StubHTTPServer{AddrVal: ":0", HandlerVal: http.NewServeMux()}
	p := &stubPanel{}
	srv := newServerWithDeps(testConfig(), logger, p, httpSrv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.Run(ctx); err != nil {
		t.Fatalf("expected clean run, got %v", err)
	}
	if httpSrv.ListenCalls() != 1 || httpSrv.ShutdownCalls() != 1 {
		t.Fatalf("expected listen and shutdown once, got %d/%d", httpSrv.ListenCalls(), httpSrv.ShutdownCalls())
	}
	if p.closeCalls.Load() != 1 {
		t.Fatalf("expected panel closed on shutdown")
	}
	if !strings.Contains(buf.String(), "shutdown complete") {
		t.Fatalf("expected shutdown log, got %s", buf.String())
	}
}

func TestRunStopsWhenListenerFails(t *testing.T) {
	httpSrv := testutil.NewFailingHTTPServer()
	p := &stubPanel{}
	srv := newServerWithDeps(testConfig(), nil, p, httpSrv)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "listen failure") {
			t.Fatalf("expected listen failure, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop after listener failure")
	}
	if httpSrv.ShutdownCalls() != 1 || p.closeCalls.Load() != 1 {
		t.Fatalf("expected shutdown after failure")
	}
}

func TestRunTreatsServerClosedAsClean(t *testing.T) {
	srv := newServerWithDeps(testConfig(), nil, &stubPanel{}, testutil.NewClosedHTTPServer())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := srv.Run(ctx); err != nil {
		t.Fatalf("expected nil error for closed server, got %v", err)
	}
}

func TestRunIgnoresMetricsListenerFailure(t *testing.T) {
	httpSrv := &testutil.StubHTTPServer{AddrVal: ":0", HandlerVal: http.NewServeMux()}
	metricsSrv := testutil.NewFailingHTTPServer()
	srv := newServerWithDeps(testConfig(), nil, &stubPanel{}, httpSrv)
	srv.metricsServer = metricsSrv

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := srv.Run(ctx); err != nil {
		t.Fatalf("expected metrics failure to be tolerated, got %v", err)
	}
	if metricsSrv.ShutdownCalls() != 1 {
		t.Fatalf("expected metrics server shutdown")
	}
}

func TestGracefulShutdownRespectsTimeout(t *testing.T) {
	orig := shutdownTimeout
	shutdownTimeout = 10 * time.Millisecond
	defer func() { shutdownTimeout = orig }()

	logger, buf := testutil.NewBufferLogger()
	blocking := &testutil.BlockingHTTPServer{AddrVal: ":0", HandlerVal: http.NewServeMux(), Unblock: make(chan struct{})}
	srv := newServerWithDeps(testConfig(), logger, &stubPanel{}, blocking)

	start := time.Now()
	srv.gracefulShutdown()
	if time.Since(start) > time.Second {
		t.Fatalf("shutdown did not honor timeout")
	}
	if blocking.ShutdownCalls() != 1 {
		t.Fatalf("expected shutdown attempt")
	}
	if !strings.Contains(buf.String(), "graceful shutdown failed") {
		t.Fatalf("expected shutdown failure log, got %s", buf.String())
	}
}

func TestGracefulShutdownCallsMetricsStop(t *testing.T) {
	var stopped atomic.Bool
	srv := newServerWithDeps(testConfig(), nil, &stubPanel{}, &testutil.StubHTTPServer{})
	srv.metricsStop = func(context.Context) error {
		stopped.Store(true)
		return nil
	}

	srv.gracefulShutdown()
	if !stopped.Load() {
		t.Fatalf("expected metrics stop to run")
	}
}

func TestRunServesRealListener(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}

	srv := newServerWithSource(testConfig(), nil, testutil.NewReadySource(testutil.SamplePlayers(1)), metrics.NewRecorder())
	base := srv.httpServer.(netHTTPServer)
	srv.httpServer = netHTTPServer{srv: base.srv, listener: l}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/health")
	if err != nil {
		cancel()
		t.Fatalf("health request failed: %v", err)
	}
	var body map[string]string
	decodeErr := jsoniter.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if decodeErr != nil || body["status"] != "ok" {
		cancel()
		t.Fatalf("unexpected health body %v (%v)", body, decodeErr)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}

func TestNewUsesConfiguredSource(t *testing.T) {
	srv := New(testConfig(), nil)
	t.Cleanup(srv.panel.Close)
	if srv.metrics == nil || srv.Handler() == nil {
		t.Fatalf("expected metrics and handler wired")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics server when disabled")
	}
}

func TestSelectSource(t *testing.T) {
	if _, ok := SelectSource(config.Config{Provider: config.ProviderFixture}, nil, nil).(*fixture.Source); !ok {
		t.Fatalf("expected fixture source")
	}

	src := SelectSource(config.Config{
		Provider: config.ProviderBalldontlie,
		Balldontlie: config.BalldontlieConfig{
			PlayersURL: "http://example.com/api/players",
			APIKey:     "key",
			Timeout:    time.Second,
		},
	}, nil, nil)
	client, ok := src.(*balldontlie.Client)
	if !ok {
		t.Fatalf("expected balldontlie client, got %T", src)
	}
	if client.PlayersURL() != "http://example.com/api/players" {
		t.Fatalf("unexpected players url %s", client.PlayersURL())
	}

	logger, buf := testutil.NewBufferLogger()
	if _, ok := SelectSource(config.Config{Provider: "espn"}, logger, nil).(*fixture.Source); !ok {
		t.Fatalf("expected fixture fallback for unknown provider")
	}
	if !strings.Contains(buf.String(), "unknown provider") {
		t.Fatalf("expected fallback warning, got %s", buf.String())
	}
}
