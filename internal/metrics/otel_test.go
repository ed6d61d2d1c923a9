package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestSetupDisabledReturnsNoHandler(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled: false,
	})
	if err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recorder")
	}
	if handler != nil {
		t.Fatalf("expected nil handler when disabled")
	}
	if shutdown == nil {
		t.Fatalf("expected shutdown function")
	}
}

func TestSetupEnabledExportsPrometheusMetrics(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{
		Enabled:     true,
		ServiceName: "nba-player-panel",
		// No OTLP endpoint; uses Prometheus exporter only.
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec == nil || handler == nil || shutdown == nil {
		t.Fatalf("expected recorder, handler and shutdown")
	}
	defer func() { _ = shutdown(context.Background()) }()

	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	rec.RecordFetch("balldontlie", time.Millisecond, nil, false)
	rec.RecordFetch("balldontlie", time.Millisecond, errors.New("aborted"), true)
	rec.RecordTransition("shown")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, name := range []string{"fetch_attempts_total", "fetch_cancellations_total", "panel_transitions_total", "http_requests_total"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s in exported metrics", name)
		}
	}
	// 2000 is not a default boundary; it comes from the fetch latency view.
	if !strings.Contains(body, `le="2000"`) {
		t.Fatalf("expected fetch latency buckets around the fetch delay, got %s", body)
	}
	if rec.FetchAttempts("balldontlie") != 2 {
		t.Fatalf("expected in-memory stats alongside otel, got %d", rec.FetchAttempts("balldontlie"))
	}
}

func TestSetupPropagatesReaderFailure(t *testing.T) {
	orig := promReaderFactory
	t.Cleanup(func() { promReaderFactory = orig })
	promReaderFactory = func() (sdkmetric.Reader, http.Handler, error) {
		return nil, nil, errors.New("registry exploded")
	}

	if _, _, _, err := Setup(context.Background(), TelemetryConfig{Enabled: true}); err == nil {
		t.Fatal("expected setup error when prometheus reader fails")
	}
}
