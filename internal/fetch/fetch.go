// Package fetch wraps a single GET request with a cancellation handle and an
// artificial delay, producing a deferred operation the caller runs later.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/preston-bernstein/nba-player-panel/internal/cancel"
	"github.com/preston-bernstein/nba-player-panel/internal/logging"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
)

// UnmountReason is the abort reason used by the teardown.
const UnmountReason = "Aborted! component was unmount"

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultSource      = "fetch"
	errorBodyLimit     = 512
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Operation runs the fetch. It blocks until the result is known.
type Operation[R any] func(ctx context.Context) (R, error)

// Teardown aborts the handle the operation is bound to. Safe to call repeatedly.
type Teardown func()

// Options tune a fetch. The zero value issues the request immediately with a
// default client.
type Options struct {
	// Source labels logs and metrics (e.g. "balldontlie").
	Source string
	// Delay is waited before the request is sent; <= 0 disables it.
	Delay      time.Duration
	Header     http.Header
	HTTPClient *http.Client
	Logger     *slog.Logger
	Recorder   *metrics.Recorder
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type fetcher[T, R any] struct {
	url       string
	handle    *cancel.Handle
	opts      Options
	client    httpDoer
	transform func(T) (R, error)
}

// New builds the deferred fetch of url bound to handle. The response body is
// decoded as JSON into T and passed through transform; a nil transform
// requires R and T to be the same type.
func New[T, R any](url string, handle *cancel.Handle, opts Options, transform func(T) (R, error)) (Operation[R], Teardown) {
	if opts.Source == "" {
		opts.Source = defaultSource
	}
	f := &fetcher[T, R]{
		url:       url,
		handle:    handle,
		opts:      opts,
		client:    resolveHTTPClient(opts.HTTPClient),
		transform: transform,
	}
	return f.do, f.teardown
}

func (f *fetcher[T, R]) do(ctx context.Context) (R, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	result, err := f.run(ctx)
	duration := time.Since(start)

	reason, cancelled := IsCancelled(err)
	f.opts.Recorder.RecordFetch(f.opts.Source, duration, err, cancelled)

	args := []any{
		slog.String(logging.FieldSource, f.opts.Source),
		slog.String(logging.FieldURL, f.url),
		slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
	}
	switch {
	case cancelled:
		logging.Debug(f.opts.Logger, "fetch cancelled", append(args, slog.String(logging.FieldReason, reason))...)
	case err != nil:
		logging.Debug(f.opts.Logger, "fetch failed", append(args, "error", err)...)
	default:
		logging.Debug(f.opts.Logger, "fetch completed", args...)
	}
	return result, err
}

func (f *fetcher[T, R]) run(ctx context.Context) (R, error) {
	var zero R

	bound, release := f.handle.Bind(ctx)
	defer release()

	if err := wait(bound, f.opts.Delay); err != nil {
		return zero, f.failure(err)
	}

	req, err := http.NewRequestWithContext(bound, http.MethodGet, f.url, nil)
	if err != nil {
		return zero, errors.Wrap(err, "build request")
	}
	for key, values := range f.opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return zero, f.failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return zero, f.failure(errors.Wrapf(ErrRequestFailed, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var payload T
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return zero, f.failure(errors.Wrap(err, "decode response"))
	}

	// The response may have raced an abort; the handle decides.
	if f.handle.Aborted() {
		return zero, f.failure(nil)
	}
	return f.apply(payload)
}

func (f *fetcher[T, R]) apply(payload T) (R, error) {
	if f.transform != nil {
		return f.transform(payload)
	}
	if same, ok := any(payload).(R); ok {
		return same, nil
	}
	var zero R
	return zero, errors.Newf("fetch: no transform from %T to %T", payload, zero)
}

// failure reports err as a cancellation whenever the handle has been aborted.
func (f *fetcher[T, R]) failure(err error) error {
	if f.handle.Aborted() {
		return &CancelledError{Reason: f.handle.Reason(), cause: err}
	}
	return err
}

func (f *fetcher[T, R]) teardown() {
	if f.handle.Abort(UnmountReason) {
		logging.Debug(f.opts.Logger, "fetch torn down",
			slog.String(logging.FieldSource, f.opts.Source),
			slog.String(logging.FieldReason, UnmountReason),
		)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}
