package testutil

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// ErrListen is what FailingHTTPServer returns from ListenAndServe.
var ErrListen = errors.New("listen failure")

// StubHTTPServer records calls; ListenAndServe returns ListenErr immediately.
// Counters are atomic because the server calls ListenAndServe from its own goroutine.
type StubHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error

	listenCalls   atomic.Int32
	shutdownCalls atomic.Int32
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.listenCalls.Add(1)
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	s.shutdownCalls.Add(1)
	return s.ShutdownErr
}

func (s *StubHTTPServer) Addr() string { return s.AddrVal }

func (s *StubHTTPServer) Handler() http.Handler { return s.HandlerVal }

// ListenCalls reports how many times ListenAndServe ran.
func (s *StubHTTPServer) ListenCalls() int { return int(s.listenCalls.Load()) }

// ShutdownCalls reports how many times Shutdown ran.
func (s *StubHTTPServer) ShutdownCalls() int { return int(s.shutdownCalls.Load()) }

// NewFailingHTTPServer returns a stub whose listener fails with ErrListen.
func NewFailingHTTPServer() *StubHTTPServer {
	return &StubHTTPServer{AddrVal: ":0", HandlerVal: http.NewServeMux(), ListenErr: ErrListen}
}

// NewClosedHTTPServer returns a stub whose listener reports a clean close.
func NewClosedHTTPServer() *StubHTTPServer {
	return &StubHTTPServer{AddrVal: ":0", HandlerVal: http.NewServeMux(), ListenErr: http.ErrServerClosed}
}

// BlockingHTTPServer allows simulating a shutdown that waits on an unblock channel.
type BlockingHTTPServer struct {
	AddrVal    string
	HandlerVal http.Handler
	Unblock    chan struct{}

	shutdownCalls atomic.Int32
}

func (b *BlockingHTTPServer) ListenAndServe() error {
	return nil
}

func (b *BlockingHTTPServer) Shutdown(ctx context.Context) error {
	b.shutdownCalls.Add(1)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.Unblock:
		return nil
	}
}

func (b *BlockingHTTPServer) Addr() string { return b.AddrVal }

func (b *BlockingHTTPServer) Handler() http.Handler { return b.HandlerVal }

// ShutdownCalls reports how many times Shutdown ran.
func (b *BlockingHTTPServer) ShutdownCalls() int { return int(b.shutdownCalls.Load()) }
