package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/nba-player-panel/internal/cancel"
	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
	"github.com/preston-bernstein/nba-player-panel/internal/fetch"
)

// GatedSource is an in-memory players source whose fetches block until
// Release, the handle aborts, or ctx ends. It honors the handle the same way
// the HTTP-backed fetch does.
type GatedSource struct {
	Players []players.DisplayPlayer
	Err     error

	gate    chan struct{}
	once    sync.Once
	calls   atomic.Int32
	started chan struct{}
}

// NewGatedSource returns a source that holds every fetch until Release.
func NewGatedSource(items []players.DisplayPlayer) *GatedSource {
	return &GatedSource{Players: items, gate: make(chan struct{}), started: make(chan struct{}, 16)}
}

// NewReadySource returns a source whose fetches complete immediately.
func NewReadySource(items []players.DisplayPlayer) *GatedSource {
	s := NewGatedSource(items)
	s.Release()
	return s
}

// PlayersFetch satisfies the list component's source contract.
func (s *GatedSource) PlayersFetch(handle *cancel.Handle) (fetch.Operation[[]players.DisplayPlayer], fetch.Teardown) {
	op := func(ctx context.Context) ([]players.DisplayPlayer, error) {
		s.calls.Add(1)
		select {
		case s.started <- struct{}{}:
		default:
		}
		select {
		case <-handle.Done():
			return nil, &fetch.CancelledError{Reason: handle.Reason()}
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.gate:
		}
		if handle.Aborted() {
			return nil, &fetch.CancelledError{Reason: handle.Reason()}
		}
		if s.Err != nil {
			return nil, s.Err
		}
		out := make([]players.DisplayPlayer, len(s.Players))
		copy(out, s.Players)
		return out, nil
	}
	teardown := func() { handle.Abort(fetch.UnmountReason) }
	return op, teardown
}

// Release lets pending and future fetches complete.
func (s *GatedSource) Release() {
	s.once.Do(func() { close(s.gate) })
}

// Started signals each time a fetch begins running.
func (s *GatedSource) Started() <-chan struct{} { return s.started }

// Calls returns how many fetches ran.
func (s *GatedSource) Calls() int { return int(s.calls.Load()) }
