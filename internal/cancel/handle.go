// Package cancel provides the cancellation handle shared between the panel
// container and the fetch it starts.
//
// A Handle is aborted at most once and carries a human-readable reason from
// that point on. It is safe for concurrent use.
package cancel

import (
	"context"
	"sync"
)

// DefaultReason is recorded when Abort is called with an empty reason.
const DefaultReason = "signal is aborted without reason"

// AbortError is the cancellation cause of a Handle.
type AbortError struct {
	Reason string
}

func (e *AbortError) Error() string {
	return "aborted: " + e.Reason
}

// Handle represents "this operation may be aborted".
type Handle struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu     sync.Mutex
	reason string
}

// New returns a live handle.
func New() *Handle {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &Handle{ctx: ctx, cancel: cancel}
}

// Abort triggers cancellation with reason. Only the first call has an
// effect; it reports whether this call was the one that aborted.
func (h *Handle) Abort(reason string) bool {
	if reason == "" {
		reason = DefaultReason
	}

	h.mu.Lock()
	if h.reason != "" {
		h.mu.Unlock()
		return false
	}
	h.reason = reason
	h.mu.Unlock()

	h.cancel(&AbortError{Reason: reason})
	return true
}

// Aborted reports whether Abort has been called.
func (h *Handle) Aborted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reason != ""
}

// Reason returns the abort reason, or "" while the handle is live.
func (h *Handle) Reason() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reason
}

// Done is closed once the handle is aborted.
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Err returns the *AbortError once aborted, nil before.
func (h *Handle) Err() error {
	if !h.Aborted() {
		return nil
	}
	return context.Cause(h.ctx)
}

// Bind derives a context from parent that is also cancelled when the handle
// aborts. The returned context's cause is the *AbortError in that case.
// Callers must call the returned CancelFunc to release the binding.
func (h *Handle) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	stop := context.AfterFunc(h.ctx, func() {
		cancel(context.Cause(h.ctx))
	})
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
