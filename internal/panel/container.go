// Package panel holds the container of the player panel: the show/cancel
// state machine, the cancellation handle and the last abort reason.
package panel

import (
	"context"
	"log/slog"
	"sync"

	"github.com/preston-bernstein/nba-player-panel/internal/cancel"
	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
	"github.com/preston-bernstein/nba-player-panel/internal/logging"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
	"github.com/preston-bernstein/nba-player-panel/internal/providers"
	"github.com/preston-bernstein/nba-player-panel/internal/roster"
)

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the container logger; the list inherits it.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithRecorder sets the metrics recorder; the list inherits it.
func WithRecorder(recorder *metrics.Recorder) Option {
	return func(c *Container) { c.recorder = recorder }
}

// WithLabel names the players source in logs and metrics.
func WithLabel(label string) Option {
	return func(c *Container) { c.label = label }
}

// Container toggles between Hidden and Shown and owns the cancellation handle.
type Container struct {
	source   providers.PlayersSource
	logger   *slog.Logger
	recorder *metrics.Recorder
	label    string

	// transition serializes Show/Cancel; mu guards the fields below it.
	transition sync.Mutex

	mu     sync.RWMutex
	state  State
	reason string
	handle *cancel.Handle
	list   *roster.List

	changes chan struct{}
}

// New returns a Hidden container with a fresh handle.
func New(source providers.PlayersSource, opts ...Option) *Container {
	c := &Container{
		source:  source,
		handle:  cancel.New(),
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show mounts the players list bound to the container's handle. A handle
// aborted by a previous Cancel is replaced first. No-op while Shown.
func (c *Container) Show(ctx context.Context) error {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.mu.Lock()
	if c.state == Shown {
		c.mu.Unlock()
		return nil
	}
	if c.handle.Aborted() {
		c.handle = cancel.New()
	}
	list := roster.NewList(c.source, c.handle, c,
		roster.WithLogger(c.logger),
		roster.WithRecorder(c.recorder),
		roster.WithLabel(c.label),
		roster.OnChange(c.notify),
	)
	c.list = list
	c.state = Shown
	c.mu.Unlock()

	if err := list.Mount(ctx); err != nil {
		c.mu.Lock()
		c.state = Hidden
		c.list = nil
		c.mu.Unlock()
		return err
	}

	c.recorder.RecordTransition(Shown.String())
	logging.Info(c.logger, "panel shown", slog.String(logging.FieldState, Shown.String()))
	c.notify()
	return nil
}

// Cancel hides the list. Unmounting aborts the handle, so an in-flight fetch
// ends and its reason becomes the fallback text. No-op while Hidden.
func (c *Container) Cancel() {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.mu.Lock()
	if c.state == Hidden {
		c.mu.Unlock()
		return
	}
	list := c.list
	c.state = Hidden
	c.list = nil
	c.mu.Unlock()

	// Unmount waits for the fetch, which may call SetAbortReason; mu must be free.
	if list != nil {
		list.Unmount()
	}

	c.recorder.RecordTransition(Hidden.String())
	logging.Info(c.logger, "panel hidden",
		slog.String(logging.FieldState, Hidden.String()),
		slog.String(logging.FieldReason, c.Reason()),
	)
	c.notify()
}

// Close releases the list, if shown.
func (c *Container) Close() {
	c.Cancel()
}

// SetAbortReason records the text shown while Hidden.
func (c *Container) SetAbortReason(reason string) {
	c.mu.Lock()
	changed := c.reason != reason
	c.reason = reason
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// Reason returns the last recorded abort reason.
func (c *Container) Reason() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reason
}

// State returns the current state.
func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Handle returns the handle the next or current fetch is bound to.
func (c *Container) Handle() *cancel.Handle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.handle
}

// View snapshots what the panel displays right now.
func (c *Container) View() View {
	c.mu.RLock()
	state, reason, list := c.state, c.reason, c.list
	c.mu.RUnlock()

	if state == Shown && list != nil {
		return View{State: Shown, Players: list.Players()}
	}
	return View{State: Hidden, Players: []players.DisplayPlayer{}, Reason: reason}
}

// Changes delivers a coalesced signal after any state, list or reason change.
func (c *Container) Changes() <-chan struct{} {
	return c.changes
}

func (c *Container) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}
