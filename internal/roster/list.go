// Package roster implements the players list: one cancellable fetch per
// mount, the fetched records while mounted, nothing after.
package roster

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/preston-bernstein/nba-player-panel/internal/cancel"
	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
	"github.com/preston-bernstein/nba-player-panel/internal/fetch"
	"github.com/preston-bernstein/nba-player-panel/internal/logging"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
	"github.com/preston-bernstein/nba-player-panel/internal/providers"
)

// ErrAlreadyMounted is returned by Mount while a previous mount is still live.
var ErrAlreadyMounted = errors.New("roster: list already mounted")

const defaultLabel = "players"

// ReasonSetter receives the abort reason shown in place of the list.
type ReasonSetter interface {
	SetAbortReason(reason string)
}

// Option configures a List.
type Option func(*List)

// WithLogger sets the list logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *List) { l.logger = logger }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder *metrics.Recorder) Option {
	return func(l *List) { l.recorder = recorder }
}

// WithLabel names the list in logs and metrics.
func WithLabel(label string) Option {
	return func(l *List) {
		if label != "" {
			l.label = label
		}
	}
}

// OnChange registers fn to run after every change of the stored players.
func OnChange(fn func()) Option {
	return func(l *List) { l.onChange = fn }
}

// List owns the fetch lifecycle of one players list.
type List struct {
	source   providers.PlayersSource
	handle   *cancel.Handle
	reasons  ReasonSetter
	logger   *slog.Logger
	recorder *metrics.Recorder
	label    string
	onChange func()

	mu       sync.Mutex
	players  []players.DisplayPlayer
	mounted  bool
	mountID  string
	teardown fetch.Teardown
	stop     context.CancelFunc
	wg       *conc.WaitGroup
}

// NewList binds a list to source and to a handle owned by the caller.
func NewList(source providers.PlayersSource, handle *cancel.Handle, reasons ReasonSetter, opts ...Option) *List {
	l := &List{
		source:  source,
		handle:  handle,
		reasons: reasons,
		label:   defaultLabel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mount resets the abort reason and starts the fetch in the background.
// ctx bounds the fetch in addition to the handle.
func (l *List) Mount(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	l.mu.Lock()
	if l.mounted {
		l.mu.Unlock()
		return ErrAlreadyMounted
	}
	id := uuid.NewString()
	op, teardown := l.source.PlayersFetch(l.handle)
	runCtx, stop := context.WithCancel(ctx)
	wg := conc.NewWaitGroup()
	l.mounted = true
	l.mountID = id
	l.teardown = teardown
	l.stop = stop
	l.wg = wg
	l.mu.Unlock()

	l.reasons.SetAbortReason("")
	logging.Debug(l.logger, "list mounted",
		slog.String(logging.FieldSource, l.label),
		slog.String(logging.FieldMountID, id),
	)

	wg.Go(func() { l.load(runCtx, id, op) })
	return nil
}

// Unmount aborts the fetch through its teardown, waits for it to settle and
// clears the list. Unmounting an unmounted list is a no-op.
func (l *List) Unmount() {
	l.mu.Lock()
	if !l.mounted {
		l.mu.Unlock()
		return
	}
	l.mounted = false
	id, teardown, stop, wg := l.mountID, l.teardown, l.stop, l.wg
	l.teardown, l.stop, l.wg = nil, nil, nil
	l.mu.Unlock()

	// Abort before cancelling ctx so the fetch reports the handle's reason.
	teardown()
	wg.Wait()
	stop()

	l.mu.Lock()
	hadPlayers := len(l.players) > 0
	l.players = nil
	l.mu.Unlock()

	logging.Debug(l.logger, "list unmounted",
		slog.String(logging.FieldSource, l.label),
		slog.String(logging.FieldMountID, id),
		slog.String(logging.FieldReason, l.handle.Reason()),
	)
	if hadPlayers && l.onChange != nil {
		l.onChange()
	}
}

// Players returns a copy of the stored players.
func (l *List) Players() []players.DisplayPlayer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]players.DisplayPlayer, len(l.players))
	copy(out, l.players)
	return out
}

// Mounted reports whether a mount is live.
func (l *List) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

func (l *List) load(ctx context.Context, id string, op fetch.Operation[[]players.DisplayPlayer]) {
	result, err := op(ctx)
	if err != nil {
		if l.handle.Aborted() {
			l.reasons.SetAbortReason(l.handle.Reason())
			return
		}
		logging.Error(l.logger, "request not aborted", err,
			slog.String(logging.FieldSource, l.label),
			slog.String(logging.FieldMountID, id),
		)
		return
	}
	l.store(id, result)
}

// store drops results of a mount that is gone or whose handle was aborted.
func (l *List) store(id string, items []players.DisplayPlayer) {
	l.mu.Lock()
	if !l.mounted || l.mountID != id || l.handle.Aborted() {
		l.mu.Unlock()
		return
	}
	l.players = items
	l.mu.Unlock()

	logging.Debug(l.logger, "players stored",
		slog.String(logging.FieldSource, l.label),
		slog.String(logging.FieldMountID, id),
		slog.Int(logging.FieldCount, len(items)),
	)
	l.afterChange(id)
}

// afterChange runs on every list update: an aborted handle clears the list
// again, a live one is only noted as a diagnostic.
func (l *List) afterChange(id string) {
	if l.handle.Aborted() {
		l.mu.Lock()
		l.players = nil
		l.mu.Unlock()
	} else {
		logging.Debug(l.logger, "fetch settled without abort",
			slog.String(logging.FieldSource, l.label),
			slog.String(logging.FieldMountID, id),
		)
		l.recorder.RecordSettledWithoutAbort(l.label)
	}
	if l.onChange != nil {
		l.onChange()
	}
}
