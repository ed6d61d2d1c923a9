package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	attempts         int
	errors           int
	cancellations    int
	settledNoAbort   int
	lastFetchLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about fetches and panel transitions.
// When built by Setup it also forwards every observation to OpenTelemetry instruments.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*sourceStats
	transitions map[string]int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:       make(map[string]*sourceStats),
		transitions: make(map[string]int),
		otel:        otel,
	}
}

// RecordFetch counts one fetch attempt for source and stores its latency.
// A cancelled fetch counts as a cancellation, not as an error.
func (r *Recorder) RecordFetch(source string, duration time.Duration, err error, cancelled bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(source)
	stats.attempts++
	stats.lastFetchLatency = duration
	switch {
	case cancelled:
		stats.cancellations++
	case err != nil:
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordFetch(source, duration, err, cancelled)
	}
}

// RecordSettledWithoutAbort counts list updates that landed while the handle was still live.
func (r *Recorder) RecordSettledWithoutAbort(source string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureStats(source).settledNoAbort++
	r.mu.Unlock()
}

// RecordTransition counts a panel state change into state.
func (r *Recorder) RecordTransition(state string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.transitions[state]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordTransition(state)
	}
}

// Transitions returns how many times the panel entered state.
func (r *Recorder) Transitions(state string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitions[state]
}

// FetchAttempts returns the total attempts recorded for a source.
func (r *Recorder) FetchAttempts(source string) int {
	return r.Snapshot(source).Attempts
}

// FetchErrors returns the failed, non-cancelled attempts recorded for a source.
func (r *Recorder) FetchErrors(source string) int {
	return r.Snapshot(source).Errors
}

// Cancellations returns the number of fetches that ended because the handle was aborted.
func (r *Recorder) Cancellations(source string) int {
	return r.Snapshot(source).Cancellations
}

// Snapshot is a copy of the current stats for a source.
type Snapshot struct {
	Attempts            int
	Errors              int
	Cancellations       int
	SettledWithoutAbort int
	LastFetchLatency    time.Duration
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[source]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Attempts:            stats.attempts,
		Errors:              stats.errors,
		Cancellations:       stats.cancellations,
		SettledWithoutAbort: stats.settledNoAbort,
		LastFetchLatency:    stats.lastFetchLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(source string) *sourceStats {
	stats, ok := r.stats[source]
	if !ok {
		stats = &sourceStats{}
		r.stats[source] = stats
	}
	return stats
}
