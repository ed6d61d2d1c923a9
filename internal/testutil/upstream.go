package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// Upstream is a fake players endpoint. When gated, every request blocks until
// Release is called or the client goes away.
type Upstream struct {
	*httptest.Server

	status   int
	body     string
	gate     chan struct{}
	once     sync.Once
	requests atomic.Int32
	arrived  chan struct{}
	lastAuth atomic.Value
}

// NewUpstream starts a fake endpoint answering status/body. It is closed with the test.
func NewUpstream(t *testing.T, status int, body string) *Upstream {
	t.Helper()
	u := &Upstream{status: status, body: body, arrived: make(chan struct{}, 16)}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(func() {
		u.Release()
		u.Server.Close()
	})
	return u
}

// NewGatedUpstream is NewUpstream with responses held back until Release.
func NewGatedUpstream(t *testing.T, status int, body string) *Upstream {
	t.Helper()
	u := &Upstream{status: status, body: body, gate: make(chan struct{}), arrived: make(chan struct{}, 16)}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(func() {
		u.Release()
		u.Server.Close()
	})
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.requests.Add(1)
	u.lastAuth.Store(r.Header.Get("Authorization"))
	select {
	case u.arrived <- struct{}{}:
	default:
	}
	if u.gate != nil {
		select {
		case <-u.gate:
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(u.status)
	_, _ = w.Write([]byte(u.body))
}

// Release lets held requests complete. Safe to call more than once.
func (u *Upstream) Release() {
	if u.gate == nil {
		return
	}
	u.once.Do(func() { close(u.gate) })
}

// Arrived signals each time a request reaches the server.
func (u *Upstream) Arrived() <-chan struct{} { return u.arrived }

// Requests returns how many requests reached the server.
func (u *Upstream) Requests() int { return int(u.requests.Load()) }

// LastAuthorization returns the Authorization header of the latest request.
func (u *Upstream) LastAuthorization() string {
	v, _ := u.lastAuth.Load().(string)
	return v
}
