package panel

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/nba-player-panel/internal/domain/players"
	"github.com/preston-bernstein/nba-player-panel/internal/fetch"
	"github.com/preston-bernstein/nba-player-panel/internal/metrics"
	"github.com/preston-bernstein/nba-player-panel/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-player-panel/internal/testutil"
)

func waitForPlayers(t *testing.T, c *Container, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.View().Players) == n }, 2*time.Second, 5*time.Millisecond)
}

func TestNewContainerStartsHidden(t *testing.T) {
	c := New(testutil.NewReadySource(nil))

	view := c.View()
	assert.Equal(t, Hidden, view.State)
	assert.Empty(t, view.Players)
	assert.Empty(t, view.Fallback())
	assert.False(t, c.Handle().Aborted())
}

func TestShowDisplaysFetchedPlayers(t *testing.T) {
	rec := metrics.NewRecorder()
	c := New(testutil.NewReadySource(testutil.SamplePlayers(3)), WithRecorder(rec))

	require.NoError(t, c.Show(context.Background()))
	assert.Equal(t, Shown, c.State())
	waitForPlayers(t, c, 3)

	view := c.View()
	for i, p := range view.Players {
		assert.Equal(t, testutil.SamplePlayers(3)[i].FullName, p.FullName)
	}
	assert.Equal(t, 1, rec.Transitions("shown"))
	c.Close()
}

func TestScenarioSinglePlayerThroughBalldontlie(t *testing.T) {
	upstream := testutil.NewUpstream(t, 200, testutil.SinglePlayerJSON)
	c := New(balldontlie.NewClient(balldontlie.Config{PlayersURL: upstream.URL}))

	require.NoError(t, c.Show(context.Background()))
	waitForPlayers(t, c, 1)

	assert.Equal(t, []players.DisplayPlayer{{ID: 1, FullName: "A B", Team: "T"}}, c.View().Players)
	c.Close()
}

func TestCancelBeforeResponseShowsUnmountReason(t *testing.T) {
	source := testutil.NewGatedSource(testutil.SamplePlayers(2))
	rec := metrics.NewRecorder()
	c := New(source, WithRecorder(rec))

	require.NoError(t, c.Show(context.Background()))
	<-source.Started()
	c.Cancel()
	source.Release()

	view := c.View()
	assert.Equal(t, Hidden, view.State)
	assert.Empty(t, view.Players)
	assert.Equal(t, fetch.UnmountReason, view.Reason)
	assert.Equal(t, "Aborted! component was unmount", view.Fallback())
	assert.Equal(t, 1, rec.Transitions("hidden"))
}

func TestCancelBeforeDelayElapsesNeverPopulates(t *testing.T) {
	upstream := testutil.NewUpstream(t, 200, testutil.PlayersJSON(5))
	c := New(balldontlie.NewClient(balldontlie.Config{PlayersURL: upstream.URL, Delay: time.Hour}))

	require.NoError(t, c.Show(context.Background()))
	c.Cancel()

	assert.Equal(t, 0, upstream.Requests(), "no request may leave after cancel during the delay")
	assert.Empty(t, c.View().Players)
	assert.Equal(t, fetch.UnmountReason, c.View().Reason)

	require.NoError(t, c.Show(context.Background()))
	assert.Empty(t, c.View().Players, "a new show starts from an empty list")
	c.Close()
}

func TestCancelInFlightRequestAgainstServer(t *testing.T) {
	upstream := testutil.NewGatedUpstream(t, 200, testutil.SinglePlayerJSON)
	c := New(balldontlie.NewClient(balldontlie.Config{PlayersURL: upstream.URL}))

	require.NoError(t, c.Show(context.Background()))
	<-upstream.Arrived()
	c.Cancel()
	upstream.Release()

	assert.Equal(t, Hidden, c.State())
	assert.Empty(t, c.View().Players)
	assert.Equal(t, fetch.UnmountReason, c.View().Reason)
}

func TestCancelAfterSuccessLeavesNoReason(t *testing.T) {
	c := New(testutil.NewReadySource(testutil.SamplePlayers(1)))

	require.NoError(t, c.Show(context.Background()))
	waitForPlayers(t, c, 1)
	c.Cancel()

	assert.Equal(t, Hidden, c.State())
	assert.Empty(t, c.View().Fallback(), "a completed fetch has nothing to report")
}

func TestShowAfterCancelArmsFreshHandleAndResetsReason(t *testing.T) {
	source := testutil.NewGatedSource(testutil.SamplePlayers(2))
	c := New(source)

	require.NoError(t, c.Show(context.Background()))
	first := c.Handle()
	c.Cancel()
	require.True(t, first.Aborted())
	require.Equal(t, fetch.UnmountReason, c.Reason())

	source.Release()
	require.NoError(t, c.Show(context.Background()))
	second := c.Handle()

	assert.NotSame(t, first, second)
	assert.False(t, second.Aborted())
	assert.Empty(t, c.Reason(), "each new fetch attempt resets the reason")
	waitForPlayers(t, c, 2)
	c.Close()
}

func TestShowAndCancelAreIdempotent(t *testing.T) {
	source := testutil.NewGatedSource(nil)
	c := New(source)

	c.Cancel()
	assert.Equal(t, Hidden, c.State())
	assert.Empty(t, c.Reason())

	require.NoError(t, c.Show(context.Background()))
	require.NoError(t, c.Show(context.Background()))
	c.Cancel()
	c.Cancel()

	assert.Equal(t, 1, source.Calls(), "second show must not start another fetch")
}

func TestRepeatedToggleLeavesNoResidualFetch(t *testing.T) {
	source := testutil.NewGatedSource(testutil.SamplePlayers(1))
	c := New(source)

	for i := 0; i < 20; i++ {
		require.NoError(t, c.Show(context.Background()))
		c.Cancel()
	}
	source.Release()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, Hidden, c.State())
	assert.Empty(t, c.View().Players)
}

func TestConcurrentTogglesAreSafe(t *testing.T) {
	c := New(testutil.NewReadySource(testutil.SamplePlayers(2)))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if (i+j)%2 == 0 {
					_ = c.Show(context.Background())
				} else {
					c.Cancel()
				}
				_ = c.View()
			}
		}(i)
	}
	wg.Wait()
	c.Close()

	assert.Equal(t, Hidden, c.State())
	assert.Empty(t, c.View().Players)
}

func TestChangesSignalsTransitions(t *testing.T) {
	c := New(testutil.NewGatedSource(nil))

	require.NoError(t, c.Show(context.Background()))
	select {
	case <-c.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected change notification after show")
	}
	c.Cancel()
	select {
	case <-c.Changes():
	case <-time.After(time.Second):
		t.Fatal("expected change notification after cancel")
	}
}

func TestViewJSONShape(t *testing.T) {
	c := New(testutil.NewGatedSource(nil))
	c.SetAbortReason("Aborted! component was unmount")

	raw, err := json.Marshal(c.View())
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"hidden","players":[],"reason":"Aborted! component was unmount"}`, string(raw))
}
