package spectate

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-piano/engine"
	"github.com/lixenwraith/vi-piano/game"
	"github.com/lixenwraith/vi-piano/keymap"
	"github.com/lixenwraith/vi-piano/status"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPublisherTracksSignals(t *testing.T) {
	clock := engine.NewManualScheduler(epoch)
	p := NewPublisher(clock)

	s := p.Snapshot()
	assert.Equal(t, "NotStarted", s.State)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, epoch, s.UpdatedAt)

	p.OnLevelAdvance(3, game.Objective{keymap.KeyA, keymap.KeyS, keymap.KeyD, keymap.KeyF})
	p.OnObjectiveProgress([]keymap.ReferenceKey{keymap.KeyA})
	clock.Advance(time.Second)
	p.OnTimerTick(4200 * time.Millisecond)
	p.OnKeyState("C5", true)
	p.OnKeyState("A4", true)

	s = p.Snapshot()
	assert.Equal(t, "AwaitingInput", s.State)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, []string{"A", "S", "D", "F"}, s.Objective)
	assert.Equal(t, []string{"A"}, s.Progress)
	assert.EqualValues(t, 4200, s.RemainingMS)
	assert.Equal(t, []string{"A4", "C5"}, s.Held)
	assert.Equal(t, epoch.Add(time.Second), s.UpdatedAt)

	p.OnKeyState("C5", false)
	p.OnTimeout()
	p.OnCooldownTick(7 * time.Second)
	s = p.Snapshot()
	assert.Equal(t, "TimedOut", s.State)
	assert.EqualValues(t, 7000, s.CooldownMS)
	assert.Equal(t, []string{"A4"}, s.Held)

	p.OnRestart()
	s = p.Snapshot()
	assert.Equal(t, "NotStarted", s.State)
	assert.Equal(t, 1, s.Level)
	assert.Empty(t, s.Objective)
}

func TestPublisherSnapshotIsImmutable(t *testing.T) {
	p := NewPublisher(nil)
	p.OnObjectiveProgress([]keymap.ReferenceKey{keymap.KeyA})
	before := p.Snapshot()
	p.OnObjectiveProgress([]keymap.ReferenceKey{keymap.KeyS, keymap.KeyD})
	assert.Equal(t, []string{"A"}, before.Progress)
}

func TestServerEndpoints(t *testing.T) {
	p := NewPublisher(nil)
	p.OnLevelAdvance(1, game.Objective{keymap.KeyG, keymap.KeyH})
	reg := status.NewRegistry()
	reg.Ints.Get(status.KeyLevel).Store(1)

	ts := httptest.NewServer(NewServer("", p, reg, nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var st State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, []string{"G", "H"}, st.Objective)

	resp2, err := http.Get(ts.URL + "/api/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var snap status.Snapshot
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&snap))
	assert.EqualValues(t, 1, snap.Ints[status.KeyLevel])

	resp3, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)

	resp4, err := http.Post(ts.URL+"/api/state", "application/json", nil)
	require.NoError(t, err)
	resp4.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp4.StatusCode)
}

func TestServerWithoutPublisher(t *testing.T) {
	h := NewServer("", nil, nil, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerCORS(t *testing.T) {
	h := NewServer("", NewPublisher(nil), nil, nil).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerShutdownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- NewServer("", NewPublisher(nil), nil, nil).Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
