package session

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-piano/engine"
	"github.com/lixenwraith/vi-piano/game"
	"github.com/lixenwraith/vi-piano/record"
	"github.com/lixenwraith/vi-piano/spectate"
	"github.com/lixenwraith/vi-piano/status"
)

type fixture struct {
	screen tcell.SimulationScreen
	sess   *Session
	pub    *spectate.Publisher
	rec    *record.Recorder
	reg    *status.Registry
	done   chan error
	cancel context.CancelFunc
}

func startSession(t *testing.T, opts ...func(*Config)) *fixture {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(130, 26)

	f := &fixture{
		screen: screen,
		pub:    spectate.NewPublisher(nil),
		rec:    record.NewRecorder(engine.NewMonotonicTimeProvider(), "test"),
		reg:    status.NewRegistry(),
		done:   make(chan error, 1),
	}
	cfg := Config{
		Screen:       screen,
		Observers:    []game.Observer{f.pub},
		Sinks:        []game.NoteSink{f.rec},
		Registry:     f.reg,
		Seed:         7,
		ReleaseDelay: 30 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	sess, err := New(cfg)
	require.NoError(t, err)
	f.sess = sess

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() { f.done <- sess.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-f.done:
		case <-time.After(2 * time.Second):
			t.Error("session did not stop")
		}
		screen.Fini()
	})
	return f
}

func (f *fixture) key(k tcell.Key, r rune, mod tcell.ModMask) {
	f.screen.InjectKey(k, r, mod)
}

func (f *fixture) screenContains(s string) func() bool {
	return func() bool {
		cells, w, _ := f.screen.GetContents()
		var sb strings.Builder
		for i, c := range cells {
			if len(c.Runes) > 0 {
				sb.WriteRune(c.Runes[0])
			} else {
				sb.WriteRune(' ')
			}
			if (i+1)%w == 0 {
				sb.WriteRune('\n')
			}
		}
		return strings.Contains(sb.String(), s)
	}
}

func TestNewRequiresScreen(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoScreen)
}

func TestSessionStartAndPlay(t *testing.T) {
	f := startSession(t)
	assert.Eventually(t, f.screenContains("Press SPACE to start"), time.Second, 10*time.Millisecond)

	// The piano sounds before the game starts
	f.key(tcell.KeyRune, 'a', tcell.ModNone)
	assert.Eventually(t, func() bool { return f.rec.Len() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "NotStarted", f.pub.Snapshot().State)

	f.key(tcell.KeyRune, ' ', tcell.ModNone)
	assert.Eventually(t, func() bool {
		return f.pub.Snapshot().State == "AwaitingInput"
	}, time.Second, 5*time.Millisecond)

	snap := f.pub.Snapshot()
	assert.Equal(t, 1, snap.Level)
	assert.Len(t, snap.Objective, 2)
	assert.Eventually(t, f.screenContains("Objective: "), time.Second, 10*time.Millisecond)

	// The synthesized release closes the note in the recording
	assert.Eventually(t, func() bool { return f.rec.Len() >= 2 }, time.Second, 5*time.Millisecond)
}

func withSlowRelease(c *Config) {
	c.ReleaseDelay = 3 * time.Second
}

func TestSessionDoubleTapPlaysTwice(t *testing.T) {
	f := startSession(t, withSlowRelease)
	assert.Eventually(t, f.screenContains("Press SPACE"), time.Second, 10*time.Millisecond)

	f.key(tcell.KeyRune, 'a', tcell.ModNone)
	assert.Eventually(t, func() bool { return f.rec.Len() == 1 }, time.Second, 5*time.Millisecond)

	// Slower than autorepeat, well inside the release delay
	time.Sleep(200 * time.Millisecond)
	f.key(tcell.KeyRune, 'a', tcell.ModNone)
	assert.Eventually(t, func() bool { return f.rec.Len() == 3 }, time.Second, 5*time.Millisecond)

	events := f.rec.Events()
	require.Len(t, events, 3)
	for i, on := range []bool{true, false, true} {
		assert.Equal(t, "C5", string(events[i].Note))
		assert.Equal(t, on, events[i].On, i)
	}
}

func TestSessionRepeatedObjectiveKeysComplete(t *testing.T) {
	f := startSession(t, withSlowRelease)
	f.key(tcell.KeyRune, ' ', tcell.ModNone)
	assert.Eventually(t, func() bool {
		return f.pub.Snapshot().State == "AwaitingInput"
	}, time.Second, 5*time.Millisecond)

	// Every key stays held by the slow release, repeats must still count
	for _, k := range f.pub.Snapshot().Objective {
		f.key(tcell.KeyRune, unicode.ToLower(rune(k[0])), tcell.ModNone)
		time.Sleep(200 * time.Millisecond)
	}
	assert.Eventually(t, func() bool {
		return f.pub.Snapshot().State == "LevelComplete"
	}, time.Second, 5*time.Millisecond)
}

func TestSessionSettings(t *testing.T) {
	f := startSession(t)

	f.key(tcell.KeyTab, 0, tcell.ModNone)
	assert.Eventually(t, func() bool {
		return f.reg.Bools.Get(status.KeyLowerLock).Load()
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, f.screenContains("LOWER"), time.Second, 10*time.Millisecond)

	f.key(tcell.KeyRune, '=', tcell.ModNone)
	assert.Eventually(t, func() bool {
		return f.reg.Strings.Get(status.KeyScale).Load() == "A Major"
	}, time.Second, 5*time.Millisecond)

	f.key(tcell.KeyRune, '-', tcell.ModNone)
	f.key(tcell.KeyRune, '-', tcell.ModNone)
	assert.Eventually(t, func() bool {
		return f.reg.Strings.Get(status.KeyScale).Load() == "Ab Minor"
	}, time.Second, 5*time.Millisecond)

	assert.False(t, f.reg.Bools.Get(status.KeyAudioEnabled).Load())
	assert.Eventually(t, f.screenContains("Audio: off"), time.Second, 10*time.Millisecond)
}

func TestSessionMouse(t *testing.T) {
	f := startSession(t)
	assert.Eventually(t, f.screenContains("Press SPACE"), time.Second, 10*time.Millisecond)

	// Bottom row of the first white key is C4
	f.screen.InjectMouse(3, 16, tcell.Button1, tcell.ModNone)
	assert.Eventually(t, func() bool {
		held := f.pub.Snapshot().Held
		return len(held) == 1 && held[0] == "C4"
	}, time.Second, 5*time.Millisecond)

	f.screen.InjectMouse(3, 16, tcell.ButtonNone, tcell.ModNone)
	assert.Eventually(t, func() bool {
		return len(f.pub.Snapshot().Held) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSessionQuit(t *testing.T) {
	f := startSession(t)
	f.key(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-f.done:
		assert.NoError(t, err)
		// Cleanup must not wait on an already finished session
		f.done <- nil
	case <-time.After(2 * time.Second):
		t.Fatal("session did not quit")
	}
}

func TestSessionContextCancel(t *testing.T) {
	f := startSession(t)
	f.cancel()

	select {
	case err := <-f.done:
		assert.ErrorIs(t, err, context.Canceled)
		f.done <- err
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
}
