package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreen struct{ finis int }

func (f *fakeScreen) Fini() { f.finis++ }

func stubExit(t *testing.T) *int {
	t.Helper()
	code := -1
	prev := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = prev })
	return &code
}

func TestHandleCrashRestoresScreenAndExits(t *testing.T) {
	code := stubExit(t)
	screen := &fakeScreen{}
	SetCrashScreen(screen)

	HandleCrash("boom")

	assert.Equal(t, 1, screen.finis)
	assert.Equal(t, 1, *code)

	// Screen is released after the first crash
	HandleCrash("again")
	assert.Equal(t, 1, screen.finis)
}

func TestHandleCrashNil(t *testing.T) {
	code := stubExit(t)
	HandleCrash(nil)
	assert.Equal(t, -1, *code)
}

func TestGoSafeContainsPanic(t *testing.T) {
	got := make(chan any, 1)
	GoSafe(func() { panic("session died") }, func(r any) { got <- r })

	select {
	case r := <-got:
		assert.Equal(t, "session died", r)
	case <-time.After(time.Second):
		t.Fatal("panic callback not invoked")
	}
}

func TestInitCrashReportingWithoutDSN(t *testing.T) {
	require.NoError(t, InitCrashReporting("", "test"))
	assert.False(t, CrashReportingEnabled())
	FlushCrashReports(time.Millisecond)
}
