package game

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-piano/engine"
	"github.com/lixenwraith/vi-piano/keymap"
	"github.com/lixenwraith/vi-piano/status"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// recorder captures every observer signal in order
type recorder struct {
	events    []string
	ticks     []time.Duration
	cooldowns []time.Duration
	levels    []int
	progress  [][]keymap.ReferenceKey
	keyStates map[keymap.Note]bool
}

func newRecorder() *recorder {
	return &recorder{keyStates: make(map[keymap.Note]bool)}
}

func (r *recorder) OnTimerTick(remaining time.Duration) {
	r.ticks = append(r.ticks, remaining)
}

func (r *recorder) OnLevelAdvance(level int, objective Objective) {
	r.levels = append(r.levels, level)
	r.events = append(r.events, fmt.Sprintf("advance %d %v", level, objective.Strings()))
}

func (r *recorder) OnObjectiveProgress(progress []keymap.ReferenceKey) {
	r.progress = append(r.progress, progress)
}

func (r *recorder) OnLevelComplete() { r.events = append(r.events, "complete") }
func (r *recorder) OnTimeout()       { r.events = append(r.events, "timeout") }
func (r *recorder) OnRestart()       { r.events = append(r.events, "restart") }

func (r *recorder) OnCooldownTick(remaining time.Duration) {
	r.cooldowns = append(r.cooldowns, remaining)
}

func (r *recorder) OnKeyState(note keymap.Note, active bool) {
	r.keyStates[note] = active
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

// sinkLog captures NoteSink calls
type sinkLog struct {
	calls []string
}

func (s *sinkLog) NoteOn(n keymap.Note)  { s.calls = append(s.calls, "on "+string(n)) }
func (s *sinkLog) NoteOff(n keymap.Note) { s.calls = append(s.calls, "off "+string(n)) }
func (s *sinkLog) ReleaseAll()           { s.calls = append(s.calls, "release all") }

type fixture struct {
	m     *Machine
	sched *engine.ManualScheduler
	obs   *recorder
	sink  *sinkLog
	reg   *status.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sched: engine.NewManualScheduler(epoch),
		obs:   newRecorder(),
		sink:  &sinkLog{},
		reg:   status.NewRegistry(),
	}
	m, err := NewMachine(Config{
		Scheduler: f.sched,
		Clock:     f.sched,
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Observer:  f.obs,
		Sink:      f.sink,
		Registry:  f.reg,
	})
	require.NoError(t, err)
	f.m = m
	return f
}

// force replaces the current objective while keeping the machine state
func (f *fixture) force(obj ...keymap.ReferenceKey) {
	f.m.tracker.Load(obj)
}

// play presses and releases a white key in the Normal register
func (f *fixture) play(t *testing.T, key keymap.ReferenceKey) error {
	t.Helper()
	_, err := f.m.KeyPressed(string(key), keymap.Modifiers{})
	f.m.KeyReleased(string(key))
	return err
}
