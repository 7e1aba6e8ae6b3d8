// Package game implements the timed note-matching minigame: objective
// generation, progress matching, the countdown and the level state machine
package game

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-piano/constant"
	"github.com/lixenwraith/vi-piano/engine"
	"github.com/lixenwraith/vi-piano/engine/fsm"
	"github.com/lixenwraith/vi-piano/keymap"
	"github.com/lixenwraith/vi-piano/status"
)

// Level states
const (
	StateNotStarted fsm.StateID = iota + 1
	StateAwaitingInput
	StateLevelComplete
	StateTimedOut
)

// Machine events
const (
	evStart fsm.EventType = iota + 1
	evComplete
	evTimeout
	evAdvance
	evRestart
)

// Config wires a Machine to its collaborators
// Only Scheduler is required
type Config struct {
	Scheduler engine.Scheduler
	Clock     engine.TimeProvider
	Rand      *rand.Rand
	Observer  Observer
	Sink      NoteSink
	Logger    *slog.Logger
	Registry  *status.Registry
}

// Machine owns level, objective, progress and countdown
// All methods must be called from the goroutine that runs scheduler callbacks
type Machine struct {
	fsm      *fsm.Machine[*Machine]
	sched    engine.Scheduler
	rng      *rand.Rand
	observer Observer
	sink     NoteSink
	log      *slog.Logger

	level     int
	tracker   Tracker
	countdown *Countdown

	// Scheduled delay and lose-screen handles
	pending  engine.Task
	cooldown engine.Task
	coolLeft time.Duration

	// Explicit held state per physical key and per clicked note
	heldKeys   map[string]keymap.Note
	heldClicks map[keymap.Note]bool

	statLevel      *atomic.Int64
	statBest       *atomic.Int64
	statNotes      *atomic.Int64
	statMismatches *atomic.Int64
	statCleared    *atomic.Int64
	statTimeouts   *atomic.Int64
	statState      *status.AtomicString
}

// NewMachine builds the level state machine in NotStarted
func NewMachine(cfg Config) (*Machine, error) {
	if cfg.Scheduler == nil {
		return nil, errors.New("game: scheduler is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = engine.NewMonotonicTimeProvider()
	}
	if cfg.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Registry == nil {
		cfg.Registry = status.NewRegistry()
	}

	m := &Machine{
		sched:      cfg.Scheduler,
		rng:        cfg.Rand,
		observer:   cfg.Observer,
		sink:       cfg.Sink,
		log:        cfg.Logger,
		level:      constant.StartLevel,
		heldKeys:   make(map[string]keymap.Note),
		heldClicks: make(map[keymap.Note]bool),

		statLevel:      cfg.Registry.Ints.Get(status.KeyLevel),
		statBest:       cfg.Registry.Ints.Get(status.KeyBestLevel),
		statNotes:      cfg.Registry.Ints.Get(status.KeyNotes),
		statMismatches: cfg.Registry.Ints.Get(status.KeyMismatches),
		statCleared:    cfg.Registry.Ints.Get(status.KeyLevelsCleared),
		statTimeouts:   cfg.Registry.Ints.Get(status.KeyTimeouts),
		statState:      cfg.Registry.Strings.Get(status.KeyState),
	}
	m.countdown = NewCountdown(cfg.Scheduler, constant.CountdownBudget, constant.CountdownTick,
		m.observer.OnTimerTick,
		func() { m.fsm.HandleEvent(m, evTimeout) },
	)

	m.fsm = fsm.NewMachine[*Machine](cfg.Clock.Now)
	m.fsm.AddState(StateNotStarted, "NotStarted").
		Enter((*Machine).recordState).
		On(evStart, StateAwaitingInput)
	m.fsm.AddState(StateAwaitingInput, "AwaitingInput").
		Enter((*Machine).recordState).
		Enter((*Machine).beginLevel).
		Exit((*Machine).endLevel).
		On(evComplete, StateLevelComplete).
		On(evTimeout, StateTimedOut)
	m.fsm.AddState(StateLevelComplete, "LevelComplete").
		Enter((*Machine).recordState).
		Enter((*Machine).completeLevel).
		On(evAdvance, StateAwaitingInput)
	m.fsm.AddState(StateTimedOut, "TimedOut").
		Enter((*Machine).recordState).
		Enter((*Machine).timeOut).
		Exit((*Machine).restart).
		On(evRestart, StateNotStarted)

	if err := m.fsm.Init(m, StateNotStarted); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	m.statLevel.Store(int64(m.level))
	return m, nil
}

// === FSM actions ===

func (m *Machine) recordState() {
	m.statState.Store(m.fsm.StateName())
	m.log.Debug("level state", "state", m.fsm.StateName(), "level", m.level)
}

// beginLevel generates the objective, clears progress and starts the countdown
func (m *Machine) beginLevel() {
	obj := GenerateObjective(m.level, m.rng)
	m.tracker.Load(obj)
	m.countdown.Start()
	m.statLevel.Store(int64(m.level))
	if int64(m.level) > m.statBest.Load() {
		m.statBest.Store(int64(m.level))
	}
	m.observer.OnLevelAdvance(m.level, obj)
}

func (m *Machine) endLevel() {
	m.countdown.Cancel()
}

func (m *Machine) completeLevel() {
	m.level++
	m.statCleared.Add(1)
	m.observer.OnLevelComplete()
	m.pending = m.sched.After(constant.LevelAdvanceDelay, func() {
		m.pending = nil
		m.fsm.HandleEvent(m, evAdvance)
	})
}

func (m *Machine) timeOut() {
	m.statTimeouts.Add(1)
	m.observer.OnTimeout()

	m.coolLeft = constant.RestartDelay
	m.observer.OnCooldownTick(m.coolLeft)
	m.cooldown = m.sched.Every(constant.CooldownTick, func() {
		if m.coolLeft <= 0 {
			return
		}
		m.coolLeft -= constant.CooldownTick
		m.observer.OnCooldownTick(m.coolLeft)
		if m.coolLeft <= 0 {
			m.stopCooldown()
		}
	})
	m.pending = m.sched.After(constant.RestartDelay, func() {
		m.pending = nil
		m.fsm.HandleEvent(m, evRestart)
	})
}

func (m *Machine) stopCooldown() {
	if m.cooldown != nil {
		m.cooldown.Cancel()
		m.cooldown = nil
	}
}

// restart runs on leaving TimedOut: level back to 1, progress cleared
func (m *Machine) restart() {
	m.stopCooldown()
	m.level = constant.StartLevel
	m.tracker.Clear()
	m.statLevel.Store(int64(m.level))
	m.observer.OnRestart()
}

// === Inbound signals ===

// Start begins level 1; ignored unless NotStarted
func (m *Machine) Start() error {
	if !m.fsm.HandleEvent(m, evStart) {
		return fmt.Errorf("%w: start in %s", ErrInputIgnored, m.fsm.StateName())
	}
	return nil
}

// KeyPressed sounds the note bound to symbol and records it as a play
// A repeat press of a held key neither retriggers nor counts unless the
// register changed, which releases the old note and plays the new one
// The note is returned whenever the key is bound, even if the play is ignored
func (m *Machine) KeyPressed(symbol string, mods keymap.Modifiers) (keymap.Note, error) {
	sym := strings.ToUpper(symbol)
	mode := keymap.ResolveRegister(mods)
	note, ok := keymap.Lookup(sym, mode)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedKey, symbol)
	}
	if prev, held := m.heldKeys[sym]; held {
		if prev == note {
			return note, fmt.Errorf("%w: %s already held", ErrInputIgnored, sym)
		}
		m.KeyReleased(sym)
	}
	m.heldKeys[sym] = note
	m.sound(note)
	return note, m.RecordPlay(note, mode)
}

// KeyReleased stops the note started by symbol, no-op when not held
func (m *Machine) KeyReleased(symbol string) {
	sym := strings.ToUpper(symbol)
	note, held := m.heldKeys[sym]
	if !held {
		return
	}
	delete(m.heldKeys, sym)
	m.silence(note)
}

// NotePressed handles a click on a drawn key
// Clicks sound and hold the note but are never matched against the objective
func (m *Machine) NotePressed(note keymap.Note) error {
	if _, err := keymap.ParseNote(string(note)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnmappedKey, err)
	}
	if m.heldClicks[note] {
		return fmt.Errorf("%w: %s already held", ErrInputIgnored, note)
	}
	m.heldClicks[note] = true
	m.sound(note)
	return nil
}

// NoteReleased ends a click, no-op when the note was not clicked
func (m *Machine) NoteReleased(note keymap.Note) {
	if !m.heldClicks[note] {
		return
	}
	delete(m.heldClicks, note)
	m.silence(note)
}

// WindowBlurred releases every held key and click at once
func (m *Machine) WindowBlurred() {
	for sym, note := range m.heldKeys {
		delete(m.heldKeys, sym)
		m.observer.OnKeyState(note, false)
	}
	for note := range m.heldClicks {
		delete(m.heldClicks, note)
		m.observer.OnKeyState(note, false)
	}
	m.sink.ReleaseAll()
}

// RecordPlay matches a note produced in mode against the next expected key
// Returns ErrInputIgnored unless AwaitingInput
func (m *Machine) RecordPlay(note keymap.Note, mode keymap.RegisterMode) error {
	key, ok := keymap.Reverse(note, mode)
	return m.record(key, ok)
}

func (m *Machine) record(key keymap.ReferenceKey, ok bool) error {
	if m.fsm.State() != StateAwaitingInput {
		return fmt.Errorf("%w: play in %s", ErrInputIgnored, m.fsm.StateName())
	}
	switch m.tracker.Record(key, ok) {
	case Advanced:
		m.observer.OnObjectiveProgress(m.tracker.Progress())
	case Reset:
		m.statMismatches.Add(1)
		m.observer.OnObjectiveProgress(m.tracker.Progress())
	case Completed:
		m.observer.OnObjectiveProgress(m.tracker.Progress())
		m.fsm.HandleEvent(m, evComplete)
	}
	return nil
}

func (m *Machine) sound(note keymap.Note) {
	m.statNotes.Add(1)
	m.sink.NoteOn(note)
	m.observer.OnKeyState(note, true)
}

// silence ends note once its last holder lets go; a key and a click share one voice
func (m *Machine) silence(note keymap.Note) {
	if m.Held(note) {
		return
	}
	m.sink.NoteOff(note)
	m.observer.OnKeyState(note, false)
}

// Stop cancels every scheduled handle and releases held notes
// The machine must not be used afterwards
func (m *Machine) Stop() {
	m.countdown.Cancel()
	m.stopCooldown()
	if m.pending != nil {
		m.pending.Cancel()
		m.pending = nil
	}
	m.WindowBlurred()
}

// === Queries ===

// State returns the active level state
func (m *Machine) State() fsm.StateID {
	return m.fsm.State()
}

// StateName returns the active level state's name
func (m *Machine) StateName() string {
	return m.fsm.StateName()
}

// Level returns the current level
func (m *Machine) Level() int {
	return m.level
}

// Objective returns a copy of the current objective, nil before Start
func (m *Machine) Objective() Objective {
	return m.tracker.Objective()
}

// Progress returns a copy of the matched prefix
func (m *Machine) Progress() []keymap.ReferenceKey {
	return m.tracker.Progress()
}

// Remaining returns countdown time left, zero when no countdown runs
func (m *Machine) Remaining() time.Duration {
	if !m.countdown.Active() {
		return 0
	}
	return m.countdown.Remaining()
}

// TimerActive reports whether a countdown handle is scheduled
func (m *Machine) TimerActive() bool {
	return m.countdown.Active()
}

// Held reports whether any key or click currently holds note
func (m *Machine) Held(note keymap.Note) bool {
	if m.heldClicks[note] {
		return true
	}
	for _, n := range m.heldKeys {
		if n == note {
			return true
		}
	}
	return false
}
