package render

import (
	"time"

	"github.com/lixenwraith/vi-piano/constant"
	"github.com/lixenwraith/vi-piano/engine/fsm"
	"github.com/lixenwraith/vi-piano/game"
	"github.com/lixenwraith/vi-piano/keymap"
)

// Board is the view model the renderer draws from
// It observes the game machine and the session's display settings; it is not
// safe for concurrent use and lives on the loop goroutine
type Board struct {
	game.NopObserver

	State      fsm.StateID
	Level      int
	Objective  game.Objective
	Progress   []keymap.ReferenceKey
	Remaining  time.Duration
	Budget     time.Duration
	Cooldown   time.Duration
	Instrument string
	Scale      keymap.Scale
	LowerLock  bool
	Audio      bool

	held  map[keymap.Note]bool
	dirty bool
}

// NewBoard returns a board in the title state
func NewBoard() *Board {
	return &Board{
		State:  game.StateNotStarted,
		Level:  constant.StartLevel,
		Budget: constant.CountdownBudget,
		Scale:  keymap.Scales()[0],
		held:   make(map[keymap.Note]bool),
		dirty:  true,
	}
}

// MarkDirty requests a redraw on the next frame
func (b *Board) MarkDirty() {
	b.dirty = true
}

// TakeDirty reports whether a redraw is pending and clears the request
func (b *Board) TakeDirty() bool {
	d := b.dirty
	b.dirty = false
	return d
}

// Held reports whether note is currently sounding
func (b *Board) Held(note keymap.Note) bool {
	return b.held[note]
}

func (b *Board) OnTimerTick(remaining time.Duration) {
	b.dirty = true
	b.Remaining = remaining
}

func (b *Board) OnLevelAdvance(level int, objective game.Objective) {
	b.dirty = true
	b.State = game.StateAwaitingInput
	b.Level = level
	b.Objective = objective
	b.Progress = nil
	b.Remaining = b.Budget
}

func (b *Board) OnObjectiveProgress(progress []keymap.ReferenceKey) {
	b.dirty = true
	b.Progress = progress
}

func (b *Board) OnLevelComplete() {
	b.dirty = true
	b.State = game.StateLevelComplete
	b.Progress = b.Objective
}

func (b *Board) OnTimeout() {
	b.dirty = true
	b.State = game.StateTimedOut
	b.Remaining = 0
}

func (b *Board) OnCooldownTick(remaining time.Duration) {
	b.dirty = true
	b.Cooldown = remaining
}

func (b *Board) OnRestart() {
	b.dirty = true
	b.State = game.StateNotStarted
	b.Level = constant.StartLevel
	b.Objective = nil
	b.Progress = nil
	b.Cooldown = 0
}

func (b *Board) OnKeyState(note keymap.Note, active bool) {
	b.dirty = true
	if active {
		b.held[note] = true
		return
	}
	delete(b.held, note)
}
