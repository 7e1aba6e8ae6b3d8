package game

import (
	"time"

	"github.com/lixenwraith/vi-piano/keymap"
)

// Observer receives state changes from the Machine on the loop goroutine
// Implementations must not block
type Observer interface {
	OnTimerTick(remaining time.Duration)
	OnLevelAdvance(level int, objective Objective)
	OnObjectiveProgress(progress []keymap.ReferenceKey)
	OnLevelComplete()
	OnTimeout()
	OnCooldownTick(remaining time.Duration)
	OnRestart()
	OnKeyState(note keymap.Note, active bool)
}

// NopObserver ignores every signal; embed it to implement a subset
type NopObserver struct{}

func (NopObserver) OnTimerTick(time.Duration) {}
func (NopObserver) OnLevelAdvance(int, Objective) {}
func (NopObserver) OnObjectiveProgress([]keymap.ReferenceKey) {}
func (NopObserver) OnLevelComplete() {}
func (NopObserver) OnTimeout() {}
func (NopObserver) OnCooldownTick(time.Duration) {}
func (NopObserver) OnRestart() {}
func (NopObserver) OnKeyState(keymap.Note, bool) {}

// Observers fans every signal out in order
type Observers []Observer

func (obs Observers) OnTimerTick(remaining time.Duration) {
	for _, o := range obs {
		o.OnTimerTick(remaining)
	}
}

func (obs Observers) OnLevelAdvance(level int, objective Objective) {
	for _, o := range obs {
		o.OnLevelAdvance(level, objective.clone())
	}
}

func (obs Observers) OnObjectiveProgress(progress []keymap.ReferenceKey) {
	for _, o := range obs {
		p := make([]keymap.ReferenceKey, len(progress))
		copy(p, progress)
		o.OnObjectiveProgress(p)
	}
}

func (obs Observers) OnLevelComplete() {
	for _, o := range obs {
		o.OnLevelComplete()
	}
}

func (obs Observers) OnTimeout() {
	for _, o := range obs {
		o.OnTimeout()
	}
}

func (obs Observers) OnCooldownTick(remaining time.Duration) {
	for _, o := range obs {
		o.OnCooldownTick(remaining)
	}
}

func (obs Observers) OnRestart() {
	for _, o := range obs {
		o.OnRestart()
	}
}

func (obs Observers) OnKeyState(note keymap.Note, active bool) {
	for _, o := range obs {
		o.OnKeyState(note, active)
	}
}
