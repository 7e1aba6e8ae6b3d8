// Package spectate exposes the live game state over HTTP for spectators
package spectate

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-piano/engine"
	"github.com/lixenwraith/vi-piano/game"
	"github.com/lixenwraith/vi-piano/keymap"
)

// State is the JSON view of one game
type State struct {
	State       string    `json:"state"`
	Level       int       `json:"level"`
	Objective   []string  `json:"objective"`
	Progress    []string  `json:"progress"`
	RemainingMS int64     `json:"remaining_ms"`
	CooldownMS  int64     `json:"cooldown_ms"`
	Held        []string  `json:"held"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Publisher is a game observer that keeps an immutable snapshot for readers
// Signals arrive on the loop goroutine; Snapshot is safe from any goroutine
type Publisher struct {
	game.NopObserver

	mu    sync.Mutex
	clock engine.TimeProvider
	cur   State
	held  map[keymap.Note]bool
	snap  atomic.Pointer[State]
}

// NewPublisher creates a publisher in the NotStarted state
func NewPublisher(clock engine.TimeProvider) *Publisher {
	if clock == nil {
		clock = engine.NewMonotonicTimeProvider()
	}
	p := &Publisher{
		clock: clock,
		held:  make(map[keymap.Note]bool),
	}
	p.cur = State{State: "NotStarted", Level: 1, Objective: []string{}, Progress: []string{}, Held: []string{}}
	p.publishLocked()
	return p
}

// Snapshot returns the latest published state
func (p *Publisher) Snapshot() State {
	return *p.snap.Load()
}

// update mutates the working copy and publishes a fresh snapshot
func (p *Publisher) update(fn func(s *State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.cur)
	p.publishLocked()
}

func (p *Publisher) publishLocked() {
	s := p.cur
	s.Objective = append([]string{}, p.cur.Objective...)
	s.Progress = append([]string{}, p.cur.Progress...)
	s.Held = make([]string, 0, len(p.held))
	for n := range p.held {
		s.Held = append(s.Held, string(n))
	}
	sort.Strings(s.Held)
	s.UpdatedAt = p.clock.Now()
	p.snap.Store(&s)
}

func (p *Publisher) OnTimerTick(remaining time.Duration) {
	p.update(func(s *State) { s.RemainingMS = remaining.Milliseconds() })
}

func (p *Publisher) OnLevelAdvance(level int, objective game.Objective) {
	p.update(func(s *State) {
		s.State = "AwaitingInput"
		s.Level = level
		s.Objective = objective.Strings()
		s.Progress = []string{}
		s.RemainingMS = 0
	})
}

func (p *Publisher) OnObjectiveProgress(progress []keymap.ReferenceKey) {
	p.update(func(s *State) {
		s.Progress = s.Progress[:0]
		for _, k := range progress {
			s.Progress = append(s.Progress, string(k))
		}
	})
}

func (p *Publisher) OnLevelComplete() {
	p.update(func(s *State) {
		s.State = "LevelComplete"
		s.RemainingMS = 0
	})
}

func (p *Publisher) OnTimeout() {
	p.update(func(s *State) {
		s.State = "TimedOut"
		s.RemainingMS = 0
	})
}

func (p *Publisher) OnCooldownTick(remaining time.Duration) {
	p.update(func(s *State) { s.CooldownMS = remaining.Milliseconds() })
}

func (p *Publisher) OnRestart() {
	p.update(func(s *State) {
		s.State = "NotStarted"
		s.Level = 1
		s.Objective = []string{}
		s.Progress = []string{}
		s.CooldownMS = 0
	})
}

func (p *Publisher) OnKeyState(note keymap.Note, active bool) {
	p.update(func(s *State) {
		if active {
			p.held[note] = true
		} else {
			delete(p.held, note)
		}
	})
}
