package engine

import (
	"sync"
	"time"
)

// ManualScheduler is a virtual clock: nothing runs until Advance is called
// Callbacks run on the goroutine calling Advance, in deadline order, ties in
// scheduling order
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	s         *ManualScheduler
	due       time.Time
	period    time.Duration
	seq       uint64
	fn        func()
	cancelled bool
}

// NewManualScheduler creates a scheduler whose clock starts at start
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the current virtual time
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After schedules fn once, d after the current virtual time
func (m *ManualScheduler) After(d time.Duration, fn func()) Task {
	return m.schedule(d, 0, fn)
}

// Every schedules fn every d, d must be positive
func (m *ManualScheduler) Every(d time.Duration, fn func()) Task {
	if d <= 0 {
		panic("engine: ManualScheduler.Every requires a positive period")
	}
	return m.schedule(d, d, fn)
}

func (m *ManualScheduler) schedule(d, period time.Duration, fn func()) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{
		s:      m,
		due:    m.now.Add(d),
		period: period,
		seq:    m.seq,
		fn:     fn,
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every task that falls due
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.period > 0 {
			next.due = next.due.Add(next.period)
		} else {
			next.cancelled = true
			m.remove(next)
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// Pending returns the number of scheduled, uncancelled tasks
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// nextDue returns the earliest task due at or before target, caller holds mu
func (m *ManualScheduler) nextDue(target time.Time) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.due.After(target) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// remove drops t from the task list, caller holds mu
func (m *ManualScheduler) remove(t *manualTask) {
	for i, x := range m.tasks {
		if x == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

func (t *manualTask) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.cancelled {
		return
	}
	t.cancelled = true
	t.s.remove(t)
}

func (t *manualTask) Active() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return !t.cancelled
}
