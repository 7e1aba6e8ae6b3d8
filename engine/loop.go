package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-piano/core"
)

// ErrLoopRunning is returned when Run is called on a loop that already runs
var ErrLoopRunning = errors.New("loop already running")

// DefaultQueueSize bounds pending work before Post blocks
const DefaultQueueSize = 256

// Loop executes posted closures one at a time on the goroutine calling Run
// It is the single-threaded event loop every game component lives on
type Loop struct {
	queue chan func()

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	done     chan struct{}

	processed atomic.Uint64
}

// NewLoop creates a loop with the given queue capacity
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		queue:    make(chan func(), queueSize),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Post enqueues fn for execution on the loop goroutine
// Returns false if the loop was stopped; must not be called from the loop
// goroutine while the queue may be full
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// Run processes posted work until ctx is done or Stop is called
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.stopChan:
			return nil
		case fn := <-l.queue:
			fn()
			l.processed.Add(1)
		}
	}
}

// Stop halts the loop, pending work is discarded
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
}

// Done is closed when Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Processed returns the number of executed closures
func (l *Loop) Processed() uint64 {
	return l.processed.Load()
}

// loopTask is shared by one-shot and repeating tasks
// cancelled is checked on the loop goroutine right before the callback runs, so
// a callback already sitting in the queue is dropped after Cancel
type loopTask struct {
	cancelled atomic.Bool
	timer     *time.Timer
	stop      chan struct{}
}

func (t *loopTask) Cancel() {
	if !t.cancelled.CompareAndSwap(false, true) {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.stop != nil {
		close(t.stop)
	}
}

func (t *loopTask) Active() bool {
	return !t.cancelled.Load()
}

// After schedules fn once on the loop after d
func (l *Loop) After(d time.Duration, fn func()) Task {
	t := &loopTask{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// A one-shot that ran is no longer active
			if t.cancelled.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// Every schedules fn on the loop every d until cancelled
func (l *Loop) Every(d time.Duration, fn func()) Task {
	t := &loopTask{stop: make(chan struct{})}
	core.Go(func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ok := l.Post(func() {
					if !t.cancelled.Load() {
						fn()
					}
				})
				if !ok {
					return
				}
			case <-t.stop:
				return
			case <-l.stopChan:
				return
			}
		}
	})
	return t
}
