package input

import (
	"sync"
	"time"

	"github.com/bep/debounce"
)

// Releaser synthesizes key-up events for terminals that only report presses
// Every press of a symbol restarts its timer; autorepeat keeps the key held and
// the release fires once repeats stop for the debounce interval
// Presses of a held symbol further apart than repeatGap are fresh taps
type Releaser struct {
	mu        sync.Mutex
	interval  time.Duration
	repeatGap time.Duration
	debounced map[string]func(f func())
	lastPress map[string]time.Time
	release   func(symbol string)
	now       func() time.Time
}

// NewReleaser creates a releaser; release runs on a timer goroutine
func NewReleaser(interval, repeatGap time.Duration, release func(symbol string)) *Releaser {
	return &Releaser{
		interval:  interval,
		repeatGap: repeatGap,
		debounced: make(map[string]func(f func())),
		lastPress: make(map[string]time.Time),
		release:   release,
		now:       time.Now,
	}
}

// Press restarts the release timer for symbol
// Returns true when the press is autorepeat of a symbol still held
func (r *Releaser) Press(symbol string) (repeat bool) {
	now := r.now()
	r.mu.Lock()
	if last, held := r.lastPress[symbol]; held && now.Sub(last) <= r.repeatGap {
		repeat = true
	}
	r.lastPress[symbol] = now
	d, ok := r.debounced[symbol]
	if !ok {
		d = debounce.New(r.interval)
		r.debounced[symbol] = d
	}
	r.mu.Unlock()

	d(func() {
		r.mu.Lock()
		delete(r.lastPress, symbol)
		r.mu.Unlock()
		r.release(symbol)
	})
	return repeat
}

// Cancel drops the pending release of symbol
func (r *Releaser) Cancel(symbol string) {
	r.mu.Lock()
	d, ok := r.debounced[symbol]
	delete(r.lastPress, symbol)
	r.mu.Unlock()
	if ok {
		d(func() {})
	}
}

// CancelAll drops every pending release
func (r *Releaser) CancelAll() {
	r.mu.Lock()
	pending := make([]func(f func()), 0, len(r.debounced))
	for _, d := range r.debounced {
		pending = append(pending, d)
	}
	clear(r.lastPress)
	r.mu.Unlock()
	for _, d := range pending {
		d(func() {})
	}
}
