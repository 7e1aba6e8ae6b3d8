package engine

import "time"

// Task is a handle to scheduled work, cancelling is idempotent
type Task interface {
	Cancel()
	// Active is false once a one-shot task ran or any task was cancelled
	Active() bool
}

// Scheduler runs delayed and repeating callbacks on the owner's event loop
// Callbacks never run concurrently with each other or with posted work
type Scheduler interface {
	After(d time.Duration, fn func()) Task
	Every(d time.Duration, fn func()) Task
}
