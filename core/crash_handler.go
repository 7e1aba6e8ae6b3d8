package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// Finalizer restores a terminal, tcell.Screen satisfies it
type Finalizer interface {
	Fini()
}

var (
	crashMu     sync.Mutex
	crashScreen Finalizer

	// exit is swapped in tests
	exit = os.Exit
)

// SetCrashScreen registers the screen restored before a crash is printed
// Pass nil after the screen is finalized normally
func SetCrashScreen(f Finalizer) {
	crashMu.Lock()
	crashScreen = f
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	screen := crashScreen
	crashScreen = nil
	crashMu.Unlock()

	// Terminal cleanup first so the trace is readable
	if screen != nil {
		screen.Fini()
	}

	stack := debug.Stack()
	reportPanic(r)

	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", stack)
	os.Stderr.Sync()

	exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

// GoSafe runs fn in a goroutine and contains a panic to that goroutine
// Used for per-connection work where one crash must not end the process
func GoSafe(fn func(), onPanic func(r any)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				reportPanic(r)
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}

// reportPanic forwards to Sentry when crash reporting is enabled
func reportPanic(r any) {
	if !reportingEnabled.Load() {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.Recover(r)
	hub.Flush(2 * time.Second)
}
