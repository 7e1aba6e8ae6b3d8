package fsm

import "time"

// StateID is a unique identifier for a node
type StateID int

// StateNone marks an uninitialized machine
const StateNone StateID = 0

// EventType identifies an external trigger routed through HandleEvent
type EventType int

// Machine is a flat finite state machine runtime
// T is the context type passed to actions and guards
type Machine[T any] struct {
	// Graph data, immutable after Init
	nodes map[StateID]*Node[T]

	initialID StateID

	activeID    StateID
	enteredAt   time.Time
	transitions uint64

	now func() time.Time
}

// Node represents a single state
type Node[T any] struct {
	ID   StateID
	Name string

	OnEnter []ActionFunc[T]
	OnExit  []ActionFunc[T]

	// Transitions in evaluation order, first passing guard wins
	Transitions []Transition[T]
}

// Transition defines a link between states
type Transition[T any] struct {
	Target StateID
	Event  EventType
	Guard  GuardFunc[T] // nil = always true
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T)
