package fsm

import (
	"fmt"
	"time"
)

// NewMachine creates a new FSM instance
// now stamps state entry; nil uses the wall clock
func NewMachine[T any](now func() time.Time) *Machine[T] {
	if now == nil {
		now = time.Now
	}
	return &Machine[T]{
		nodes: make(map[StateID]*Node[T]),
		now:   now,
	}
}

// Init validates the graph and enters the initial state
func (m *Machine[T]) Init(ctx T, initialID StateID) error {
	if _, ok := m.nodes[initialID]; !ok {
		return fmt.Errorf("initial state ID %d not found", initialID)
	}
	for id, node := range m.nodes {
		for _, t := range node.Transitions {
			if _, ok := m.nodes[t.Target]; !ok {
				return fmt.Errorf("state %d (%s) targets missing state %d", id, node.Name, t.Target)
			}
		}
	}

	m.initialID = initialID
	m.activeID = initialID
	m.enteredAt = m.now()
	for _, action := range m.nodes[initialID].OnEnter {
		action(ctx)
	}
	return nil
}

// HandleEvent routes an external event through the active state
// Returns true if the event triggered a transition
func (m *Machine[T]) HandleEvent(ctx T, event EventType) bool {
	node, ok := m.nodes[m.activeID]
	if !ok {
		return false
	}
	for _, trans := range node.Transitions {
		if trans.Event != event {
			continue
		}
		if trans.Guard == nil || trans.Guard(ctx) {
			m.transition(ctx, trans.Target)
			return true
		}
	}
	return false
}

// Can reports whether event would fire from the current state, guards included
func (m *Machine[T]) Can(ctx T, event EventType) bool {
	node, ok := m.nodes[m.activeID]
	if !ok {
		return false
	}
	for _, trans := range node.Transitions {
		if trans.Event == event && (trans.Guard == nil || trans.Guard(ctx)) {
			return true
		}
	}
	return false
}

// transition runs exit actions of the current state then entry actions of the target
// Self transitions run both
func (m *Machine[T]) transition(ctx T, targetID StateID) {
	target, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("FSM: Attempted transition to unknown state ID %d", targetID))
	}

	for _, action := range m.nodes[m.activeID].OnExit {
		action(ctx)
	}

	m.activeID = targetID
	m.enteredAt = m.now()
	m.transitions++

	for _, action := range target.OnEnter {
		action(ctx)
	}
}

// Reset exits the active state and re-enters the initial one
func (m *Machine[T]) Reset(ctx T) error {
	if m.activeID == StateNone {
		return fmt.Errorf("FSM not initialized")
	}
	for _, action := range m.nodes[m.activeID].OnExit {
		action(ctx)
	}
	return m.Init(ctx, m.initialID)
}

// State returns the active StateID, StateNone before Init
func (m *Machine[T]) State() StateID {
	return m.activeID
}

// StateName returns the active state's name
func (m *Machine[T]) StateName() string {
	if node, ok := m.nodes[m.activeID]; ok {
		return node.Name
	}
	return ""
}

// TimeInState returns time spent in the current state
func (m *Machine[T]) TimeInState() time.Duration {
	if m.activeID == StateNone {
		return 0
	}
	return m.now().Sub(m.enteredAt)
}

// Transitions returns the number of transitions taken since creation
func (m *Machine[T]) Transitions() uint64 {
	return m.transitions
}
