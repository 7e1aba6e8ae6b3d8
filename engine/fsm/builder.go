package fsm

// AddState adds a node to the machine and returns it for chained configuration
func (m *Machine[T]) AddState(id StateID, name string) *Node[T] {
	node := &Node[T]{
		ID:   id,
		Name: name,
	}
	m.nodes[id] = node
	return node
}

// AddTransition adds a transition to a specific node
func (m *Machine[T]) AddTransition(sourceID StateID, t Transition[T]) {
	if node, ok := m.nodes[sourceID]; ok {
		node.Transitions = append(node.Transitions, t)
	}
}

// Enter appends an OnEnter action
func (n *Node[T]) Enter(fn ActionFunc[T]) *Node[T] {
	n.OnEnter = append(n.OnEnter, fn)
	return n
}

// Exit appends an OnExit action
func (n *Node[T]) Exit(fn ActionFunc[T]) *Node[T] {
	n.OnExit = append(n.OnExit, fn)
	return n
}

// On appends an unguarded transition
func (n *Node[T]) On(event EventType, target StateID) *Node[T] {
	n.Transitions = append(n.Transitions, Transition[T]{Target: target, Event: event})
	return n
}

// OnIf appends a guarded transition
func (n *Node[T]) OnIf(event EventType, target StateID, guard GuardFunc[T]) *Node[T] {
	n.Transitions = append(n.Transitions, Transition[T]{Target: target, Event: event, Guard: guard})
	return n
}
