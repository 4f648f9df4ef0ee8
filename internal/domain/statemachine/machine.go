// Package statemachine provides the transition-table machine shared by every
// status-bearing aggregate. Aggregates declare their table once and ask the
// machine whether a transition or an action is permitted.
package statemachine

import (
	"fmt"
	"slices"

	"github.com/koifarm/backend/internal/domain/shared"
)

// Definition describes a machine: the legal edges between states and the
// named actions that are only permitted in some states.
type Definition[S ~string] struct {
	Name        string
	Transitions map[S][]S
	Actions     map[string][]S
}

// Machine is an immutable state machine over a closed set of states S.
type Machine[S ~string] struct {
	name        string
	states      []S
	transitions map[S][]S
	actions     map[string][]S
}

// New builds a machine. Every state named on either side of a transition,
// or in an action list, belongs to the closed set.
func New[S ~string](def Definition[S]) *Machine[S] {
	m := &Machine[S]{
		name:        def.Name,
		transitions: make(map[S][]S, len(def.Transitions)),
		actions:     make(map[string][]S, len(def.Actions)),
	}
	add := func(s S) {
		if !slices.Contains(m.states, s) {
			m.states = append(m.states, s)
		}
	}
	for from, tos := range def.Transitions {
		add(from)
		m.transitions[from] = slices.Clone(tos)
		for _, to := range tos {
			add(to)
		}
	}
	for action, allowed := range def.Actions {
		m.actions[action] = slices.Clone(allowed)
		for _, s := range allowed {
			add(s)
		}
	}
	slices.Sort(m.states)
	return m
}

// Name returns the machine's name
func (m *Machine[S]) Name() string {
	return m.name
}

// States returns the closed set of states, sorted
func (m *Machine[S]) States() []S {
	return slices.Clone(m.states)
}

// IsValid reports whether s belongs to the closed set
func (m *Machine[S]) IsValid(s S) bool {
	return slices.Contains(m.states, s)
}

// CanTransition reports whether from → to is an edge of the table
func (m *Machine[S]) CanTransition(from, to S) bool {
	return slices.Contains(m.transitions[from], to)
}

// Transition validates from → to and returns a validation error otherwise
func (m *Machine[S]) Transition(from, to S) error {
	if !m.IsValid(to) {
		return shared.NewValidationError("invalid %s status: %s", m.name, to)
	}
	if !m.CanTransition(from, to) {
		return shared.NewValidationError("cannot change %s status from %s to %s", m.name, from, to)
	}
	return nil
}

// Allowed returns the states reachable from s in one step
func (m *Machine[S]) Allowed(from S) []S {
	return slices.Clone(m.transitions[from])
}

// From returns the states that have an edge into to, sorted
func (m *Machine[S]) From(to S) []S {
	var out []S
	for from, tos := range m.transitions {
		if slices.Contains(tos, to) {
			out = append(out, from)
		}
	}
	slices.Sort(out)
	return out
}

// IsTerminal reports whether s has no outgoing edges
func (m *Machine[S]) IsTerminal(s S) bool {
	return len(m.transitions[s]) == 0
}

// Permits reports whether the named action may run while in state s
func (m *Machine[S]) Permits(action string, s S) bool {
	return slices.Contains(m.actions[action], s)
}

// Check is Permits returning a validation error naming the action
func (m *Machine[S]) Check(action string, s S) error {
	if m.Permits(action, s) {
		return nil
	}
	return shared.NewValidationError("cannot %s %s in %s status", action, m.name, s)
}

// String renders the machine for logs
func (m *Machine[S]) String() string {
	return fmt.Sprintf("statemachine(%s, %d states)", m.name, len(m.states))
}
