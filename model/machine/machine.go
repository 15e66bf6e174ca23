package machine

import (
	"fmt"
)

// Machine represents a single-tape Turing machine together with its
// execution position. CurrentState and Head are empty/zero until the first
// run; afterwards they hold the last persisted position so a run can resume.
type Machine struct {
	StateSpace   []string     `json:"stateSpace" yaml:"stateSpace"`
	Transitions  []Transition `json:"transitionSpace" yaml:"transitionSpace"`
	StartState   string       `json:"startState" yaml:"startState"`
	AcceptState  string       `json:"acceptState" yaml:"acceptState"`
	Tape         string       `json:"tape" yaml:"tape"`
	Head         int          `json:"head,omitempty" yaml:"head,omitempty"`
	CurrentState string       `json:"currentState,omitempty" yaml:"currentState,omitempty"`

	states map[string]bool
	index  map[key]int
}

type key struct {
	state  string
	symbol rune
}

// New creates an empty machine
func New() *Machine {
	return &Machine{}
}

func (m *Machine) ensureIndex() {
	if m.states != nil && m.index != nil {
		return
	}
	m.states = make(map[string]bool, len(m.StateSpace))
	for _, state := range m.StateSpace {
		m.states[state] = true
	}
	m.index = make(map[key]int, len(m.Transitions))
	for i := range m.Transitions {
		k := key{m.Transitions[i].ReadState, m.Transitions[i].ReadSymbol}
		if _, ok := m.index[k]; !ok {
			m.index[k] = i
		}
	}
}

// AddState adds a state; it returns false if the state already exists
func (m *Machine) AddState(state string) bool {
	m.ensureIndex()
	if state == "" || m.states[state] {
		return false
	}
	m.states[state] = true
	m.StateSpace = append(m.StateSpace, state)
	return true
}

// HasState returns true if the state belongs to the state space
func (m *Machine) HasState(state string) bool {
	m.ensureIndex()
	return m.states[state]
}

// SetStartState sets the start state, registering it when unknown
func (m *Machine) SetStartState(state string) bool {
	if state == "" {
		return false
	}
	m.AddState(state)
	m.StartState = state
	return true
}

// SetAcceptState sets the accept state, registering it when unknown
func (m *Machine) SetAcceptState(state string) bool {
	if state == "" {
		return false
	}
	m.AddState(state)
	m.AcceptState = state
	return true
}

// AddTransition adds a transition. Unknown states are registered. It returns
// false, leaving the table unchanged, when a transition for the same
// (readState, readSymbol) pair already exists.
func (m *Machine) AddTransition(transition Transition) bool {
	m.ensureIndex()
	k := key{transition.ReadState, transition.ReadSymbol}
	if _, ok := m.index[k]; ok {
		return false
	}
	m.AddState(transition.ReadState)
	m.AddState(transition.WriteState)
	m.Transitions = append(m.Transitions, transition)
	m.index[k] = len(m.Transitions) - 1
	return true
}

// Lookup returns the transition triggered by state and symbol
func (m *Machine) Lookup(state string, symbol rune) (*Transition, bool) {
	m.ensureIndex()
	i, ok := m.index[key{state, symbol}]
	if !ok {
		return nil, false
	}
	return &m.Transitions[i], true
}

// Validate checks a decoded machine: start/accept states must be set and no
// two transitions may share a (readState, readSymbol) pair. States referenced
// by transitions but missing from the state space are registered.
func (m *Machine) Validate() error {
	if m.StartState == "" {
		return ErrStartStateMissing
	}
	if m.AcceptState == "" {
		return ErrAcceptStateMissing
	}
	seen := make(map[key]bool, len(m.Transitions))
	for i := range m.Transitions {
		t := &m.Transitions[i]
		if t.ReadSymbol == NoSymbol {
			return fmt.Errorf("transition %d: %w", i, ErrInvalidSymbol)
		}
		k := key{t.ReadState, t.ReadSymbol}
		if seen[k] {
			return fmt.Errorf("%w: %s", ErrConflictingTransition, t)
		}
		seen[k] = true
	}
	m.states, m.index = nil, nil
	for _, state := range []string{m.StartState, m.AcceptState} {
		m.AddState(state)
	}
	for i := range m.Transitions {
		m.AddState(m.Transitions[i].ReadState)
		m.AddState(m.Transitions[i].WriteState)
	}
	return nil
}

// IsStarted returns true when the machine has a persisted execution position
func (m *Machine) IsStarted() bool {
	return m.CurrentState != ""
}

// Reset discards the persisted execution position
func (m *Machine) Reset() {
	m.CurrentState = ""
	m.Head = 0
}

// Clone creates a deep copy of the machine
func (m *Machine) Clone() *Machine {
	if m == nil {
		return nil
	}
	clone := *m
	clone.StateSpace = append([]string(nil), m.StateSpace...)
	clone.Transitions = append([]Transition(nil), m.Transitions...)
	clone.states, clone.index = nil, nil
	return &clone
}
