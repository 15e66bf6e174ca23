package engine

import (
	"fmt"
	"github.com/viant/tooring/model/machine"
)

// Outcome represents the result of a run
type Outcome struct {
	Tape  string
	Head  int
	State string
	Halt  machine.Halt
	// Symbol is the symbol under the head when the run stopped
	Symbol rune
	// Steps is the number of transitions applied by this run
	Steps int
	// Err is the listener error that interrupted the run
	Err error
}

// Apply copies the outcome position onto the machine so that it can be
// persisted and resumed.
func (o *Outcome) Apply(m *machine.Machine) {
	m.Tape = o.Tape
	m.Head = o.Head
	m.CurrentState = o.State
}

// String returns a short description of the outcome
func (o *Outcome) String() string {
	switch o.Halt {
	case machine.HaltNoTransition:
		return fmt.Sprintf("halted without accepting: no transition for (state=%s, symbol=%c) after %d steps", o.State, o.Symbol, o.Steps)
	case machine.HaltInterrupted:
		return fmt.Sprintf("interrupted in state %s after %d steps: %v", o.State, o.Steps, o.Err)
	default:
		return fmt.Sprintf("accepted after %d steps", o.Steps)
	}
}

// Step is a view of the machine after a transition was applied
type Step struct {
	Number int
	State  string
	Head   int
	tape   []rune
}

// Tape returns the current tape content
func (s *Step) Tape() string {
	return string(s.tape)
}

// Snapshot renders the tape with the state inserted before the head cell
func (s *Step) Snapshot() string {
	return string(s.tape[:s.Head]) + " " + s.State + " " + string(s.tape[s.Head:])
}

type runner struct {
	listeners []Listener
}

// Run executes the machine. A machine that was never started begins in its
// start state with the head on cell 0; otherwise the run resumes from the
// persisted state and head. The supplied machine is not modified.
func Run(m *machine.Machine, options ...Option) *Outcome {
	r := &runner{}
	for _, option := range options {
		option(r)
	}
	return r.run(m)
}

func (r *runner) run(m *machine.Machine) *Outcome {
	tape := []rune(m.Tape)
	state, head := m.CurrentState, m.Head
	if state == "" {
		state, head = m.StartState, 0
	}
	if head < 0 {
		head = 0
	}
	tape = grow(tape, head)
	step := &Step{}
	steps := 0
	for state != m.AcceptState {
		symbol := tape[head]
		transition, ok := m.Lookup(state, symbol)
		if !ok {
			return &Outcome{Tape: string(tape), Head: head, State: state, Halt: machine.HaltNoTransition, Symbol: symbol, Steps: steps}
		}
		state = transition.WriteState
		if transition.WriteSymbol != machine.NoSymbol {
			tape[head] = transition.WriteSymbol
		}
		head += int(transition.Move)
		if head < 0 {
			tape = append([]rune{machine.Blank}, tape...)
			head = 0
		}
		tape = grow(tape, head)
		steps++
		if len(r.listeners) == 0 {
			continue
		}
		step.Number, step.State, step.Head, step.tape = steps, state, head, tape
		for _, listener := range r.listeners {
			if err := listener(step); err != nil {
				return &Outcome{Tape: string(tape), Head: head, State: state, Halt: machine.HaltInterrupted, Symbol: tape[head], Steps: steps, Err: err}
			}
		}
	}
	trimmed, head := trim(tape, head)
	ret := &Outcome{Tape: string(trimmed), Head: head, State: state, Halt: machine.HaltAccepted, Steps: steps}
	if head < len(trimmed) {
		ret.Symbol = trimmed[head]
	}
	return ret
}

// grow appends blank cells until the tape covers head
func grow(tape []rune, head int) []rune {
	for len(tape) <= head {
		tape = append(tape, machine.Blank)
	}
	return tape
}

// trim removes leading and trailing blanks, shifting head accordingly
func trim(tape []rune, head int) ([]rune, int) {
	start, end := 0, len(tape)
	for start < end && tape[start] == machine.Blank {
		start++
	}
	for end > start && tape[end-1] == machine.Blank {
		end--
	}
	head -= start
	if head < 0 {
		head = 0
	}
	return tape[start:end], head
}
