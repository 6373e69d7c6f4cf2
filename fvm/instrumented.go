package fvm

import (
	"fmt"
	"io"
)

type StepWitness struct {
	// encoded pre-state
	State StateWitness
	// rule applied by the step, -1 if the machine halted instead
	Rule int
}

// InstrumentedState steps a VMState one rule at a time, optionally writing
// a trace line per applied rule and counting how often each rule fired.
type InstrumentedState struct {
	state *VMState

	trace io.Writer

	ruleHits []uint64
}

func NewInstrumentedState(state *VMState, trace io.Writer) *InstrumentedState {
	return &InstrumentedState{
		state:    state,
		trace:    trace,
		ruleHits: make([]uint64, state.Program.Len()),
	}
}

// Step applies one rule. If no rule applies the state is marked halted and
// the step counter is left alone. Stepping a halted state does nothing.
// With proof set, the returned witness holds the encoded pre-state.
func (m *InstrumentedState) Step(proof bool) (wit *StepWitness, err error) {
	s := m.state
	if s.Halted {
		return nil, nil
	}
	if proof {
		wit = &StepWitness{State: s.EncodeWitness(), Rule: -1}
	}

	next, rule, ok := Step(s.Program, s.State)
	if !ok {
		s.Halted = true
		return wit, nil
	}
	if m.trace != nil {
		if _, err := fmt.Fprintf(m.trace, "%d: %s * %s -> %s\n", s.Step, s.State, s.Program.fracs[rule], next); err != nil {
			return nil, fmt.Errorf("failed to write trace: %w", err)
		}
	}
	s.State = next
	s.Step++
	s.LastRule = rule
	m.ruleHits[rule]++
	if wit != nil {
		wit.Rule = rule
	}
	return wit, nil
}

// DetectHalt marks the state halted if no rule applies to it, without
// stepping. It reports whether the state is halted.
func (m *InstrumentedState) DetectHalt() bool {
	if !m.state.Halted {
		if _, _, ok := Step(m.state.Program, m.state.State); !ok {
			m.state.Halted = true
		}
	}
	return m.state.Halted
}

// RuleHits returns how many times each rule was applied through m.
func (m *InstrumentedState) RuleHits() []uint64 {
	out := make([]uint64, len(m.ruleHits))
	copy(out, m.ruleHits)
	return out
}
