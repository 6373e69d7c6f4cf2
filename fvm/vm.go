package fvm

import (
	"fmt"
	"math/big"
)

// Unbounded disables the step bound of Run.
const Unbounded = ^uint64(0)

type Outcome uint8

const (
	// Halted means no fraction applied to the final state.
	Halted Outcome = iota + 1
	// StepBoundExceeded means a fraction still applied after the maximum
	// number of steps. It is not an error.
	StepBoundExceeded
)

func (o Outcome) String() string {
	switch o {
	case Halted:
		return "halted"
	case StepBoundExceeded:
		return "step-bound-exceeded"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Result is the terminal outcome of a run.
// State is only set when Outcome is Halted.
type Result struct {
	Outcome Outcome
	State   *big.Int
	Steps   uint64
}

// Step applies the first fraction of p, in program order, for which
// current*num is divisible by den.
// It returns ok=false, and a rule index of -1, when no fraction applies.
// current is never modified.
func Step(p *Program, current *big.Int) (next *big.Int, rule int, ok bool) {
	var prod, rem big.Int
	for i, f := range p.fracs {
		prod.Mul(current, f.Num)
		q, _ := new(big.Int).QuoRem(&prod, f.Den, &rem)
		if rem.Sign() == 0 {
			return q, i, true
		}
	}
	return nil, -1, false
}

// Run executes p on initial until it halts, or until maxSteps rules have been
// applied and another one still applies. Pass Unbounded to run without a
// bound; FRACTRAN programs may loop forever, so untrusted programs need one.
// A program that halts after exactly maxSteps steps is reported as Halted.
func Run(p *Program, initial *big.Int, maxSteps uint64) (*Result, error) {
	if err := checkState(initial); err != nil {
		return nil, err
	}
	current := new(big.Int).Set(initial)
	var steps uint64
	for {
		next, _, ok := Step(p, current)
		if !ok {
			return &Result{Outcome: Halted, State: current, Steps: steps}, nil
		}
		if steps == maxSteps {
			return &Result{Outcome: StepBoundExceeded, Steps: steps}, nil
		}
		current = next
		steps++
	}
}

func checkState(v *big.Int) error {
	if v == nil {
		return fmt.Errorf("%w: missing state", ErrInvalidState)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: negative state %s", ErrInvalidState, v)
	}
	return nil
}
