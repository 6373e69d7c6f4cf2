package fvm

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProgram     = errors.New("invalid program")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrInvalidPrime       = errors.New("invalid prime")
	ErrInvalidState       = errors.New("invalid state")
)

// InvalidFractionErr reports the first fraction of a program that broke the
// fraction invariant.
type InvalidFractionErr struct {
	Index  int
	Reason string
}

func (e *InvalidFractionErr) Error() string {
	return fmt.Sprintf("%v: fraction %d: %s", ErrInvalidProgram, e.Index, e.Reason)
}

func (e *InvalidFractionErr) Unwrap() error {
	return ErrInvalidProgram
}

// OverflowErr is returned by fixed-width interpreters when a rule application
// does not fit the machine word. The state at failure is not meaningful.
type OverflowErr struct {
	Step uint64
	Rule int
}

func (e *OverflowErr) Error() string {
	return fmt.Sprintf("%v at step %d (rule %d)", ErrArithmeticOverflow, e.Step, e.Rule)
}

func (e *OverflowErr) Unwrap() error {
	return ErrArithmeticOverflow
}
