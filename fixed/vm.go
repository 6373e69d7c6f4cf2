// Package fixed runs FRACTRAN programs on 256-bit unsigned integers.
//
// It is the fixed-width counterpart of package fvm: results are identical
// whenever every intermediate state fits in 256 bits, and a rule application
// whose result does not fit aborts the run with fvm.ErrArithmeticOverflow
// instead of wrapping around.
package fixed

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/talbii/fractran/fvm"
)

type U256 = uint256.Int

// fraction is stored reduced to lowest terms. den divides state*num exactly
// when den/gcd(num, den) divides state, so divisibility is decided without
// forming the product, and only an applied rule can overflow.
type fraction struct {
	num U256
	den U256
}

type Program struct {
	fracs []fraction
}

// Compile converts p to 256-bit form. Fractions whose reduced terms do not
// fit in 256 bits are rejected with fvm.ErrArithmeticOverflow.
func Compile(p *fvm.Program) (*Program, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: missing program", fvm.ErrInvalidProgram)
	}
	out := &Program{fracs: make([]fraction, p.Len())}
	for i, f := range p.Fractions() {
		g := new(big.Int).GCD(nil, nil, f.Num, f.Den)
		num, numOverflow := uint256.FromBig(new(big.Int).Quo(f.Num, g))
		den, denOverflow := uint256.FromBig(new(big.Int).Quo(f.Den, g))
		if numOverflow || denOverflow {
			return nil, fmt.Errorf("%w: fraction %d (%s) does not fit in 256 bits", fvm.ErrArithmeticOverflow, i, f)
		}
		out.fracs[i] = fraction{num: *num, den: *den}
	}
	return out, nil
}

type Result struct {
	Outcome fvm.Outcome
	State   *U256
	Steps   uint64
}

// Step applies the first fraction that divides evenly, in program order.
// overflow is set when that fraction applies but its result exceeds 256 bits.
func Step(p *Program, current *U256) (next U256, rule int, ok bool, overflow bool) {
	var rem U256
	for i := range p.fracs {
		f := &p.fracs[i]
		if !rem.Mod(current, &f.den).IsZero() {
			continue
		}
		var q U256
		q.Div(current, &f.den)
		_, overflow = next.MulOverflow(&q, &f.num)
		return next, i, true, overflow
	}
	return next, -1, false, false
}

// Run has the semantics of fvm.Run on 256-bit states.
func Run(p *Program, initial *U256, maxSteps uint64) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: missing program", fvm.ErrInvalidProgram)
	}
	if initial == nil {
		return nil, fmt.Errorf("%w: missing state", fvm.ErrInvalidState)
	}
	current := new(U256).Set(initial)
	var steps uint64
	for {
		next, rule, ok, overflow := Step(p, current)
		if !ok {
			return &Result{Outcome: fvm.Halted, State: current, Steps: steps}, nil
		}
		if steps == maxSteps {
			return &Result{Outcome: fvm.StepBoundExceeded, Steps: steps}, nil
		}
		if overflow {
			return nil, &fvm.OverflowErr{Step: steps, Rule: rule}
		}
		current.Set(&next)
		steps++
	}
}

// Runner adapts Run to fvm.RunFunc, so fixed-width runs can be batched with
// fvm.RunAll.
func Runner(p *Program, maxSteps uint64) fvm.RunFunc {
	return func(initial *big.Int) (*fvm.Result, error) {
		if initial == nil || initial.Sign() < 0 {
			return nil, fmt.Errorf("%w: %v", fvm.ErrInvalidState, initial)
		}
		v, overflow := uint256.FromBig(initial)
		if overflow {
			return nil, fmt.Errorf("%w: initial state does not fit in 256 bits", fvm.ErrArithmeticOverflow)
		}
		res, err := Run(p, v, maxSteps)
		if err != nil {
			return nil, err
		}
		out := &fvm.Result{Outcome: res.Outcome, Steps: res.Steps}
		if res.State != nil {
			out.State = res.State.ToBig()
		}
		return out, nil
	}
}
