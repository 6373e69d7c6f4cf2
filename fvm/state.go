package fvm

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// VMState is a resumable FRACTRAN machine: a program, its current integer
// state and the number of rules applied so far.
type VMState struct {
	Program *Program `json:"program"`

	State *big.Int `json:"state"`

	Step   uint64 `json:"step"`
	Halted bool   `json:"halted"`

	// index of the rule applied by the last step, -1 before the first step
	LastRule int `json:"lastRule"`
}

func NewVMState(p *Program, initial *big.Int) (*VMState, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: missing program", ErrInvalidProgram)
	}
	if err := checkState(initial); err != nil {
		return nil, err
	}
	return &VMState{
		Program:  p,
		State:    new(big.Int).Set(initial),
		LastRule: -1,
	}, nil
}

// Validate checks a state loaded from outside, e.g. a JSON file.
func (state *VMState) Validate() error {
	if state.Program == nil {
		return fmt.Errorf("%w: missing program", ErrInvalidProgram)
	}
	if err := checkState(state.State); err != nil {
		return err
	}
	if state.LastRule < -1 || state.LastRule >= state.Program.Len() {
		return fmt.Errorf("%w: last rule %d out of range", ErrInvalidState, state.LastRule)
	}
	if state.Halted {
		if _, rule, ok := Step(state.Program, state.State); ok {
			return fmt.Errorf("%w: marked halted but rule %d applies", ErrInvalidState, rule)
		}
	}
	return nil
}

// Result reports the outcome so far. A state that has not halted is only
// terminal once the caller gives up on it, so it is reported as
// StepBoundExceeded.
func (state *VMState) Result() *Result {
	if state.Halted {
		return &Result{Outcome: Halted, State: new(big.Int).Set(state.State), Steps: state.Step}
	}
	return &Result{Outcome: StepBoundExceeded, Steps: state.Step}
}

const (
	VMStatusHalted     = 0
	VMStatusUnfinished = 3
)

type StateWitness []byte

// EncodeWitness serializes the state as
// program hash (32) | step (8) | halted (1) | state length (4) | state (big-endian).
func (state *VMState) EncodeWitness() StateWitness {
	out := make([]byte, 0, 32+8+1+4+len(state.State.Bytes()))
	h := state.Program.Hash()
	out = append(out, h[:]...)
	out = binary.BigEndian.AppendUint64(out, state.Step)
	if state.Halted {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	b := state.State.Bytes()
	out = binary.BigEndian.AppendUint32(out, uint32(len(b)))
	out = append(out, b...)
	return out
}

// StateHash is the keccak256 of the witness, with the first byte replaced by
// the VM status so that a halted state can be told apart from its hash.
func (sw StateWitness) StateHash() (common.Hash, error) {
	if len(sw) < 32+8+1+4 {
		return common.Hash{}, fmt.Errorf("invalid witness length: %d", len(sw))
	}
	hash := crypto.Keccak256Hash(sw)
	if sw[32+8] == 1 {
		hash[0] = VMStatusHalted
	} else {
		hash[0] = VMStatusUnfinished
	}
	return hash, nil
}
