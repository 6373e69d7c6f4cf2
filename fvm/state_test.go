package fvm

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVMStateJSONRoundTrip(t *testing.T) {
	state, err := NewVMState(MustProgram([2]int64{2, 3}, [2]int64{5, 7}), new(big.Int).Lsh(big.NewInt(3), 100))
	require.NoError(t, err)
	state.Step = 0xdeadbeef
	state.LastRule = 1

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var out VMState
	require.NoError(t, json.Unmarshal(data, &out))
	require.NoError(t, out.Validate())
	require.Equal(t, state.EncodeWitness(), out.EncodeWitness())
	require.Equal(t, state.LastRule, out.LastRule)
	require.Equal(t, 0, state.State.Cmp(out.State))
}

func TestVMStateValidate(t *testing.T) {
	p := MustProgram([2]int64{2, 3})
	_, err := NewVMState(nil, big.NewInt(1))
	require.ErrorIs(t, err, ErrInvalidProgram)
	_, err = NewVMState(p, big.NewInt(-1))
	require.ErrorIs(t, err, ErrInvalidState)

	state := &VMState{Program: p, State: big.NewInt(1), LastRule: 1}
	require.ErrorIs(t, state.Validate(), ErrInvalidState)
	state.LastRule = -1
	require.NoError(t, state.Validate())
	state.State = nil
	require.ErrorIs(t, state.Validate(), ErrInvalidState)

	// a halted flag is only accepted when no rule applies
	state.State = big.NewInt(9)
	state.Halted = true
	require.ErrorIs(t, state.Validate(), ErrInvalidState)
	require.ErrorContains(t, state.Validate(), "rule 0 applies")
	state.State = big.NewInt(4)
	require.NoError(t, state.Validate())
}

func TestStateHash(t *testing.T) {
	state, err := NewVMState(MustProgram([2]int64{2, 3}), big.NewInt(72))
	require.NoError(t, err)

	running, err := state.EncodeWitness().StateHash()
	require.NoError(t, err)
	require.Equal(t, byte(VMStatusUnfinished), running[0])

	state.Halted = true
	halted, err := state.EncodeWitness().StateHash()
	require.NoError(t, err)
	require.Equal(t, byte(VMStatusHalted), halted[0])
	require.NotEqual(t, running, halted)

	_, err = StateWitness(make([]byte, 10)).StateHash()
	require.ErrorContains(t, err, "invalid witness length")
}

func TestInstrumentedState(t *testing.T) {
	state, err := NewVMState(MustProgram([2]int64{5, 2}, [2]int64{2, 3}), big.NewInt(72))
	require.NoError(t, err)
	var trace bytes.Buffer
	m := NewInstrumentedState(state, &trace)

	wit, err := m.Step(true)
	require.NoError(t, err)
	require.Equal(t, 0, wit.Rule)
	require.Equal(t, uint64(1), state.Step)
	require.Equal(t, int64(180), state.State.Int64())
	require.Equal(t, "0: 72 * 5/2 -> 180\n", trace.String())

	for !state.Halted {
		_, err := m.Step(false)
		require.NoError(t, err)
	}
	// 2^3 * 3^2: three 5/2 steps, then two 2/3 steps each followed by a 5/2 step
	require.Equal(t, uint64(7), state.Step)
	require.Equal(t, []uint64{5, 2}, m.RuleHits())
	require.Equal(t, int64(5*5*5*5*5), state.State.Int64())

	res, err := Run(state.Program, big.NewInt(72), Unbounded)
	require.NoError(t, err)
	require.Equal(t, res, state.Result())

	wit, err = m.Step(true)
	require.NoError(t, err)
	require.Nil(t, wit, "halted state must not step")
	require.Equal(t, uint64(7), state.Step)
}

func TestInstrumentedStateHaltWitness(t *testing.T) {
	state, err := NewVMState(MustProgram([2]int64{2, 3}), big.NewInt(4))
	require.NoError(t, err)
	m := NewInstrumentedState(state, nil)
	wit, err := m.Step(true)
	require.NoError(t, err)
	require.Equal(t, -1, wit.Rule)
	require.True(t, state.Halted)
	require.Equal(t, uint64(0), state.Step)
}

func TestDetectHalt(t *testing.T) {
	state, err := NewVMState(MustProgram([2]int64{2, 3}), big.NewInt(9))
	require.NoError(t, err)
	m := NewInstrumentedState(state, nil)
	require.False(t, m.DetectHalt())
	require.Equal(t, StepBoundExceeded, state.Result().Outcome)
	_, err = m.Step(false)
	require.NoError(t, err)
	_, err = m.Step(false)
	require.NoError(t, err)
	require.True(t, m.DetectHalt())
	require.Equal(t, uint64(2), state.Step)
	require.Equal(t, int64(4), state.Result().State.Int64())
}
