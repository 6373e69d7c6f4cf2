package fvm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterRoundTrip(t *testing.T) {
	for a := uint64(0); a <= 10; a++ {
		for b := uint64(0); b <= 10; b++ {
			state, err := EncodeRegisters(map[uint64]uint64{2: a, 3: b})
			require.NoError(t, err)

			expected := new(big.Int).Mul(
				new(big.Int).Exp(big.NewInt(2), new(big.Int).SetUint64(a), nil),
				new(big.Int).Exp(big.NewInt(3), new(big.Int).SetUint64(b), nil),
			)
			require.Equal(t, 0, expected.Cmp(state))

			gotA, err := DecodeRegister(state, big.NewInt(2))
			require.NoError(t, err)
			gotB, err := DecodeRegister(state, big.NewInt(3))
			require.NoError(t, err)
			require.Equal(t, a, gotA)
			require.Equal(t, b, gotB)
		}
	}
}

func TestDecodeRegisters(t *testing.T) {
	state, err := EncodeRegisters(map[uint64]uint64{2: 3, 5: 1, 7: 4})
	require.NoError(t, err)
	regs, err := DecodeRegisters(state, []uint64{2, 3, 5, 7, 11})
	require.NoError(t, err)
	require.Equal(t, map[uint64]uint64{2: 3, 3: 0, 5: 1, 7: 4, 11: 0}, regs)
}

func TestEncodeRegistersEmpty(t *testing.T) {
	state, err := EncodeRegisters(nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), state.Int64())
}

func TestDecodeRegisterInvalid(t *testing.T) {
	t.Run("ZeroState", func(t *testing.T) {
		for _, p := range []int64{2, 3, 5, 4} {
			_, err := DecodeRegister(big.NewInt(0), big.NewInt(p))
			require.ErrorIs(t, err, ErrInvalidState)
		}
	})
	t.Run("NegativeState", func(t *testing.T) {
		_, err := DecodeRegister(big.NewInt(-8), big.NewInt(2))
		require.ErrorIs(t, err, ErrInvalidState)
	})
	t.Run("NilState", func(t *testing.T) {
		_, err := DecodeRegister(nil, big.NewInt(2))
		require.ErrorIs(t, err, ErrInvalidState)
	})
	t.Run("NonPrime", func(t *testing.T) {
		for _, p := range []int64{-3, 0, 1, 4, 6, 9, 15, 91, 561} {
			_, err := DecodeRegister(big.NewInt(72), big.NewInt(p))
			require.ErrorIs(t, err, ErrInvalidPrime, "key %d", p)
		}
		_, err := DecodeRegister(big.NewInt(72), nil)
		require.ErrorIs(t, err, ErrInvalidPrime)
	})
	t.Run("NonPrimeEncodeKey", func(t *testing.T) {
		_, err := EncodeRegisters(map[uint64]uint64{4: 1})
		require.ErrorIs(t, err, ErrInvalidPrime)
	})
}

func TestDecodeRegisterLargePrime(t *testing.T) {
	// 2^61 - 1 is a Mersenne prime
	p := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 61), big.NewInt(1))
	require.True(t, IsPrime(p))
	state, err := EncodeRegisters(map[uint64]uint64{p.Uint64(): 3, 2: 1})
	require.NoError(t, err)
	v, err := DecodeRegister(state, p)
	require.NoError(t, err)
	require.Equal(t, uint64(3), v)
}

func TestDecodeRegisterPure(t *testing.T) {
	state := big.NewInt(72)
	for i := 0; i < 3; i++ {
		v, err := DecodeRegister(state, big.NewInt(2))
		require.NoError(t, err)
		require.Equal(t, uint64(3), v)
	}
	require.Equal(t, int64(72), state.Int64())
}
