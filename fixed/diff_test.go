package fixed

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/talbii/fractran/fvm"
)

// FuzzRunDiff checks the 256-bit interpreter against the unbounded one on
// small two-rule programs.
func FuzzRunDiff(f *testing.F) {
	f.Add(uint8(2), uint8(3), uint8(5), uint8(7), uint64(72))
	f.Add(uint8(3), uint8(2), uint8(2), uint8(3), uint64(6))
	f.Add(uint8(0), uint8(5), uint8(1), uint8(1), uint64(0))
	f.Fuzz(func(t *testing.T, n0, d0, n1, d1 uint8, initial uint64) {
		if d0 == 0 || d1 == 0 {
			t.Skip("denominator must be positive")
		}
		p := fvm.MustProgram([2]int64{int64(n0), int64(d0)}, [2]int64{int64(n1), int64(d1)})
		fp, err := Compile(p)
		require.NoError(t, err)

		const bound = 200
		want, err := fvm.Run(p, new(big.Int).SetUint64(initial), bound)
		require.NoError(t, err)
		got, err := Run(fp, uint256.NewInt(initial), bound)
		if err != nil {
			var overflowErr *fvm.OverflowErr
			require.ErrorAs(t, err, &overflowErr)
			// replay the unbounded run up to the failing step, which must leave 256 bits
			cur := new(big.Int).SetUint64(initial)
			for i := uint64(0); i <= overflowErr.Step; i++ {
				next, rule, ok := fvm.Step(p, cur)
				require.True(t, ok)
				if i == overflowErr.Step {
					require.Equal(t, overflowErr.Rule, rule)
				}
				cur = next
			}
			require.Greater(t, cur.BitLen(), 256)
			return
		}
		require.Equal(t, want.Outcome, got.Outcome)
		require.Equal(t, want.Steps, got.Steps)
		if want.Outcome == fvm.Halted {
			require.Equal(t, 0, want.State.Cmp(got.State.ToBig()))
		}
	})
}
