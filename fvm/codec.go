package fvm

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common/math"
)

// IsPrime reports whether p is prime. The answer is exact for every p below
// 2^64 and correct with overwhelming probability above that.
func IsPrime(p *big.Int) bool {
	return p != nil && p.Sign() > 0 && p.ProbablyPrime(20)
}

// DecodeRegister returns the exponent of prime in the factorization of state.
// Zero has no factorization, so it is rejected along with negative states.
func DecodeRegister(state, prime *big.Int) (uint64, error) {
	if state == nil || state.Sign() <= 0 {
		return 0, fmt.Errorf("%w: cannot decode registers of %v", ErrInvalidState, state)
	}
	if !IsPrime(prime) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrime, prime)
	}
	var count uint64
	var q, r big.Int
	x := new(big.Int).Set(state)
	for {
		q.QuoRem(x, prime, &r)
		if r.Sign() != 0 {
			return count, nil
		}
		x.Set(&q)
		count++
	}
}

// DecodeRegisters decodes one register per prime, keyed by the prime.
func DecodeRegisters(state *big.Int, primes []uint64) (map[uint64]uint64, error) {
	out := make(map[uint64]uint64, len(primes))
	for _, p := range primes {
		v, err := DecodeRegister(state, new(big.Int).SetUint64(p))
		if err != nil {
			return nil, err
		}
		out[p] = v
	}
	return out, nil
}

// EncodeRegisters builds the state holding each register value as the
// exponent of its prime: {2: a, 3: b} encodes as 2^a * 3^b.
// An empty register set encodes as 1.
func EncodeRegisters(regs map[uint64]uint64) (*big.Int, error) {
	primes := make([]uint64, 0, len(regs))
	for p := range regs {
		primes = append(primes, p)
	}
	sort.Slice(primes, func(i, j int) bool { return primes[i] < primes[j] })

	out := big.NewInt(1)
	for _, p := range primes {
		if !IsPrime(new(big.Int).SetUint64(p)) {
			return nil, fmt.Errorf("%w: register key %d", ErrInvalidPrime, p)
		}
		v := regs[p]
		if v == 0 {
			continue
		}
		if p > 1<<63-1 || v > 1<<63-1 {
			out.Mul(out, new(big.Int).Exp(new(big.Int).SetUint64(p), new(big.Int).SetUint64(v), nil))
			continue
		}
		out.Mul(out, math.BigPow(int64(p), int64(v)))
	}
	return out, nil
}
