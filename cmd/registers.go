package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/talbii/fractran/fvm"
)

// parseRegisters parses prime=value assignments into an encoded state.
// Numbers may be decimal or 0x-prefixed hex.
func parseRegisters(assignments []string) (*big.Int, error) {
	regs := make(map[uint64]uint64, len(assignments))
	for _, a := range assignments {
		primeStr, valueStr, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("expected prime=value, got %q", a)
		}
		prime, ok := math.ParseUint64(strings.TrimSpace(primeStr))
		if !ok {
			return nil, fmt.Errorf("invalid register prime %q", primeStr)
		}
		value, ok := math.ParseUint64(strings.TrimSpace(valueStr))
		if !ok {
			return nil, fmt.Errorf("invalid value of register %d: %q", prime, valueStr)
		}
		if _, dup := regs[prime]; dup {
			return nil, fmt.Errorf("register %d assigned twice", prime)
		}
		regs[prime] = value
	}
	return fvm.EncodeRegisters(regs)
}

// parseInput parses one eval input: either a plain integer state, or
// register assignments separated by spaces or commas ("2=3 3=2").
func parseInput(s string) (*big.Int, error) {
	if !strings.Contains(s, "=") {
		return fvm.ParseInt(strings.TrimSpace(s))
	}
	return parseRegisters(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}))
}

func parsePrimes(values []string) ([]uint64, error) {
	out := make([]uint64, 0, len(values))
	for _, v := range values {
		p, ok := math.ParseUint64(strings.TrimSpace(v))
		if !ok {
			return nil, fmt.Errorf("invalid prime %q", v)
		}
		out = append(out, p)
	}
	return out, nil
}
