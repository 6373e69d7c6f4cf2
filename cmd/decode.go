package cmd

import (
	"fmt"
	"math/big"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/urfave/cli/v2"

	"github.com/talbii/fractran/fvm"
)

func Decode(ctx *cli.Context) error {
	state, err := jsonutil.LoadJSON[fvm.VMState](ctx.Path(DecodeInputFlag.Name))
	if err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid input state: %w", err)
	}
	primes, err := parsePrimes(ctx.StringSlice(DecodePrimeFlag.Name))
	if err != nil {
		return err
	}

	if !state.Halted {
		l, err := loggerFromCLI(ctx)
		if err != nil {
			return err
		}
		l.Warn("decoding a state that has not halted", "step", state.Step)
	}

	for _, p := range primes {
		v, err := fvm.DecodeRegister(state.State, new(big.Int).SetUint64(p))
		if err != nil {
			return fmt.Errorf("failed to decode register %d: %w", p, err)
		}
		if _, err := fmt.Fprintf(ctx.App.Writer, "%d=%d\n", p, v); err != nil {
			return err
		}
	}
	return nil
}

var DecodeCommand = &cli.Command{
	Name:        "decode",
	Usage:       "Print the registers of a JSON VM state",
	Description: "Print the registers of a JSON VM state. A register is the exponent of its prime in the state.",
	Action:      Decode,
	Flags: []cli.Flag{
		DecodeInputFlag,
		DecodePrimeFlag,
	},
}
