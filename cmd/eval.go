package cmd

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/talbii/fractran/fixed"
	"github.com/talbii/fractran/fvm"
)

func Eval(ctx *cli.Context) error {
	p, err := loadProgram(ctx.Path(EvalProgramFlag.Name))
	if err != nil {
		return err
	}
	primes, err := parsePrimes(ctx.StringSlice(EvalReadFlag.Name))
	if err != nil {
		return err
	}

	args := ctx.Args().Slice()
	if len(args) == 0 {
		return errors.New("no inputs given")
	}
	inputs := make([]*big.Int, len(args))
	for i, arg := range args {
		if inputs[i], err = parseInput(arg); err != nil {
			return fmt.Errorf("invalid input %d (%q): %w", i, arg, err)
		}
	}

	l, err := loggerFromCLI(ctx)
	if err != nil {
		return err
	}

	maxSteps := ctx.Uint64(EvalMaxStepsFlag.Name)
	run := fvm.Runner(p, maxSteps)
	if ctx.Bool(EvalFixedFlag.Name) {
		fp, err := fixed.Compile(p)
		if err != nil {
			return err
		}
		run = fixed.Runner(fp, maxSteps)
	}

	l.Debug("evaluating", "program", p.Hash(), "rules", p.Len(), "inputs", len(inputs), "fixed", ctx.Bool(EvalFixedFlag.Name))
	results, err := fvm.RunAll(ctx.Context, inputs, ctx.Int(EvalParallelFlag.Name), run)
	if err != nil {
		return err
	}

	w := ctx.App.Writer
	for i, res := range results {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s\t%s\tsteps=%d", args[i], res.Outcome, res.Steps)
		if res.Outcome == fvm.Halted {
			fmt.Fprintf(&sb, "\tstate=%s", BigAttr{res.State})
			for _, prime := range primes {
				v, err := fvm.DecodeRegister(res.State, new(big.Int).SetUint64(prime))
				if err != nil {
					return fmt.Errorf("failed to decode register %d of input %d: %w", prime, i, err)
				}
				fmt.Fprintf(&sb, "\t%d=%d", prime, v)
			}
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

var EvalCommand = &cli.Command{
	Name:        "eval",
	Usage:       "Run a FRACTRAN program on many inputs and print the halting registers",
	Description: "Run a FRACTRAN program on each input argument concurrently. An input is an integer, or register assignments such as \"2=3 3=2\".",
	ArgsUsage:   "<input> [<input> ...]",
	Action:      Eval,
	Flags: []cli.Flag{
		EvalProgramFlag,
		EvalReadFlag,
		EvalMaxStepsFlag,
		EvalParallelFlag,
		EvalFixedFlag,
	},
}
