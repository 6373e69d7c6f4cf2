package cmd

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/urfave/cli/v2"

	"github.com/talbii/fractran/fvm"
)

var OutFilePerm = os.FileMode(0o644)

func loadProgram(path string) (*fvm.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program %q: %w", path, err)
	}
	p, err := fvm.ParseProgram(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse program %q: %w", path, err)
	}
	return p, nil
}

func Load(ctx *cli.Context) error {
	p, err := loadProgram(ctx.Path(LoadProgramFlag.Name))
	if err != nil {
		return err
	}

	var initial *big.Int
	switch {
	case ctx.IsSet(LoadInputFlag.Name) && ctx.IsSet(LoadRegFlag.Name):
		return errors.New("--input and --reg are mutually exclusive")
	case ctx.IsSet(LoadInputFlag.Name):
		initial, err = fvm.ParseInt(ctx.String(LoadInputFlag.Name))
	default:
		initial, err = parseRegisters(ctx.StringSlice(LoadRegFlag.Name))
	}
	if err != nil {
		return fmt.Errorf("invalid initial state: %w", err)
	}

	state, err := fvm.NewVMState(p, initial)
	if err != nil {
		return err
	}
	return jsonutil.WriteJSON(ctx.Path(LoadOutputFlag.Name), state, OutFilePerm)
}

var LoadCommand = &cli.Command{
	Name:        "load",
	Usage:       "Load a FRACTRAN program and initial state into a JSON VM state",
	Description: "Load a FRACTRAN program and initial state into a JSON VM state. The initial state is either an integer, or registers encoded as prime powers. Without either, the state is 1",
	Action:      Load,
	Flags: []cli.Flag{
		LoadProgramFlag,
		LoadInputFlag,
		LoadRegFlag,
		LoadOutputFlag,
	},
}
