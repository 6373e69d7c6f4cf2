package cmd

import (
	"fmt"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/talbii/fractran/fvm"
)

type WitnessOutput struct {
	Program   common.Hash   `json:"program"`
	Witness   hexutil.Bytes `json:"witness"`
	StateHash common.Hash   `json:"stateHash"`
}

func Witness(ctx *cli.Context) error {
	input := ctx.Path(WitnessInputFlag.Name)
	output := ctx.Path(WitnessOutputFlag.Name)
	state, err := jsonutil.LoadJSON[fvm.VMState](input)
	if err != nil {
		return fmt.Errorf("invalid input state (%v): %w", input, err)
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid input state (%v): %w", input, err)
	}
	witness := state.EncodeWitness()
	stateHash, err := witness.StateHash()
	if err != nil {
		return fmt.Errorf("failed to compute witness hash: %w", err)
	}
	witnessOutput := &WitnessOutput{
		Program:   state.Program.Hash(),
		Witness:   hexutil.Bytes(witness),
		StateHash: stateHash,
	}
	if output != "" {
		if err := jsonutil.WriteJSON(output, witnessOutput, OutFilePerm); err != nil {
			return fmt.Errorf("failed to write witness output %w", err)
		}
	}
	_, err = fmt.Fprintln(ctx.App.Writer, stateHash.Hex())
	return err
}

var WitnessCommand = &cli.Command{
	Name:        "witness",
	Usage:       "Convert a JSON VM state into a binary witness",
	Description: "Convert a JSON VM state into a binary witness. The state hash is written to stdout",
	Action:      Witness,
	Flags: []cli.Flag{
		WitnessInputFlag,
		WitnessOutputFlag,
	},
}
