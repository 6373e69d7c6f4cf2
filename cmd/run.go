package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/talbii/fractran/fvm"
)

// Proof records a single step: the state hashes around it, the encoded
// pre-state and the rule it applied, -1 if the step detected a halt.
type Proof struct {
	Step uint64 `json:"step"`

	Pre  common.Hash `json:"pre"`
	Post common.Hash `json:"post"`

	StateData hexutil.Bytes `json:"state-data"`
	Rule      int           `json:"rule"`
}

func Run(ctx *cli.Context) error {
	if ctx.Bool(RunPProfCPU.Name) {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	state, err := jsonutil.LoadJSON[fvm.VMState](ctx.Path(RunInputFlag.Name))
	if err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid input state: %w", err)
	}

	l, err := loggerFromCLI(ctx)
	if err != nil {
		return err
	}

	var trace io.Writer
	if ctx.Bool(RunTraceFlag.Name) {
		trace = &LoggingWriter{Name: "rule", Log: l}
	}

	maxSteps := fvm.Unbounded
	if ctx.IsSet(RunMaxStepsFlag.Name) {
		maxSteps = ctx.Uint64(RunMaxStepsFlag.Name)
	}

	stopAt, err := stepMatcher(ctx, RunStopAtFlag)
	if err != nil {
		return err
	}
	infoAt, err := stepMatcher(ctx, RunInfoAtFlag)
	if err != nil {
		return err
	}
	proofAt, err := stepMatcher(ctx, RunProofAtFlag)
	if err != nil {
		return err
	}
	proofFmt := ctx.String(RunProofFmtFlag.Name)
	snapshotAt, err := stepMatcher(ctx, RunSnapshotAtFlag)
	if err != nil {
		return err
	}
	snapshotFmt := ctx.String(RunSnapshotFmtFlag.Name)

	us := fvm.NewInstrumentedState(state, trace)

	start := time.Now()
	startStep := state.Step
	stopped := false

	for !state.Halted {
		if state.Step%100 == 0 { // don't do the ctx err check (includes lock) too often
			if err := ctx.Context.Err(); err != nil {
				return err
			}
		}

		step := state.Step

		if infoAt(state) {
			delta := time.Since(start)
			l.Info("processing",
				"step", step,
				"rule", state.LastRule,
				"sps", float64(step-startStep)/(float64(delta)/float64(time.Second)),
				"bits", state.State.BitLen(),
				"state", BigAttr{state.State},
			)
		}

		if stopAt(state) {
			stopped = true
			break
		}

		if snapshotAt(state) {
			if err := jsonutil.WriteJSON(fmt.Sprintf(snapshotFmt, step), state, OutFilePerm); err != nil {
				return fmt.Errorf("failed to write state snapshot: %w", err)
			}
		}

		if step-startStep == maxSteps {
			us.DetectHalt()
			break
		}

		if proofAt(state) {
			preStateHash, err := state.EncodeWitness().StateHash()
			if err != nil {
				return fmt.Errorf("failed to hash prestate witness: %w", err)
			}
			witness, err := us.Step(true)
			if err != nil {
				return fmt.Errorf("failed at proof-gen step %d (rule %d): %w", step, state.LastRule, err)
			}
			postStateHash, err := state.EncodeWitness().StateHash()
			if err != nil {
				return fmt.Errorf("failed to hash poststate witness: %w", err)
			}
			proof := &Proof{
				Step:      step,
				Pre:       preStateHash,
				Post:      postStateHash,
				StateData: hexutil.Bytes(witness.State),
				Rule:      witness.Rule,
			}
			if err := jsonutil.WriteJSON(fmt.Sprintf(proofFmt, step), proof, OutFilePerm); err != nil {
				return fmt.Errorf("failed to write proof data: %w", err)
			}
		} else {
			if _, err := us.Step(false); err != nil {
				return fmt.Errorf("failed at step %d (rule %d): %w", step, state.LastRule, err)
			}
		}
	}

	// a --stop-at match ends the run without deciding its outcome
	outcome := state.Result().Outcome.String()
	if stopped {
		outcome = "stopped"
	}
	l.Info("finished",
		"outcome", outcome,
		"steps", state.Step-startStep,
		"total", state.Step,
		"state", BigAttr{state.State},
		"duration", time.Since(start),
	)
	l.Debug("rule hits", "hits", us.RuleHits())

	if output := ctx.Path(RunOutputFlag.Name); output != "" {
		if err := jsonutil.WriteJSON(output, state, OutFilePerm); err != nil {
			return fmt.Errorf("failed to write state output: %w", err)
		}
	}
	return nil
}

var RunCommand = &cli.Command{
	Name:        "run",
	Usage:       "Run a FRACTRAN VM state until it halts",
	Description: "Run a FRACTRAN VM state until it halts, the step bound is reached or a --stop-at pattern matches. See flags to match when to log progress, output a proof or a snapshot.",
	Action:      Run,
	Flags: []cli.Flag{
		RunInputFlag,
		RunOutputFlag,
		RunMaxStepsFlag,
		RunStopAtFlag,
		RunInfoAtFlag,
		RunProofAtFlag,
		RunProofFmtFlag,
		RunSnapshotAtFlag,
		RunSnapshotFmtFlag,
		RunTraceFlag,
		RunPProfCPU,
	},
}
