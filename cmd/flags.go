package cmd

import (
	"github.com/urfave/cli/v2"
)

const envVarPrefix = "FRACTRAN"

func prefixEnvVars(name string) []string {
	return []string{envVarPrefix + "_" + name}
}

var (
	LogLevelFlag = &cli.StringFlag{
		Name:    "log.level",
		Usage:   "Log level: trace, debug, info, warn, error or crit",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
	}

	LoadProgramFlag = &cli.PathFlag{
		Name:      "program",
		Usage:     "Path to a FRACTRAN program, fractions written as n/d",
		TakesFile: true,
		Required:  true,
	}
	LoadInputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Initial state as a decimal or 0x-prefixed integer. Mutually exclusive with --reg",
	}
	LoadRegFlag = &cli.StringSliceFlag{
		Name:  "reg",
		Usage: "Initial register as prime=value, e.g. --reg 2=3 --reg 3=2 encodes 2^3*3^2",
	}
	LoadOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "Output path of the JSON VM state, '-' for stdout",
		TakesFile: true,
		Value:     "state.json",
	}

	RunInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "Path of the JSON VM state to run",
		TakesFile: true,
		Value:     "state.json",
	}
	RunOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "Output path of the JSON VM state at the end of the run, '-' for stdout, empty to skip",
		TakesFile: true,
		Value:     "out.json",
	}
	RunMaxStepsFlag = &cli.Uint64Flag{
		Name:    "max-steps",
		Usage:   "Stop once this many rules have been applied in this run. Unbounded if not set",
		EnvVars: prefixEnvVars("MAX_STEPS"),
	}
	RunStopAtFlag = &cli.StringFlag{
		Name:  "stop-at",
		Usage: "step pattern to stop at: " + patternHelp,
		Value: "never",
	}
	RunInfoAtFlag = &cli.StringFlag{
		Name:  "info-at",
		Usage: "step pattern to log progress at: " + patternHelp,
		Value: "%100000",
	}
	RunProofAtFlag = &cli.StringFlag{
		Name:  "proof-at",
		Usage: "step pattern to output a step proof at: " + patternHelp,
		Value: "never",
	}
	RunProofFmtFlag = &cli.StringFlag{
		Name:  "proof-fmt",
		Usage: "format of proof output file names, with %d for the step number",
		Value: "proof-%d.json",
	}
	RunSnapshotAtFlag = &cli.StringFlag{
		Name:  "snapshot-at",
		Usage: "step pattern to write a state snapshot at: " + patternHelp,
		Value: "never",
	}
	RunSnapshotFmtFlag = &cli.StringFlag{
		Name:  "snapshot-fmt",
		Usage: "format of snapshot output file names, with %d for the step number",
		Value: "state-%d.json",
	}
	RunTraceFlag = &cli.BoolFlag{
		Name:  "trace",
		Usage: "log every applied rule",
	}
	RunPProfCPU = &cli.BoolFlag{
		Name:  "pprof.cpu",
		Usage: "enable pprof cpu profiling",
	}

	EvalProgramFlag = &cli.PathFlag{
		Name:      "program",
		Usage:     "Path to a FRACTRAN program, fractions written as n/d",
		TakesFile: true,
		Required:  true,
	}
	EvalReadFlag = &cli.StringSliceFlag{
		Name:  "read",
		Usage: "prime of a register to print from each halting state",
	}
	EvalMaxStepsFlag = &cli.Uint64Flag{
		Name:    "max-steps",
		Usage:   "step bound of every run",
		Value:   1_000_000,
		EnvVars: prefixEnvVars("MAX_STEPS"),
	}
	EvalParallelFlag = &cli.IntFlag{
		Name:    "parallel",
		Usage:   "maximum number of concurrent runs, 0 for no limit",
		Value:   4,
		EnvVars: prefixEnvVars("PARALLEL"),
	}
	EvalFixedFlag = &cli.BoolFlag{
		Name:  "fixed",
		Usage: "use 256-bit arithmetic, failing on overflow",
	}

	DecodeInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "Path of the JSON VM state to decode",
		TakesFile: true,
		Value:     "out.json",
	}
	DecodePrimeFlag = &cli.StringSliceFlag{
		Name:     "prime",
		Usage:    "prime of a register to decode, may be repeated",
		Required: true,
	}

	WitnessInputFlag = &cli.PathFlag{
		Name:      "input",
		Usage:     "Path of the JSON VM state",
		TakesFile: true,
		Required:  true,
	}
	WitnessOutputFlag = &cli.PathFlag{
		Name:      "output",
		Usage:     "Output path of the witness JSON, '-' for stdout, empty to skip",
		TakesFile: true,
	}
)
