package fvm

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// RunFunc runs one fixed program on the given initial state.
type RunFunc func(initial *big.Int) (*Result, error)

// Runner binds Run to a program and step bound.
func Runner(p *Program, maxSteps uint64) RunFunc {
	return func(initial *big.Int) (*Result, error) {
		return Run(p, initial, maxSteps)
	}
}

// RunAll runs every input through run, at most parallelism at a time
// (no limit if parallelism <= 0). Results are in input order.
// The first error cancels the runs that have not started yet.
func RunAll(ctx context.Context, inputs []*big.Int, parallelism int, run RunFunc) ([]*Result, error) {
	results := make([]*Result, len(inputs))
	g, gCtx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := run(input)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
