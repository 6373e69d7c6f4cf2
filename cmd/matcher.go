package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/talbii/fractran/fvm"
)

const patternHelp = "'never' (default), 'always', '=123' at exactly step 123, '%123' for every 123 steps"

type StepMatcher func(st *fvm.VMState) bool

// StepMatcherFlag selects steps by pattern. It implements cli.Generic.
type StepMatcherFlag struct {
	repr    string
	matcher StepMatcher
}

func MustStepMatcherFlag(pattern string) *StepMatcherFlag {
	out := new(StepMatcherFlag)
	if err := out.Set(pattern); err != nil {
		panic(err)
	}
	return out
}

func (m *StepMatcherFlag) Set(value string) error {
	m.repr = value
	switch {
	case value == "" || value == "never":
		m.matcher = func(st *fvm.VMState) bool {
			return false
		}
	case value == "always":
		m.matcher = func(st *fvm.VMState) bool {
			return true
		}
	case strings.HasPrefix(value, "="):
		when, err := strconv.ParseUint(value[1:], 0, 64)
		if err != nil {
			return fmt.Errorf("failed to parse step number: %w", err)
		}
		m.matcher = func(st *fvm.VMState) bool {
			return st.Step == when
		}
	case strings.HasPrefix(value, "%"):
		when, err := strconv.ParseUint(value[1:], 0, 64)
		if err != nil {
			return fmt.Errorf("failed to parse step interval number: %w", err)
		}
		if when == 0 {
			return fmt.Errorf("invalid step interval %q", value)
		}
		m.matcher = func(st *fvm.VMState) bool {
			return st.Step%when == 0
		}
	default:
		return fmt.Errorf("unrecognized step matcher: %q", value)
	}
	return nil
}

func (m *StepMatcherFlag) String() string {
	return m.repr
}

func (m *StepMatcherFlag) Matcher() StepMatcher {
	if m.matcher == nil { // Set may not be called for the default
		return func(st *fvm.VMState) bool {
			return false
		}
	}
	return m.matcher
}

// stepMatcher parses the pattern of a matcher flag. The pattern is kept as a
// plain string flag and parsed per invocation, so no matcher state outlives
// a single command run.
func stepMatcher(ctx *cli.Context, flag *cli.StringFlag) (StepMatcher, error) {
	m := new(StepMatcherFlag)
	if err := m.Set(ctx.String(flag.Name)); err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag.Name, err)
	}
	return m.Matcher(), nil
}
