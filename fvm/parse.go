package fvm

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseProgram reads the text form of a program: fractions written as n/d,
// separated by whitespace or commas and optionally wrapped in brackets.
// A '#' starts a comment running to the end of the line.
//
//	# adder: moves register 3 into register 2
//	[2/3]
func ParseProgram(src string) (*Program, error) {
	var fracs []Fraction
	for lineNum, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.NewReplacer("[", " ", "]", " ", ",", " ").Replace(line)
		for _, tok := range strings.Fields(line) {
			f, err := parseFraction(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidProgram, lineNum+1, err)
			}
			fracs = append(fracs, f)
		}
	}
	return NewProgram(fracs)
}

func parseFraction(tok string) (Fraction, error) {
	numStr, denStr, ok := strings.Cut(tok, "/")
	if !ok {
		return Fraction{}, fmt.Errorf("expected n/d, got %q", tok)
	}
	num, err := ParseInt(numStr)
	if err != nil {
		return Fraction{}, fmt.Errorf("numerator of %q: %w", tok, err)
	}
	den, err := ParseInt(denStr)
	if err != nil {
		return Fraction{}, fmt.Errorf("denominator of %q: %w", tok, err)
	}
	return Fraction{Num: num, Den: den}, nil
}

// ParseInt parses a decimal or 0x-prefixed hexadecimal integer of any size.
// A leading zero does not select octal.
func ParseInt(s string) (*big.Int, error) {
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	if digits == "" || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}
