package fvm

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Fraction is a single FRACTRAN rule. Num and Den need not be coprime.
type Fraction struct {
	Num *big.Int
	Den *big.Int
}

func NewFraction(num, den int64) Fraction {
	return Fraction{Num: big.NewInt(num), Den: big.NewInt(den)}
}

func (f Fraction) String() string {
	return fmt.Sprintf("%s/%s", f.Num, f.Den)
}

// Program is an ordered, immutable list of fractions.
// Rule priority is list order: the first applicable fraction always wins.
type Program struct {
	fracs []Fraction
	hash  common.Hash
}

// NewProgram copies fracs into a new Program.
// Every denominator must be positive and every numerator non-negative.
// An empty program is valid, and halts on any input.
func NewProgram(fracs []Fraction) (*Program, error) {
	out := make([]Fraction, len(fracs))
	for i, f := range fracs {
		if f.Num == nil || f.Den == nil {
			return nil, &InvalidFractionErr{Index: i, Reason: "missing term"}
		}
		if f.Den.Sign() <= 0 {
			return nil, &InvalidFractionErr{Index: i, Reason: fmt.Sprintf("non-positive denominator %s", f.Den)}
		}
		if f.Num.Sign() < 0 {
			return nil, &InvalidFractionErr{Index: i, Reason: fmt.Sprintf("negative numerator %s", f.Num)}
		}
		out[i] = Fraction{Num: new(big.Int).Set(f.Num), Den: new(big.Int).Set(f.Den)}
	}
	p := &Program{fracs: out}
	p.hash = crypto.Keccak256Hash(p.encode())
	return p, nil
}

// NewProgramFromPairs builds a program from (numerator, denominator) pairs.
func NewProgramFromPairs(pairs [][2]int64) (*Program, error) {
	fracs := make([]Fraction, len(pairs))
	for i, pair := range pairs {
		fracs[i] = NewFraction(pair[0], pair[1])
	}
	return NewProgram(fracs)
}

// MustProgram is NewProgramFromPairs for literal programs known to be valid.
func MustProgram(pairs ...[2]int64) *Program {
	p, err := NewProgramFromPairs(pairs)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Program) Len() int {
	return len(p.fracs)
}

// Fraction returns a copy of the i-th rule.
func (p *Program) Fraction(i int) Fraction {
	f := p.fracs[i]
	return Fraction{Num: new(big.Int).Set(f.Num), Den: new(big.Int).Set(f.Den)}
}

// Fractions returns a copy of all rules, in program order.
func (p *Program) Fractions() []Fraction {
	out := make([]Fraction, len(p.fracs))
	for i := range p.fracs {
		out[i] = p.Fraction(i)
	}
	return out
}

// Hash identifies the program by the keccak256 of its canonical encoding.
func (p *Program) Hash() common.Hash {
	return p.hash
}

// encode writes each term as a 4 byte big-endian length followed by its
// big-endian magnitude.
func (p *Program) encode() []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(len(p.fracs)))
	for _, f := range p.fracs {
		for _, term := range [2]*big.Int{f.Num, f.Den} {
			b := term.Bytes()
			out = binary.BigEndian.AppendUint32(out, uint32(len(b)))
			out = append(out, b...)
		}
	}
	return out
}

func (p *Program) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range p.fracs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (p *Program) MarshalJSON() ([]byte, error) {
	out := make([]string, len(p.fracs))
	for i, f := range p.fracs {
		out[i] = f.String()
	}
	return json.Marshal(out)
}

func (p *Program) UnmarshalJSON(data []byte) error {
	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		return err
	}
	// each element is exactly one fraction; the text syntax (comments,
	// brackets, separators) does not apply here
	fracs := make([]Fraction, len(terms))
	for i, term := range terms {
		f, err := parseFraction(strings.TrimSpace(term))
		if err != nil {
			return &InvalidFractionErr{Index: i, Reason: err.Error()}
		}
		fracs[i] = f
	}
	parsed, err := NewProgram(fracs)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}
