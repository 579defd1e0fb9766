// Package waters implements the Waters aggregation function, mapping a bit
// vector m of length k to u[0] + Σ_{m_i=1} u[i+1] in G1.
package waters

import (
	"errors"
	"fmt"

	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
)

// ErrLengthMismatch is returned when the bit vector does not have the length
// of the function.
var ErrLengthMismatch = errors.New("message length mismatch")

// Randomness is the source of the random bases.
type Randomness interface {
	G1() bn254.G1
}

// Function is a Waters aggregation function over k bits, defined by its k+1
// public bases.
type Function struct {
	Bases []bn254.G1
}

// New draws the k+1 random bases of a function over k bits.
func New(src Randomness, k int) *Function {
	bases := make([]bn254.G1, k+1)
	for i := range bases {
		bases[i] = src.G1()
	}
	return &Function{Bases: bases}
}

// Len returns k, the number of bits of the messages.
func (f *Function) Len() int {
	return len(f.Bases) - 1
}

// Eval returns F(m). Every non zero entry of m counts as a one.
func (f *Function) Eval(m []uint8) (bn254.G1, error) {
	if len(m) != f.Len() {
		return bn254.G1{}, fmt.Errorf("%w: got %d bits, expected %d", ErrLengthMismatch, len(m), f.Len())
	}
	acc := f.Bases[0]
	for i, bit := range m {
		if bit != 0 {
			acc = acc.Add(f.Bases[i+1])
		}
	}
	return acc, nil
}
