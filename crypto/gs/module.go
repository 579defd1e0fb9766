// Package gs implements the Groth-Sahai commitment and proof system over
// BN254 in its perfectly binding mode, restricted to the multi-scalar linear
// equations needed by the ballots: commitments to scalars and group
// elements, Form 1 proofs (theta, secret scalars committed in G2) and Form 2
// proofs (pi, secret elements committed in G1), and their verification
// through the bilinear map F.
package gs

import (
	"errors"
	"math/big"

	"github.com/vocdoni/beleniosrf/crypto/ecc"
	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
)

// ErrDimensionMismatch is returned when the vectors provided to a commitment,
// proof or verification do not have matching lengths.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Module is an element of the padded module B = G×G used by Groth-Sahai.
// The zero value is the identity of the module.
type Module[P ecc.Point[P]] [2]P

type (
	// B1 is a module element over G1.
	B1 = Module[bn254.G1]
	// B2 is a module element over G2.
	B2 = Module[bn254.G2]
)

// Include returns (identity, x), the embedding of a group element into the
// module.
func Include[P ecc.Point[P]](x P) Module[P] {
	var m Module[P]
	m[1] = x
	return m
}

// Add returns the componentwise sum.
func (m Module[P]) Add(x Module[P]) Module[P] {
	return Module[P]{m[0].Add(x[0]), m[1].Add(x[1])}
}

// ScalarMult returns the componentwise scalar multiplication.
func (m Module[P]) ScalarMult(s *big.Int) Module[P] {
	return Module[P]{m[0].ScalarMult(s), m[1].ScalarMult(s)}
}

// Neg returns the componentwise inverse.
func (m Module[P]) Neg() Module[P] {
	return Module[P]{m[0].Neg(), m[1].Neg()}
}

// Equal checks both components.
func (m Module[P]) Equal(x Module[P]) bool {
	return m[0].Equal(x[0]) && m[1].Equal(x[1])
}

// IsIdentity returns true if both components are the identity.
func (m Module[P]) IsIdentity() bool {
	return m[0].IsIdentity() && m[1].IsIdentity()
}

// Iota1 embeds X ∈ G1 into B1.
func Iota1(x bn254.G1) B1 {
	return Include(x)
}

// Iota2 embeds Y ∈ G2 into B2.
func Iota2(y bn254.G2) B2 {
	return Include(y)
}
