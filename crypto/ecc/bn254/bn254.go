// Package bn254 wraps the gnark-crypto BN254 pairing groups into immutable
// value types implementing the ecc.Point capability. G1 and G2 are the source
// groups and GT the target group of the optimal Ate pairing.
package bn254

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/beleniosrf/crypto/ecc"
)

var (
	g1Gen bn254.G1Affine
	g2Gen bn254.G2Affine

	order        = fr.Modulus()
	fieldModulus = fp.Modulus()
)

func init() {
	_, _, g1Gen, g2Gen = bn254.Generators()
}

// Order returns n, the prime order of G1, G2 and GT.
func Order() *big.Int {
	return new(big.Int).Set(order)
}

// FieldModulus returns p, the modulus of the base field of the curve.
func FieldModulus() *big.Int {
	return new(big.Int).Set(fieldModulus)
}

// reduce maps any integer into [0, n).
func reduce(s *big.Int) *big.Int {
	return ecc.Reduce(s, order)
}

// G1Group implements ecc.Group for G1.
type G1Group struct{}

func (G1Group) Order() *big.Int { return Order() }

func (G1Group) Generator() G1 { return G1Generator() }

func (G1Group) Identity() G1 { return G1{} }

func (G1Group) Unmarshal(buf []byte) (G1, error) {
	var g G1
	err := g.Unmarshal(buf)
	return g, err
}

// G2Group implements ecc.Group for G2.
type G2Group struct{}

func (G2Group) Order() *big.Int { return Order() }

func (G2Group) Generator() G2 { return G2Generator() }

func (G2Group) Identity() G2 { return G2{} }

func (G2Group) Unmarshal(buf []byte) (G2, error) {
	var g G2
	err := g.Unmarshal(buf)
	return g, err
}

var (
	_ ecc.Group[G1] = G1Group{}
	_ ecc.Group[G2] = G2Group{}
)

// HashToField hashes msg into an integer modulo the base field modulus p,
// using expand_message_xmd with SHA-256 and the domain separation tag dst.
func HashToField(msg, dst []byte) (*big.Int, error) {
	e, err := fp.Hash(msg, dst, 1)
	if err != nil {
		return nil, err
	}
	return e[0].BigInt(new(big.Int)), nil
}
