package gs

import (
	"math/big"

	"github.com/vocdoni/beleniosrf/crypto/ecc"
	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
)

// Randomness is the source of the random scalars used by the setup and by
// the commitments.
type Randomness interface {
	Scalar() *big.Int
}

// CommitmentKey is a Groth-Sahai commitment key (K1, K2) over one of the
// source groups, where K2 = t·K1 for a trapdoor t discarded at setup. Aux is
// (K2[0], K2[1] + g), the basis used to embed scalars.
type CommitmentKey[P ecc.Point[P]] struct {
	K1  Module[P] `json:"k1" cbor:"0,keyasint"`
	K2  Module[P] `json:"k2" cbor:"1,keyasint"`
	Aux Module[P] `json:"aux" cbor:"2,keyasint"`
}

// CRS is the common reference string: the commitment key u over G1 and the
// commitment key v over G2.
type CRS struct {
	U CommitmentKey[bn254.G1] `json:"u" cbor:"0,keyasint"`
	V CommitmentKey[bn254.G2] `json:"v" cbor:"1,keyasint"`
}

// newCommitmentKey builds a perfectly binding key: K1 = (g, g·a) and
// K2 = t·K1.
func newCommitmentKey[P ecc.Point[P]](g P, a, t *big.Int) CommitmentKey[P] {
	k1 := Module[P]{g, g.ScalarMult(a)}
	k2 := k1.ScalarMult(t)
	return CommitmentKey[P]{
		K1:  k1,
		K2:  k2,
		Aux: Module[P]{k2[0], k2[1].Add(g)},
	}
}

// Setup generates a new CRS in the perfectly binding mode. The trapdoors
// are drawn from src and never leave this function.
func Setup(src Randomness) *CRS {
	a, tu := src.Scalar(), src.Scalar()
	b, tv := src.Scalar(), src.Scalar()
	return &CRS{
		U: newCommitmentKey(bn254.G1Generator(), a, tu),
		V: newCommitmentKey(bn254.G2Generator(), b, tv),
	}
}

// Embed returns z·Aux, the embedding of the scalar z into the module
// (iota' in the Groth-Sahai terminology).
func (k CommitmentKey[P]) Embed(z *big.Int) Module[P] {
	return k.Aux.ScalarMult(z)
}

// CommitScalar commits to x with randomness r: Embed(x) + r·K1.
func (k CommitmentKey[P]) CommitScalar(x, r *big.Int) Module[P] {
	return k.Embed(x).Add(k.K1.ScalarMult(r))
}

// CommitElement commits to the group element x with randomness (r1, r2):
// Include(x) + r1·K1 + r2·K2.
func (k CommitmentKey[P]) CommitElement(x P, r1, r2 *big.Int) Module[P] {
	return Include(x).Add(k.K1.ScalarMult(r1)).Add(k.K2.ScalarMult(r2))
}

// CommitScalars commits to every xs[i] with randomness rs[i].
func (k CommitmentKey[P]) CommitScalars(xs, rs []*big.Int) ([]Module[P], error) {
	if len(xs) != len(rs) {
		return nil, ErrDimensionMismatch
	}
	out := make([]Module[P], len(xs))
	for i := range xs {
		out[i] = k.CommitScalar(xs[i], rs[i])
	}
	return out, nil
}

// CommitElements commits to every xs[i] with randomness rs[i].
func (k CommitmentKey[P]) CommitElements(xs []P, rs [][2]*big.Int) ([]Module[P], error) {
	if len(xs) != len(rs) {
		return nil, ErrDimensionMismatch
	}
	out := make([]Module[P], len(xs))
	for i := range xs {
		out[i] = k.CommitElement(xs[i], rs[i][0], rs[i][1])
	}
	return out, nil
}

// IotaPrime1 embeds a scalar into B1.
func (crs *CRS) IotaPrime1(z *big.Int) B1 {
	return crs.U.Embed(z)
}

// IotaPrime2 embeds a scalar into B2.
func (crs *CRS) IotaPrime2(z *big.Int) B2 {
	return crs.V.Embed(z)
}

// CommitScalarsInG1 commits the scalars into B1 using the key u.
func (crs *CRS) CommitScalarsInG1(xs, rs []*big.Int) ([]B1, error) {
	return crs.U.CommitScalars(xs, rs)
}

// CommitScalarsInG2 commits the scalars into B2 using the key v.
func (crs *CRS) CommitScalarsInG2(xs, rs []*big.Int) ([]B2, error) {
	return crs.V.CommitScalars(xs, rs)
}

// CommitElementsInG1 commits the G1 elements into B1 using the key u.
func (crs *CRS) CommitElementsInG1(xs []bn254.G1, rs [][2]*big.Int) ([]B1, error) {
	return crs.U.CommitElements(xs, rs)
}

// CommitElementsInG2 commits the G2 elements into B2 using the key v.
func (crs *CRS) CommitElementsInG2(xs []bn254.G2, rs [][2]*big.Int) ([]B2, error) {
	return crs.V.CommitElements(xs, rs)
}
