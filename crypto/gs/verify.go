package gs

import (
	"math/big"

	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
)

var one = big.NewInt(1)

// Equation is a multi-scalar linear equation with target T1, mixing Form 1
// terms (public constants A_i, commitments DPrime_i to secret scalars) and
// Form 2 terms (commitments C_j to secret elements, public scalars B_j),
// along with its proofs. Theta is the identity when there are no Form 1
// terms and Pi is the identity when there are no Form 2 terms.
type Equation struct {
	A      []bn254.G1
	DPrime []B2
	C      []B1
	B      []*big.Int
	T1     bn254.G1
	Theta  B1
	Pi     Pi
}

// VerifyMultiScalar checks
//
//	Π F(Iota1(A_i), DPrime_i) · Π F(C_j, IotaPrime2(B_j)) ==
//	  F(Iota1(T1), IotaPrime2(1)) · F(u1, Pi[0]) · F(u2, Pi[1]) · F(Theta, v1)
//
// entrywise. It returns ErrDimensionMismatch, without evaluating any
// pairing, if len(A) != len(DPrime) or len(C) != len(B). Otherwise the error
// is nil and the boolean tells if the equation holds.
func (crs *CRS) VerifyMultiScalar(eq *Equation) (bool, error) {
	if len(eq.A) != len(eq.DPrime) || len(eq.C) != len(eq.B) {
		return false, ErrDimensionMismatch
	}
	// the right hand side is moved to the left negating its B1 arguments,
	// so the whole check is a product of pairings equal to the unity
	var prod productF
	for i := range eq.A {
		prod.add(Iota1(eq.A[i]), eq.DPrime[i])
	}
	for j := range eq.C {
		prod.add(eq.C[j], crs.IotaPrime2(eq.B[j]))
	}
	prod.add(Iota1(eq.T1).Neg(), crs.IotaPrime2(one))
	prod.add(crs.U.K1.Neg(), eq.Pi[0])
	prod.add(crs.U.K2.Neg(), eq.Pi[1])
	prod.add(eq.Theta.Neg(), crs.V.K1)
	return prod.isUnity(), nil
}

// VerifyLinear1 verifies a Form 1 proof theta of Σ A_i·y_i = T1 against the
// commitments dPrime to the y_i.
func (crs *CRS) VerifyLinear1(a []bn254.G1, dPrime []B2, t1 bn254.G1, theta B1) (bool, error) {
	return crs.VerifyMultiScalar(&Equation{A: a, DPrime: dPrime, T1: t1, Theta: theta})
}

// VerifyLinear2 verifies a Form 2 proof pi of Σ X_i·b_i = T1 against the
// commitments c to the X_i.
func (crs *CRS) VerifyLinear2(c []B1, b []*big.Int, t1 bn254.G1, pi Pi) (bool, error) {
	return crs.VerifyMultiScalar(&Equation{C: c, B: b, T1: t1, Pi: pi})
}
