package gs

import (
	"math/big"

	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
)

// Pi is a Form 2 proof: a pair of B2 elements matching the two vectors of the
// commitment key u.
type Pi [2]B2

// Add returns the module-wise sum of both proofs.
func (p Pi) Add(x Pi) Pi {
	return Pi{p[0].Add(x[0]), p[1].Add(x[1])}
}

// Equal checks both components.
func (p Pi) Equal(x Pi) bool {
	return p[0].Equal(x[0]) && p[1].Equal(x[1])
}

// ProveLinear1 produces the Form 1 proof theta = Σ s_i·Iota1(A_i) for the
// equation Σ A_i·y_i = T1, where each secret scalar y_i is committed in G2
// with randomness s_i. Form 1 proofs are linear: the sum of two proofs for
// the same constants proves the sum of the equations.
func ProveLinear1(a []bn254.G1, s []*big.Int) (B1, error) {
	if len(a) != len(s) {
		return B1{}, ErrDimensionMismatch
	}
	var theta B1
	for i := range a {
		theta = theta.Add(Iota1(a[i]).ScalarMult(s[i]))
	}
	return theta, nil
}

// ProveLinear2 produces the Form 2 proof pi[j] = Σ R_i[j]·IotaPrime2(b_i)
// for the equation Σ X_i·b_i = T1, where each secret element X_i is
// committed in G1 with randomness R_i.
func (crs *CRS) ProveLinear2(b []*big.Int, r [][2]*big.Int) (Pi, error) {
	if len(b) != len(r) {
		return Pi{}, ErrDimensionMismatch
	}
	var pi Pi
	for i := range b {
		embedded := crs.IotaPrime2(b[i])
		for j := range 2 {
			pi[j] = pi[j].Add(embedded.ScalarMult(r[i][j]))
		}
	}
	return pi, nil
}
