package gs

import "github.com/vocdoni/beleniosrf/crypto/ecc/bn254"

// Matrix is a 2×2 matrix of target group elements, the codomain of the
// bilinear map F. The group operation is the entrywise product.
type Matrix [2][2]bn254.GT

// UnityMatrix returns the matrix whose entries are all the unity of GT.
func UnityMatrix() Matrix {
	u := bn254.Unity()
	return Matrix{{u, u}, {u, u}}
}

// Mul returns the entrywise product of both matrices.
func (m Matrix) Mul(x Matrix) Matrix {
	var r Matrix
	for i := range 2 {
		for j := range 2 {
			r[i][j] = m[i][j].Mul(x[i][j])
		}
	}
	return r
}

// Equal checks the four entries.
func (m Matrix) Equal(x Matrix) bool {
	for i := range 2 {
		for j := range 2 {
			if !m[i][j].Equal(x[i][j]) {
				return false
			}
		}
	}
	return true
}

// F is the bilinear map B1 × B2 → GT^{2×2}: F(X, Y)[i][j] = e(X[i], Y[j]).
func F(x B1, y B2) Matrix {
	var r Matrix
	for i := range 2 {
		for j := range 2 {
			r[i][j] = bn254.Pair(x[i], y[j])
		}
	}
	return r
}

// productF accumulates a product of F evaluations and evaluates the four
// entries with one multi Miller loop and one final exponentiation each.
type productF struct {
	acc [2][2]bn254.PairingAccumulator
}

// add multiplies the product by F(x, y).
func (p *productF) add(x B1, y B2) {
	for i := range 2 {
		for j := range 2 {
			p.acc[i][j].Add(x[i], y[j])
		}
	}
}

// isUnity returns true if every entry of the product is the unity.
func (p *productF) isUnity() bool {
	for i := range 2 {
		for j := range 2 {
			if !p.acc[i][j].Eval().IsUnity() {
				return false
			}
		}
	}
	return true
}
