package bn254

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// Pair computes e(p, q). If any of the arguments is the identity, the result
// is the unity of GT.
func Pair(p G1, q G2) GT {
	// a single pair never has mismatched lengths
	gt, _ := PairProduct([]G1{p}, []G2{q})
	return gt
}

// PairProduct computes the product of the pairings e(ps[i], qs[i]) sharing
// a single final exponentiation.
func PairProduct(ps []G1, qs []G2) (GT, error) {
	if len(ps) != len(qs) {
		return GT{}, fmt.Errorf("pairing product: %d G1 points and %d G2 points", len(ps), len(qs))
	}
	var acc PairingAccumulator
	for i := range ps {
		acc.Add(ps[i], qs[i])
	}
	return acc.Eval(), nil
}

// PairingAccumulator collects the pairs of a product of pairings, which is
// evaluated with one multi Miller loop and one final exponentiation. Pairs
// involving the identity contribute the unity and are skipped. The zero
// value is an empty product.
type PairingAccumulator struct {
	ps []bn254.G1Affine
	qs []bn254.G2Affine
}

// Add appends e(p, q) to the product.
func (a *PairingAccumulator) Add(p G1, q G2) {
	if p.IsIdentity() || q.IsIdentity() {
		return
	}
	a.ps = append(a.ps, p.inner)
	a.qs = append(a.qs, q.inner)
}

// Len returns the number of non trivial pairs accumulated.
func (a *PairingAccumulator) Len() int {
	return len(a.ps)
}

// MillerLoop returns the product of the Miller loops of the accumulated
// pairs, without the final exponentiation.
func (a *PairingAccumulator) MillerLoop() GT {
	if len(a.ps) == 0 {
		return Unity()
	}
	f, err := bn254.MillerLoop(a.ps, a.qs)
	if err != nil {
		// only possible with mismatched or empty inputs, both excluded above
		panic(fmt.Sprintf("miller loop: %v", err))
	}
	return GT{inner: f}
}

// Eval returns the value of the accumulated product of pairings.
func (a *PairingAccumulator) Eval() GT {
	if len(a.ps) == 0 {
		return Unity()
	}
	return FinalExponentiation(a.MillerLoop())
}

// FinalExponentiation applies the final exponentiation to the product of
// the Miller loop outputs provided.
func FinalExponentiation(f GT, more ...GT) GT {
	rest := make([]*bn254.GT, len(more))
	for i := range more {
		rest[i] = &more[i].inner
	}
	return GT{inner: bn254.FinalExponentiation(&f.inner, rest...)}
}
