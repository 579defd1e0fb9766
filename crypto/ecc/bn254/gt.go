package bn254

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/vocdoni/beleniosrf/types"
)

// GT is an element of the target group of the pairing, written
// multiplicatively. The zero value is not a valid element, use Unity.
type GT struct {
	inner bn254.GT
}

// Unity returns the neutral element of GT.
func Unity() GT {
	var r GT
	r.inner.SetOne()
	return r
}

func (z GT) Mul(x GT) GT {
	var r GT
	r.inner.Mul(&z.inner, &x.inner)
	return r
}

func (z GT) Inverse() GT {
	var r GT
	r.inner.Inverse(&z.inner)
	return r
}

// Exp returns z^k. Negative exponents are allowed.
func (z GT) Exp(k *big.Int) GT {
	var r GT
	r.inner.Exp(z.inner, k)
	return r
}

func (z GT) Equal(x GT) bool {
	return z.inner.Equal(&x.inner)
}

func (z GT) IsUnity() bool {
	return z.inner.IsOne()
}

func (z GT) Marshal() []byte {
	b := z.inner.Bytes()
	return b[:]
}

func (z *GT) Unmarshal(buf []byte) error {
	if err := z.inner.SetBytes(buf); err != nil {
		return fmt.Errorf("invalid GT element: %w", err)
	}
	return nil
}

func (z GT) String() string {
	return fmt.Sprintf("%x", z.Marshal())
}

func (z GT) MarshalJSON() ([]byte, error) {
	return json.Marshal(types.HexBytes(z.Marshal()))
}

func (z *GT) UnmarshalJSON(buf []byte) error {
	var b types.HexBytes
	if err := json.Unmarshal(buf, &b); err != nil {
		return err
	}
	return z.Unmarshal(b)
}
