package bn254

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/beleniosrf/types"
)

// G1 is an element of the first source group. The zero value is the point
// at infinity.
type G1 struct {
	inner bn254.G1Affine
}

// G1Generator returns the standard generator (1, 2) of G1.
func G1Generator() G1 {
	return G1{inner: g1Gen}
}

// G1BaseMult returns g1·s.
func G1BaseMult(s *big.Int) G1 {
	var r G1
	r.inner.ScalarMultiplicationBase(reduce(s))
	return r
}

func (g G1) Add(a G1) G1 {
	var r G1
	r.inner.Add(&g.inner, &a.inner)
	return r
}

func (g G1) Sub(a G1) G1 {
	var r G1
	r.inner.Sub(&g.inner, &a.inner)
	return r
}

func (g G1) Neg() G1 {
	var r G1
	r.inner.Neg(&g.inner)
	return r
}

func (g G1) ScalarMult(s *big.Int) G1 {
	var r G1
	r.inner.ScalarMultiplication(&g.inner, reduce(s))
	return r
}

func (g G1) Equal(a G1) bool {
	return g.inner.Equal(&a.inner)
}

func (g G1) IsIdentity() bool {
	return g.inner.IsInfinity()
}

// Marshal returns the 32 bytes compressed encoding of the point.
func (g G1) Marshal() []byte {
	b := g.inner.Bytes()
	return b[:]
}

// Unmarshal decodes a compressed or uncompressed point, checking it is on
// the curve.
func (g *G1) Unmarshal(buf []byte) error {
	if _, err := g.inner.SetBytes(buf); err != nil {
		return fmt.Errorf("invalid G1 point: %w", err)
	}
	return nil
}

func (g G1) String() string {
	return fmt.Sprintf("%x", g.Marshal())
}

func (g G1) MarshalJSON() ([]byte, error) {
	return json.Marshal(types.HexBytes(g.Marshal()))
}

func (g *G1) UnmarshalJSON(buf []byte) error {
	var b types.HexBytes
	if err := json.Unmarshal(buf, &b); err != nil {
		return err
	}
	return g.Unmarshal(b)
}

func (g G1) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(g.Marshal())
}

func (g *G1) UnmarshalCBOR(buf []byte) error {
	var b []byte
	if err := cbor.Unmarshal(buf, &b); err != nil {
		return err
	}
	return g.Unmarshal(b)
}
