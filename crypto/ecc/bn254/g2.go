package bn254

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/beleniosrf/types"
)

// G2 is an element of the second source group. The zero value is the point
// at infinity.
type G2 struct {
	inner bn254.G2Affine
}

// G2Generator returns the standard generator of G2.
func G2Generator() G2 {
	return G2{inner: g2Gen}
}

// G2BaseMult returns g2·s.
func G2BaseMult(s *big.Int) G2 {
	var r G2
	r.inner.ScalarMultiplicationBase(reduce(s))
	return r
}

func (g G2) Add(a G2) G2 {
	var r G2
	r.inner.Add(&g.inner, &a.inner)
	return r
}

func (g G2) Sub(a G2) G2 {
	var r G2
	r.inner.Sub(&g.inner, &a.inner)
	return r
}

func (g G2) Neg() G2 {
	var r G2
	r.inner.Neg(&g.inner)
	return r
}

func (g G2) ScalarMult(s *big.Int) G2 {
	var r G2
	r.inner.ScalarMultiplication(&g.inner, reduce(s))
	return r
}

func (g G2) Equal(a G2) bool {
	return g.inner.Equal(&a.inner)
}

func (g G2) IsIdentity() bool {
	return g.inner.IsInfinity()
}

// Marshal returns the 64 bytes compressed encoding of the point.
func (g G2) Marshal() []byte {
	b := g.inner.Bytes()
	return b[:]
}

// Unmarshal decodes a compressed or uncompressed point, checking it is on
// the curve.
func (g *G2) Unmarshal(buf []byte) error {
	if _, err := g.inner.SetBytes(buf); err != nil {
		return fmt.Errorf("invalid G2 point: %w", err)
	}
	return nil
}

func (g G2) String() string {
	return fmt.Sprintf("%x", g.Marshal())
}

func (g G2) MarshalJSON() ([]byte, error) {
	return json.Marshal(types.HexBytes(g.Marshal()))
}

func (g *G2) UnmarshalJSON(buf []byte) error {
	var b types.HexBytes
	if err := json.Unmarshal(buf, &b); err != nil {
		return err
	}
	return g.Unmarshal(b)
}

func (g G2) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(g.Marshal())
}

func (g *G2) UnmarshalCBOR(buf []byte) error {
	var b []byte
	if err := cbor.Unmarshal(buf, &b); err != nil {
		return err
	}
	return g.Unmarshal(b)
}
