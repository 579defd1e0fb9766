package bn254

import (
	"encoding/json"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/beleniosrf/crypto/ecc"
)

var (
	scalarA = big.NewInt(123456789)
	scalarB = new(big.Int).SetBytes([]byte("bilinear pairing test scalar"))
)

func TestBilinearity(t *testing.T) {
	c := qt.New(t)
	p := G1BaseMult(big.NewInt(7))
	q := G2BaseMult(big.NewInt(11))

	base := Pair(p, q)
	ab := new(big.Int).Mul(scalarA, scalarB)

	lhs := Pair(p.ScalarMult(scalarA), q.ScalarMult(scalarB))
	c.Assert(lhs.Equal(base.Exp(ab)), qt.IsTrue)
	c.Assert(lhs.Equal(Pair(p.ScalarMult(scalarB), q.ScalarMult(scalarA))), qt.IsTrue)

	r1 := G1BaseMult(big.NewInt(5))
	c.Assert(Pair(p.Add(r1), q).Equal(base.Mul(Pair(r1, q))), qt.IsTrue)

	r2 := G2BaseMult(big.NewInt(5))
	c.Assert(Pair(p, q.Add(r2)).Equal(base.Mul(Pair(p, r2))), qt.IsTrue)

	c.Assert(base.IsUnity(), qt.IsFalse)
	c.Assert(Pair(G1{}, q).IsUnity(), qt.IsTrue)
	c.Assert(Pair(p, G2{}).IsUnity(), qt.IsTrue)
}

func TestPairProduct(t *testing.T) {
	c := qt.New(t)
	p := G1BaseMult(scalarA)
	q := G2BaseMult(scalarB)

	// e(p, q)·e(-p, q) = 1
	prod, err := PairProduct([]G1{p, p.Neg()}, []G2{q, q})
	c.Assert(err, qt.IsNil)
	c.Assert(prod.IsUnity(), qt.IsTrue)

	prod, err = PairProduct([]G1{p, p}, []G2{q, q})
	c.Assert(err, qt.IsNil)
	c.Assert(prod.Equal(Pair(p, q).Exp(big.NewInt(2))), qt.IsTrue)

	_, err = PairProduct([]G1{p}, nil)
	c.Assert(err, qt.IsNotNil)

	// two Miller loops share one final exponentiation
	var a1, a2 PairingAccumulator
	a1.Add(p, q)
	a2.Add(p.Neg(), q)
	c.Assert(FinalExponentiation(a1.MillerLoop(), a2.MillerLoop()).IsUnity(), qt.IsTrue)

	var empty PairingAccumulator
	c.Assert(empty.Eval().IsUnity(), qt.IsTrue)
}

func TestTargetGroup(t *testing.T) {
	c := qt.New(t)
	z := Pair(G1Generator(), G2Generator())
	c.Assert(z.Mul(z.Inverse()).IsUnity(), qt.IsTrue)
	c.Assert(z.Exp(big.NewInt(-1)).Equal(z.Inverse()), qt.IsTrue)
	c.Assert(z.Exp(Order()).IsUnity(), qt.IsTrue)

	var decoded GT
	c.Assert(decoded.Unmarshal(z.Marshal()), qt.IsNil)
	c.Assert(decoded.Equal(z), qt.IsTrue)
}

func TestGroupOperations(t *testing.T) {
	c := qt.New(t)
	g := G1Generator()
	p := g.ScalarMult(scalarA)

	c.Assert(p.Equal(G1BaseMult(scalarA)), qt.IsTrue)
	c.Assert(p.Sub(p).IsIdentity(), qt.IsTrue)
	c.Assert(p.Add(p.Neg()).IsIdentity(), qt.IsTrue)
	c.Assert(p.Add(G1{}).Equal(p), qt.IsTrue)
	c.Assert(g.ScalarMult(Order()).IsIdentity(), qt.IsTrue)
	c.Assert(g.ScalarMult(big.NewInt(-1)).Equal(g.Neg()), qt.IsTrue)
	// operations do not modify the receiver
	c.Assert(g.Equal(G1Generator()), qt.IsTrue)

	h := G2Generator().ScalarMult(scalarB)
	c.Assert(h.Sub(h).IsIdentity(), qt.IsTrue)
	c.Assert(G2Generator().ScalarMult(big.NewInt(-1)).Equal(G2Generator().Neg()), qt.IsTrue)

	c.Assert(ecc.Sum(g, g, g).Equal(g.ScalarMult(big.NewInt(3))), qt.IsTrue)
	c.Assert(ecc.Sum[G2]().IsIdentity(), qt.IsTrue)
	c.Assert(ecc.ScalarBaseMult[G2](G2Group{}, scalarB).Equal(h), qt.IsTrue)
}

func TestEncoding(t *testing.T) {
	c := qt.New(t)
	p := G1BaseMult(scalarA)
	q := G2BaseMult(scalarB)

	p2, err := G1Group{}.Unmarshal(p.Marshal())
	c.Assert(err, qt.IsNil)
	c.Assert(p2.Equal(p), qt.IsTrue)
	q2, err := G2Group{}.Unmarshal(q.Marshal())
	c.Assert(err, qt.IsNil)
	c.Assert(q2.Equal(q), qt.IsTrue)

	id, err := G1Group{}.Unmarshal(G1{}.Marshal())
	c.Assert(err, qt.IsNil)
	c.Assert(id.IsIdentity(), qt.IsTrue)

	type pair struct {
		P G1
		Q G2
	}
	data, err := cbor.Marshal(pair{P: p, Q: q})
	c.Assert(err, qt.IsNil)
	var fromCBOR pair
	c.Assert(cbor.Unmarshal(data, &fromCBOR), qt.IsNil)
	c.Assert(fromCBOR.P.Equal(p), qt.IsTrue)
	c.Assert(fromCBOR.Q.Equal(q), qt.IsTrue)

	data, err = json.Marshal(pair{P: p, Q: q})
	c.Assert(err, qt.IsNil)
	var fromJSON pair
	c.Assert(json.Unmarshal(data, &fromJSON), qt.IsNil)
	c.Assert(fromJSON.P.Equal(p), qt.IsTrue)
	c.Assert(fromJSON.Q.Equal(q), qt.IsTrue)

	_, err = G1Group{}.Unmarshal([]byte{1, 2, 3})
	c.Assert(err, qt.IsNotNil)
}

func TestHashToField(t *testing.T) {
	c := qt.New(t)
	dst := []byte("TEST")
	h1, err := HashToField([]byte("hello"), dst)
	c.Assert(err, qt.IsNil)
	h2, err := HashToField([]byte("hello"), dst)
	c.Assert(err, qt.IsNil)
	h3, err := HashToField([]byte("hellO"), dst)
	c.Assert(err, qt.IsNil)
	c.Assert(h1.Cmp(h2), qt.Equals, 0)
	c.Assert(h1.Cmp(h3), qt.Not(qt.Equals), 0)
	c.Assert(h1.Cmp(FieldModulus()) < 0, qt.IsTrue)
}
