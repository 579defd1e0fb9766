package beleniosrf

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/beleniosrf/crypto/gs"
)

// Randomizer derives fresh ballots from valid ones. It needs no secret: the
// result encrypts the same message, verifies under the same key and cannot
// be linked to the input without the decryption key.
type Randomizer struct {
	pk  *ElectionPublicKey
	src Randomness
}

// NewRandomizer returns a randomizer for the election.
func NewRandomizer(pk *ElectionPublicKey, src Randomness) (*Randomizer, error) {
	if err := pk.Validate(); err != nil {
		return nil, fmt.Errorf("invalid election public key: %w", err)
	}
	return &Randomizer{pk: pk, src: src}, nil
}

// Randomize returns a new ballot for the same message. The input is not
// modified. Randomizing an invalid ballot yields an invalid ballot.
func (rz *Randomizer) Randomize(vk *VerificationKey, b *Ballot) (*Ballot, error) {
	pk := rz.pk
	if vk == nil || b == nil {
		return nil, fmt.Errorf("%w: missing ballot or verification key", ErrInvalidBallot)
	}
	if len(b.Proofs.C2m) != pk.K || len(b.Proofs.C2mSquare) != pk.K || len(b.Proofs.PiBits) != pk.K {
		return nil, fmt.Errorf("%w: expected %d bit commitments and proofs", gs.ErrDimensionMismatch, pk.K)
	}
	hvk, err := pk.H(vk.Serialize(pk))
	if err != nil {
		return nil, err
	}

	rPrime := rz.src.Scalar()
	sPrime := rz.src.FieldElement()
	rand := rz.src.Scalar()
	a := rz.src.Scalars(pk.K)
	bb := rz.src.Scalars(pk.K)
	rs := new(big.Int).Mul(rPrime, sPrime)

	in, sig := &b.Vote, &b.Signature
	out := &Ballot{}
	out.Vote = EncryptedVote{
		C1: in.C1.Add(pk.G1.ScalarMult(rPrime)),
		C2: in.C2.Add(pk.P.ScalarMult(rPrime)),
		C3: in.C3.Add(hvk.ScalarMult(rPrime)),
		T:  in.T.Add(vk.X1.ScalarMult(rPrime)),
	}
	// sigma1 and sigma2 are updated from the original ciphertext
	out.Signature = Signature{
		Sigma1: sig.Sigma1.Add(in.C1.ScalarMult(sPrime)).Add(sig.Sigma3.ScalarMult(rPrime)).Add(pk.G1.ScalarMult(rs)),
		Sigma2: sig.Sigma2.Add(in.C2.ScalarMult(sPrime)).Add(sig.Sigma5.ScalarMult(rPrime)).Add(pk.P.ScalarMult(rs)),
		Sigma3: sig.Sigma3.Add(pk.G1.ScalarMult(sPrime)),
		Sigma4: sig.Sigma4.Add(pk.G2.ScalarMult(sPrime)),
		Sigma5: sig.Sigma5.Add(pk.P.ScalarMult(sPrime)),
	}

	p := &b.Proofs
	out.Proofs = Proofs{
		CR:        p.CR.Add(pk.CRS.V.CommitScalar(rPrime, rand)),
		C2m:       make([]gs.B2, pk.K),
		C2mSquare: make([]gs.B2, pk.K),
		PiR:       p.PiR.Add(gs.Iota1(pk.G1).ScalarMult(rand)),
		PiT:       p.PiT.Add(gs.Iota1(vk.X1).ScalarMult(rand)),
		PiV:       p.PiV.Add(gs.Iota1(hvk).ScalarMult(rand)),
		PiM:       p.PiM.Add(gs.Iota1(pk.P).ScalarMult(rand)),
		PiBits:    make([]gs.B1, pk.K),
	}
	iotaG1, iotaG1Neg := gs.Iota1(pk.G1), gs.Iota1(pk.G1.Neg())
	v1 := pk.CRS.V.K1
	for i := range pk.K {
		out.Proofs.C2m[i] = p.C2m[i].Add(v1.ScalarMult(a[i]))
		out.Proofs.C2mSquare[i] = p.C2mSquare[i].Add(v1.ScalarMult(bb[i]))
		out.Proofs.PiBits[i] = p.PiBits[i].Add(iotaG1.ScalarMult(a[i])).Add(iotaG1Neg.ScalarMult(bb[i]))
		out.Proofs.PiM = out.Proofs.PiM.Add(gs.Iota1(pk.USig[i+1]).ScalarMult(a[i]))
	}
	return out, nil
}
