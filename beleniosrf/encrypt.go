package beleniosrf

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
	"github.com/vocdoni/beleniosrf/crypto/gs"
)

// Randomness is the source of the secret scalars drawn while encrypting,
// signing and randomizing ballots. *rng.Source implements it.
type Randomness interface {
	Scalar() *big.Int
	Scalars(k int) []*big.Int
	FieldElement() *big.Int
}

// Encryptor builds the ballots of one voter.
type Encryptor struct {
	pk   *ElectionPublicKey
	user *UserKeys
	src  Randomness
}

// NewEncryptor returns an encryptor for the voter keys provided.
func NewEncryptor(pk *ElectionPublicKey, user *UserKeys, src Randomness) (*Encryptor, error) {
	if err := pk.Validate(); err != nil {
		return nil, fmt.Errorf("invalid election public key: %w", err)
	}
	if user == nil || user.Verification == nil || user.Signing == nil {
		return nil, fmt.Errorf("missing user keys")
	}
	return &Encryptor{pk: pk, user: user, src: src}, nil
}

// EncryptPlus encrypts m and proves, without revealing it, that the
// ciphertext encrypts F(m) for a vector m of bits and that its randomness is
// bound to the verification key of the voter.
func (e *Encryptor) EncryptPlus(m Message) (*EncryptedVote, *Proofs, error) {
	pk, vk := e.pk, e.user.Verification
	if err := m.Validate(pk.K); err != nil {
		return nil, nil, err
	}
	fm, err := pk.F(m)
	if err != nil {
		return nil, nil, err
	}
	hvk, err := pk.H(vk.Serialize(pk))
	if err != nil {
		return nil, nil, err
	}

	r := e.src.Scalar()
	ct := pk.cipher().Encrypt(pk.P, fm, r)
	vote := &EncryptedVote{
		C1: ct.C1,
		C2: ct.C2,
		C3: hvk.ScalarMult(r),
		T:  vk.X1.ScalarMult(r),
	}

	c2mRand := e.src.Scalars(pk.K)
	c2mSquareRand := e.src.Scalars(pk.K)
	crRand := e.src.Scalar()

	bits := make([]*big.Int, pk.K)
	squares := make([]*big.Int, pk.K)
	for i, bit := range m {
		bits[i] = big.NewInt(int64(bit))
		squares[i] = new(big.Int).Mul(bits[i], bits[i])
	}
	c2m, err := pk.CRS.CommitScalarsInG2(bits, c2mRand)
	if err != nil {
		return nil, nil, err
	}
	c2mSquare, err := pk.CRS.CommitScalarsInG2(squares, c2mSquareRand)
	if err != nil {
		return nil, nil, err
	}

	proofs := &Proofs{
		CR:        pk.CRS.V.CommitScalar(r, crRand),
		C2m:       c2m,
		C2mSquare: c2mSquare,
		PiBits:    make([]gs.B1, pk.K),
	}
	if proofs.PiR, err = gs.ProveLinear1([]bn254.G1{pk.G1}, []*big.Int{crRand}); err != nil {
		return nil, nil, err
	}
	if proofs.PiT, err = gs.ProveLinear1([]bn254.G1{vk.X1}, []*big.Int{crRand}); err != nil {
		return nil, nil, err
	}
	if proofs.PiV, err = gs.ProveLinear1([]bn254.G1{hvk}, []*big.Int{crRand}); err != nil {
		return nil, nil, err
	}
	if proofs.PiM, err = gs.ProveLinear1(
		append(append([]bn254.G1{}, pk.USig[1:]...), pk.P),
		append(append([]*big.Int{}, c2mRand...), crRand),
	); err != nil {
		return nil, nil, err
	}
	g1, g1Neg := pk.G1, pk.G1.Neg()
	for i := range proofs.PiBits {
		if proofs.PiBits[i], err = gs.ProveLinear1(
			[]bn254.G1{g1, g1Neg},
			[]*big.Int{c2mRand[i], c2mSquareRand[i]},
		); err != nil {
			return nil, nil, err
		}
	}
	return vote, proofs, nil
}

// Sign produces the randomizable signature of the voter over (C1, C2).
func (e *Encryptor) Sign(vote *EncryptedVote) *Signature {
	pk := e.pk
	s := e.src.FieldElement()
	return &Signature{
		Sigma1: vote.C1.ScalarMult(s),
		Sigma2: vote.C2.ScalarMult(s).Add(e.user.Signing.Y),
		Sigma3: pk.G1.ScalarMult(s),
		Sigma4: pk.G2.ScalarMult(s),
		Sigma5: pk.P.ScalarMult(s),
	}
}

// Ballot encrypts and signs m.
func (e *Encryptor) Ballot(m Message) (*Ballot, error) {
	vote, proofs, err := e.EncryptPlus(m)
	if err != nil {
		return nil, err
	}
	return &Ballot{Vote: *vote, Proofs: *proofs, Signature: *e.Sign(vote)}, nil
}
