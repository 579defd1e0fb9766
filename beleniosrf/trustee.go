package beleniosrf

import (
	"fmt"

	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
	"github.com/vocdoni/beleniosrf/crypto/elgamal"
)

// Trustee holds the decryption key of an election.
type Trustee struct {
	pk       *ElectionPublicKey
	sk       *ElectionSecretKey
	verifier *Verifier
}

// Results is the outcome of a tally. Counts is indexed by the integer value
// of the messages.
type Results struct {
	Counts  []int `json:"counts"`
	Invalid int   `json:"invalid"`
}

// NewTrustee returns the trustee of the election.
func NewTrustee(keys *ElectionKeys) (*Trustee, error) {
	if keys == nil || keys.Public == nil || keys.Secret == nil || keys.Secret.D == nil {
		return nil, fmt.Errorf("missing election keys")
	}
	v, err := NewVerifier(keys.Public)
	if err != nil {
		return nil, err
	}
	return &Trustee{pk: keys.Public, sk: keys.Secret, verifier: v}, nil
}

// DecryptPlus recovers the message of an encrypted vote by scanning the 2^k
// messages of the election. It returns false if none matches.
func (t *Trustee) DecryptPlus(vote *EncryptedVote) (Message, bool) {
	return t.decrypt(vote.Ciphertext())
}

func (t *Trustee) decrypt(ct elgamal.Ciphertext[bn254.G1]) (Message, bool) {
	fm := t.pk.cipher().Decrypt(t.sk.D.MathBigInt(), ct)
	for m := range MessageSpace(t.pk.K) {
		candidate, err := t.pk.F(m)
		if err != nil {
			return nil, false
		}
		if candidate.Equal(fm) {
			return m, true
		}
	}
	return nil, false
}

// DecryptBallot verifies the ballot cast by the owner of vk and decrypts it.
func (t *Trustee) DecryptBallot(vk *VerificationKey, b *Ballot) (Message, error) {
	if err := t.verifier.CheckPlus(vk, b); err != nil {
		return nil, err
	}
	m, ok := t.DecryptPlus(&b.Vote)
	if !ok {
		return nil, fmt.Errorf("%w: no message matches the decryption", ErrInvalidBallot)
	}
	return m, nil
}

// DecryptPublic verifies the public ballot and decrypts it.
func (t *Trustee) DecryptPublic(pb *PublicBallot) (Message, error) {
	if err := t.verifier.CheckPublic(pb); err != nil {
		return nil, err
	}
	m, ok := t.decrypt(elgamal.Ciphertext[bn254.G1]{C1: pb.C1, C2: pb.C2})
	if !ok {
		return nil, fmt.Errorf("%w: no message matches the decryption", ErrInvalidBallot)
	}
	return m, nil
}

// Tally decrypts every public ballot and counts the votes per message.
// Ballots failing verification or decryption are counted as invalid.
func (t *Trustee) Tally(ballots []*PublicBallot) *Results {
	res := &Results{Counts: make([]int, 1<<t.pk.K)}
	for _, pb := range ballots {
		m, err := t.DecryptPublic(pb)
		if err != nil {
			res.Invalid++
			continue
		}
		res.Counts[m.Int()]++
	}
	return res
}
