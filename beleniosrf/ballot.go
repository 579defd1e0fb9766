package beleniosrf

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
	"github.com/vocdoni/beleniosrf/crypto/elgamal"
	"github.com/vocdoni/beleniosrf/crypto/gs"
	"github.com/vocdoni/beleniosrf/types"
)

// ErrInvalidBallot is returned when a ballot does not satisfy one of the
// verification equations or does not have the shape of the election.
var ErrInvalidBallot = errors.New("invalid ballot")

// EncryptedVote is the ElGamal encryption (C1, C2) of F(m) with randomness
// r, along with C3 = H(vk)·r and T = X1·r binding it to the voter key.
type EncryptedVote struct {
	C1 bn254.G1 `json:"c1" cbor:"0,keyasint"`
	C2 bn254.G1 `json:"c2" cbor:"1,keyasint"`
	C3 bn254.G1 `json:"c3" cbor:"2,keyasint"`
	T  bn254.G1 `json:"t" cbor:"3,keyasint"`
}

// Ciphertext returns the ElGamal ciphertext (C1, C2).
func (v *EncryptedVote) Ciphertext() elgamal.Ciphertext[bn254.G1] {
	return elgamal.Ciphertext[bn254.G1]{C1: v.C1, C2: v.C2}
}

// Proofs holds the Groth-Sahai commitments to r (CR), to the message bits
// (C2m) and to their squares (C2mSquare), and the Form 1 proofs of the
// equations satisfied by the encrypted vote.
type Proofs struct {
	CR        gs.B2   `json:"cr" cbor:"0,keyasint"`
	C2m       []gs.B2 `json:"c2m" cbor:"1,keyasint"`
	C2mSquare []gs.B2 `json:"c2mSquare" cbor:"2,keyasint"`
	// g1·r = C1
	PiR gs.B1 `json:"piR" cbor:"3,keyasint"`
	// X1·r = T
	PiT gs.B1 `json:"piT" cbor:"4,keyasint"`
	// H(vk)·r = C3
	PiV gs.B1 `json:"piV" cbor:"5,keyasint"`
	// Σ USig[i+1]·m_i + P·r = C2 - USig[0]
	PiM gs.B1 `json:"piM" cbor:"6,keyasint"`
	// g1·m_i - g1·m_i² = 0
	PiBits []gs.B1 `json:"piBits" cbor:"7,keyasint"`
}

// Signature is the randomizable signature of the voter over (C1, C2).
type Signature struct {
	Sigma1 bn254.G1 `json:"sigma1" cbor:"0,keyasint"`
	Sigma2 bn254.G1 `json:"sigma2" cbor:"1,keyasint"`
	Sigma3 bn254.G1 `json:"sigma3" cbor:"2,keyasint"`
	Sigma4 bn254.G2 `json:"sigma4" cbor:"3,keyasint"`
	Sigma5 bn254.G1 `json:"sigma5" cbor:"4,keyasint"`
}

// Ballot is a signed encrypted vote with its validity proofs.
type Ballot struct {
	Vote      EncryptedVote `json:"vote" cbor:"0,keyasint"`
	Proofs    Proofs        `json:"proofs" cbor:"1,keyasint"`
	Signature Signature     `json:"signature" cbor:"2,keyasint"`
}

// PublicBallot is the part of a ballot released on the bulletin board.
type PublicBallot struct {
	C1        bn254.G1 `json:"c1" cbor:"0,keyasint"`
	C2        bn254.G1 `json:"c2" cbor:"1,keyasint"`
	CR        gs.B2    `json:"cr" cbor:"2,keyasint"`
	C2m       []gs.B2  `json:"c2m" cbor:"3,keyasint"`
	C2mSquare []gs.B2  `json:"c2mSquare" cbor:"4,keyasint"`
	PiR       gs.B1    `json:"piR" cbor:"5,keyasint"`
	PiM       gs.B1    `json:"piM" cbor:"6,keyasint"`
	PiBits    []gs.B1  `json:"piBits" cbor:"7,keyasint"`
	Sigma1    bn254.G1 `json:"sigma1" cbor:"8,keyasint"`
	Sigma2    bn254.G1 `json:"sigma2" cbor:"9,keyasint"`
	Sigma3    bn254.G1 `json:"sigma3" cbor:"10,keyasint"`
	Sigma4    bn254.G2 `json:"sigma4" cbor:"11,keyasint"`
}

// Bytes returns the canonical encoding of the public ballot.
func (pb *PublicBallot) Bytes() []byte {
	var buf bytes.Buffer
	writeG1 := func(ps ...bn254.G1) {
		for _, p := range ps {
			buf.Write(p.Marshal())
		}
	}
	writeB1 := func(ms ...gs.B1) {
		for _, m := range ms {
			writeG1(m[0], m[1])
		}
	}
	writeB2 := func(ms ...gs.B2) {
		for _, m := range ms {
			buf.Write(m[0].Marshal())
			buf.Write(m[1].Marshal())
		}
	}
	writeG1(pb.C1, pb.C2)
	writeB2(pb.CR)
	writeB2(pb.C2m...)
	writeB2(pb.C2mSquare...)
	writeB1(pb.PiR, pb.PiM)
	writeB1(pb.PiBits...)
	writeG1(pb.Sigma1, pb.Sigma2, pb.Sigma3)
	buf.Write(pb.Sigma4.Marshal())
	return buf.Bytes()
}

// ID returns the identifier of the public ballot on the bulletin board, the
// first types.BoardKeyLen bytes of the Keccak256 hash of its encoding.
func (pb *PublicBallot) ID() types.HexBytes {
	return crypto.Keccak256(pb.Bytes())[:types.BoardKeyLen]
}
