package beleniosrf

import (
	"fmt"

	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
	"github.com/vocdoni/beleniosrf/crypto/elgamal"
	"github.com/vocdoni/beleniosrf/crypto/gs"
	"github.com/vocdoni/beleniosrf/crypto/rng"
	"github.com/vocdoni/beleniosrf/crypto/waters"
	"github.com/vocdoni/beleniosrf/types"
)

// hashDST is the domain separation tag of the hash of verification keys.
var hashDST = []byte("BELENIOSRF-V01-CS02-with-BN254FP_XMD:SHA-256_H")

// ElectionPublicKey holds every public parameter of an election: the group
// generators, the Waters bases USig, the hash bases H1 and H2, the ElGamal
// public key P and the Groth-Sahai CRS. It is the context passed to every
// participant.
type ElectionPublicKey struct {
	K    int        `json:"k" cbor:"0,keyasint"`
	G1   bn254.G1   `json:"g1" cbor:"1,keyasint"`
	G2   bn254.G2   `json:"g2" cbor:"2,keyasint"`
	Z    bn254.G1   `json:"z" cbor:"3,keyasint"`
	USig []bn254.G1 `json:"usig" cbor:"4,keyasint"`
	P    bn254.G1   `json:"p" cbor:"5,keyasint"`
	CRS  *gs.CRS    `json:"crs" cbor:"6,keyasint"`
	H1   bn254.G1   `json:"h1" cbor:"7,keyasint"`
	H2   bn254.G1   `json:"h2" cbor:"8,keyasint"`
}

// ElectionSecretKey is the ElGamal decryption exponent of the trustee.
type ElectionSecretKey struct {
	D *types.BigInt `json:"d" cbor:"0,keyasint"`
}

// ElectionKeys is the key pair generated by the election authority.
type ElectionKeys struct {
	Public *ElectionPublicKey
	Secret *ElectionSecretKey
}

// NewElection generates the keys of an election whose messages have k bits.
func NewElection(src *rng.Source, k int) (*ElectionKeys, error) {
	if k < 1 || k > MaxMessageBits {
		return nil, fmt.Errorf("%w: k must be in [1, %d], got %d", ErrInvalidMessage, MaxMessageBits, k)
	}
	crs := gs.Setup(src)
	z := src.G1()
	f := waters.New(src, k)
	p, d := elgamal.New[bn254.G1](bn254.G1Group{}).GenerateKey(src)
	h1, h2 := src.G1(), src.G1()
	return &ElectionKeys{
		Public: &ElectionPublicKey{
			K:    k,
			G1:   bn254.G1Generator(),
			G2:   bn254.G2Generator(),
			Z:    z,
			USig: f.Bases,
			P:    p,
			CRS:  crs,
			H1:   h1,
			H2:   h2,
		},
		Secret: &ElectionSecretKey{D: (*types.BigInt)(d)},
	}, nil
}

// Validate checks the shape of the public key, which may come from an
// untrusted encoding.
func (pk *ElectionPublicKey) Validate() error {
	if pk.K < 1 || pk.K > MaxMessageBits {
		return fmt.Errorf("invalid number of bits %d", pk.K)
	}
	if len(pk.USig) != pk.K+1 {
		return fmt.Errorf("expected %d aggregation bases, got %d", pk.K+1, len(pk.USig))
	}
	if pk.CRS == nil {
		return fmt.Errorf("missing common reference string")
	}
	if !pk.G1.Equal(bn254.G1Generator()) || !pk.G2.Equal(bn254.G2Generator()) {
		return fmt.Errorf("unexpected group generators")
	}
	return nil
}

// F is the Waters aggregation function of the election.
func (pk *ElectionPublicKey) F(m Message) (bn254.G1, error) {
	return (&waters.Function{Bases: pk.USig}).Eval(m)
}

// H hashes data into G1 as H1·Hash'(data) + H2, where Hash' maps into the
// integers modulo the base field modulus.
func (pk *ElectionPublicKey) H(data []byte) (bn254.G1, error) {
	e, err := bn254.HashToField(data, hashDST)
	if err != nil {
		return bn254.G1{}, fmt.Errorf("hash to field: %w", err)
	}
	return pk.H1.ScalarMult(e).Add(pk.H2), nil
}

// cipher returns the ElGamal cipher over G1 used for the votes.
func (pk *ElectionPublicKey) cipher() *elgamal.ElGamal[bn254.G1] {
	return elgamal.New[bn254.G1](bn254.G1Group{})
}
