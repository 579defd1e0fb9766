package beleniosrf

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
	"github.com/vocdoni/beleniosrf/crypto/rng"
	"github.com/vocdoni/beleniosrf/types"
)

// VerificationKey is the public key of a voter: X1 = g1·x and X2 = g2·x.
type VerificationKey struct {
	X1 bn254.G1 `json:"x1" cbor:"0,keyasint"`
	X2 bn254.G2 `json:"x2" cbor:"1,keyasint"`
}

// SigningKey is the secret key of a voter: Y = z·x.
type SigningKey struct {
	Y bn254.G1 `json:"y" cbor:"0,keyasint"`
}

// UserKeys is the key pair of a voter for one election.
type UserKeys struct {
	Verification *VerificationKey
	Signing      *SigningKey
}

// NewUserKeys generates the key pair of a voter tied to the election
// parameters.
func NewUserKeys(src *rng.Source, pk *ElectionPublicKey) *UserKeys {
	x := src.FieldElement()
	return &UserKeys{
		Verification: &VerificationKey{
			X1: pk.G1.ScalarMult(x),
			X2: pk.G2.ScalarMult(x),
		},
		Signing: &SigningKey{Y: pk.Z.ScalarMult(x)},
	}
}

// Serialize returns the canonical encoding of the verification key bound to
// the election parameters it was generated for. It is the input of the hash
// H of the election.
func (vk *VerificationKey) Serialize(pk *ElectionPublicKey) []byte {
	var buf bytes.Buffer
	buf.Write(pk.G1.Marshal())
	buf.Write(pk.G2.Marshal())
	buf.Write(pk.Z.Marshal())
	for _, u := range pk.USig {
		buf.Write(u.Marshal())
	}
	buf.Write(vk.X1.Marshal())
	buf.Write(vk.X2.Marshal())
	return buf.Bytes()
}

// ID returns the voter identifier, the first types.RegistryKeyLen bytes of
// the Keccak256 hash of the serialized key.
func (vk *VerificationKey) ID(pk *ElectionPublicKey) types.HexBytes {
	return crypto.Keccak256(vk.Serialize(pk))[:types.RegistryKeyLen]
}

// Validate checks X1 and X2 share the same discrete logarithm, that is
// e(X1, g2) == e(g1, X2).
func (vk *VerificationKey) Validate(pk *ElectionPublicKey) error {
	if vk.X1.IsIdentity() || vk.X2.IsIdentity() {
		return fmt.Errorf("verification key has identity components")
	}
	var acc bn254.PairingAccumulator
	acc.Add(vk.X1, pk.G2)
	acc.Add(pk.G1.Neg(), vk.X2)
	if !acc.Eval().IsUnity() {
		return fmt.Errorf("verification key components do not match")
	}
	return nil
}

// Bytes returns the compressed encoding X1 || X2.
func (vk *VerificationKey) Bytes() []byte {
	return append(vk.X1.Marshal(), vk.X2.Marshal()...)
}

// SetBytes decodes the output of Bytes.
func (vk *VerificationKey) SetBytes(buf []byte) error {
	g1Size := len(bn254.G1Generator().Marshal())
	if len(buf) <= g1Size {
		return fmt.Errorf("verification key too short: %d bytes", len(buf))
	}
	if err := vk.X1.Unmarshal(buf[:g1Size]); err != nil {
		return err
	}
	return vk.X2.Unmarshal(buf[g1Size:])
}
