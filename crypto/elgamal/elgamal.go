// Package elgamal implements the ElGamal cryptosystem over any group
// providing the ecc.Point capability. The same code serves both source
// groups of the pairing.
package elgamal

import (
	"fmt"
	"iter"
	"math"
	"math/big"

	"github.com/vocdoni/beleniosrf/crypto/ecc"
)

// KeySource provides the secret exponents of the key pairs.
type KeySource interface {
	// FieldElement returns a uniform integer modulo the curve base field.
	FieldElement() *big.Int
}

// ElGamal holds the group where the messages and ciphertexts live.
type ElGamal[P ecc.Point[P]] struct {
	group ecc.Group[P]
}

// New returns an ElGamal instance over the group provided.
func New[P ecc.Point[P]](group ecc.Group[P]) *ElGamal[P] {
	return &ElGamal[P]{group: group}
}

// GenerateKey generates a new public/private ElGamal encryption key pair.
// The private key d is drawn modulo the base field modulus and the public key
// is g·d.
func (e *ElGamal[P]) GenerateKey(src KeySource) (publicKey P, privateKey *big.Int) {
	d := src.FieldElement()
	if d.Sign() == 0 {
		d = big.NewInt(1) // avoid zero private keys
	}
	return e.group.Generator().ScalarMult(d), d
}

// Encrypt encrypts the group element msg under publicKey with randomness k:
// c1 = g·k, c2 = publicKey·k + msg.
func (e *ElGamal[P]) Encrypt(publicKey, msg P, k *big.Int) Ciphertext[P] {
	return Ciphertext[P]{
		C1: e.group.Generator().ScalarMult(k),
		C2: publicKey.ScalarMult(k).Add(msg),
	}
}

// EncryptScalar encrypts the scalar m encoded in the exponent, as g·m.
func (e *ElGamal[P]) EncryptScalar(publicKey P, m, k *big.Int) Ciphertext[P] {
	return e.Encrypt(publicKey, e.group.Generator().ScalarMult(m), k)
}

// Decrypt returns c2 - c1·privateKey. The result is the encrypted group
// element only if privateKey matches the public key used to encrypt.
func (e *ElGamal[P]) Decrypt(privateKey *big.Int, ct Ciphertext[P]) P {
	return ct.C2.Sub(ct.C1.ScalarMult(privateKey))
}

// DecryptSum adds up all the ciphertexts, decrypts the aggregate to g·Σm and
// looks for the first candidate s such that g·s matches it. The candidates
// sequence bounds the search: if it is exhausted without a match, the second
// return value is false.
func (e *ElGamal[P]) DecryptSum(privateKey *big.Int, cts []Ciphertext[P], candidates iter.Seq[*big.Int]) (*big.Int, bool) {
	gm := e.Decrypt(privateKey, Sum(cts...))
	g := e.group.Generator()
	for s := range candidates {
		if g.ScalarMult(s).Equal(gm) {
			return s, true
		}
	}
	return nil, false
}

// DecryptSumRange is like DecryptSum for sums known to lie in
// [0, maxMessage], solving the discrete logarithm with baby-step giant-step.
func (e *ElGamal[P]) DecryptSumRange(privateKey *big.Int, cts []Ciphertext[P], maxMessage uint64) (*big.Int, error) {
	gm := e.Decrypt(privateKey, Sum(cts...))
	return e.BabyStepGiantStep(gm, maxMessage)
}

// Candidates returns the sequence 0, 1, ..., max.
func Candidates(max uint64) iter.Seq[*big.Int] {
	return func(yield func(*big.Int) bool) {
		for i := uint64(0); i <= max; i++ {
			if !yield(new(big.Int).SetUint64(i)) {
				return
			}
		}
	}
}

// BabyStepGiantStep solves M = x·g for x in [0, maxMessage].
func (e *ElGamal[P]) BabyStepGiantStep(M P, maxMessage uint64) (*big.Int, error) {
	mSqrt := uint64(math.Sqrt(float64(maxMessage))) + 1
	g := e.group.Generator()

	// baby steps: j·g for j in [0, mSqrt)
	babySteps := make(map[string]uint64, mSqrt)
	babyStep := e.group.Identity()
	for j := uint64(0); j < mSqrt; j++ {
		babySteps[babyStep.String()] = j
		babyStep = babyStep.Add(g)
	}

	// giant steps: M - i·mSqrt·g
	c := g.ScalarMult(new(big.Int).SetUint64(mSqrt)).Neg()
	giantStep := M
	for i := uint64(0); i <= mSqrt; i++ {
		if j, found := babySteps[giantStep.String()]; found {
			x := i*mSqrt + j
			if x > maxMessage {
				break
			}
			return new(big.Int).SetUint64(x), nil
		}
		giantStep = giantStep.Add(c)
	}
	return nil, fmt.Errorf("discrete logarithm not found in [0, %d]", maxMessage)
}

// CheckK checks if a given k was used to produce the ciphertext, that is
// c1 == g·k. It does not require decrypting.
func (e *ElGamal[P]) CheckK(ct Ciphertext[P], k *big.Int) bool {
	return e.group.Generator().ScalarMult(k).Equal(ct.C1)
}
