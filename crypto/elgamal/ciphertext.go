package elgamal

import (
	"math/big"

	"github.com/vocdoni/beleniosrf/crypto/ecc"
)

// Ciphertext is an ElGamal ciphertext (c1, c2).
type Ciphertext[P ecc.Point[P]] struct {
	C1 P `json:"c1" cbor:"0,keyasint"`
	C2 P `json:"c2" cbor:"1,keyasint"`
}

// Add returns the componentwise sum of both ciphertexts, which encrypts the
// sum of the plaintexts.
func (z Ciphertext[P]) Add(x Ciphertext[P]) Ciphertext[P] {
	return Ciphertext[P]{C1: z.C1.Add(x.C1), C2: z.C2.Add(x.C2)}
}

// Rerandomize returns an encryption of the same plaintext using the
// additional randomness k.
func (z Ciphertext[P]) Rerandomize(e *ElGamal[P], publicKey P, k *big.Int) Ciphertext[P] {
	return z.Add(e.Encrypt(publicKey, e.group.Identity(), k))
}

// Equal checks both components.
func (z Ciphertext[P]) Equal(x Ciphertext[P]) bool {
	return z.C1.Equal(x.C1) && z.C2.Equal(x.C2)
}

// Sum adds up all the ciphertexts. The sum of an empty list is the
// encryption of the identity with zero randomness.
func Sum[P ecc.Point[P]](cts ...Ciphertext[P]) Ciphertext[P] {
	var acc Ciphertext[P]
	for _, ct := range cts {
		acc = acc.Add(ct)
	}
	return acc
}
