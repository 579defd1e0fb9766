package ecc

import (
	"math/big"
)

// Point defines the operations shared by the elements of the source groups
// of a pairing. P is the concrete element type, so generic code written
// against Point[P] works on values of that type without type assertions.
//
// Implementations are value types: every operation returns a new element and
// never modifies the receiver or its arguments. The zero value of P must be
// the identity element.
type Point[P any] interface {
	// Add returns the group sum of the receiver and a.
	Add(a P) P

	// Sub returns the receiver minus a.
	Sub(a P) P

	// Neg returns the inverse of the receiver.
	Neg() P

	// ScalarMult multiplies the receiver by the scalar. The scalar is
	// reduced modulo the group order, so negative values are allowed.
	ScalarMult(scalar *big.Int) P

	// Equal checks if both elements are the same group element.
	Equal(a P) bool

	// IsIdentity returns true for the identity element (point at infinity).
	IsIdentity() bool

	// Marshal serializes the element into its compressed byte encoding.
	Marshal() []byte

	// String returns the hexadecimal string of the compressed encoding.
	String() string
}

// Group describes a source group: its order, a fixed generator and how to
// decode its elements.
type Group[P Point[P]] interface {
	// Order returns the number of elements of the group.
	Order() *big.Int

	// Generator returns the fixed generator of the group.
	Generator() P

	// Identity returns the identity element.
	Identity() P

	// Unmarshal decodes an element, checking it belongs to the group.
	Unmarshal(buf []byte) (P, error)
}

// ScalarBaseMult returns the generator of the group multiplied by the scalar.
func ScalarBaseMult[P Point[P]](g Group[P], scalar *big.Int) P {
	return g.Generator().ScalarMult(scalar)
}

// Sum returns the group sum of all the elements provided, or the identity if
// the list is empty.
func Sum[P Point[P]](points ...P) P {
	var acc P
	for _, p := range points {
		acc = acc.Add(p)
	}
	return acc
}
