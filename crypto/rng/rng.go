// Package rng provides the seeded randomness source used by every
// participant of an election. The output is a deterministic function of the
// seed: two sources created with the same seed produce the same sequence of
// scalars and points when consumed in the same order.
package rng

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
	"golang.org/x/crypto/sha3"
)

// SeedSize is the size in bytes of the seeds generated by New.
const SeedSize = 32

var domain = []byte("beleniosrf/rng/v1")

// Source is a deterministic random generator backed by a SHAKE256 stream
// absorbing the seed. It is safe for concurrent use, but the order of the
// draws is only reproducible if the callers serialize them.
type Source struct {
	mu   sync.Mutex
	xof  sha3.ShakeHash
	seed []byte
}

// NewFromSeed creates a source whose output is fully determined by seed.
func NewFromSeed(seed []byte) *Source {
	xof := sha3.NewShake256()
	// the writes to a fresh shake hash never fail
	_, _ = xof.Write(domain)
	_, _ = xof.Write(seed)
	return &Source{xof: xof, seed: append([]byte(nil), seed...)}
}

// New creates a source seeded from the operating system entropy.
func New() (*Source, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to read random seed: %w", err)
	}
	return NewFromSeed(seed), nil
}

// Seed returns a copy of the seed of the source.
func (s *Source) Seed() []byte {
	return append([]byte(nil), s.seed...)
}

// Read fills p with the next bytes of the stream. It never fails.
func (s *Source) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.xof.Read(p)
}

var _ io.Reader = (*Source)(nil)

// IntN returns a uniform integer in [0, max) using rejection sampling over
// the minimum number of bits. It panics if max is not positive.
func (s *Source) IntN(max *big.Int) *big.Int {
	if max.Sign() <= 0 {
		panic("rng: non positive bound")
	}
	bitLen := max.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	mask := byte(0xff >> (8*len(buf) - bitLen))

	s.mu.Lock()
	defer s.mu.Unlock()
	n := new(big.Int)
	for {
		_, _ = s.xof.Read(buf)
		buf[0] &= mask
		n.SetBytes(buf)
		if n.Cmp(max) < 0 {
			return n
		}
	}
}

// Scalar returns a uniform scalar modulo the group order n.
func (s *Source) Scalar() *big.Int {
	return s.IntN(bn254.Order())
}

// Scalars returns k independent uniform scalars modulo n.
func (s *Source) Scalars(k int) []*big.Int {
	out := make([]*big.Int, k)
	for i := range out {
		out[i] = s.Scalar()
	}
	return out
}

// FieldElement returns a uniform integer modulo the base field modulus p.
func (s *Source) FieldElement() *big.Int {
	return s.IntN(bn254.FieldModulus())
}

// G1 returns g1 multiplied by a fresh uniform scalar.
func (s *Source) G1() bn254.G1 {
	return bn254.G1BaseMult(s.Scalar())
}

// G2 returns g2 multiplied by a fresh uniform scalar.
func (s *Source) G2() bn254.G2 {
	return bn254.G2BaseMult(s.Scalar())
}
