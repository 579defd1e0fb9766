package beleniosrf

import (
	"encoding/hex"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/beleniosrf/crypto/gs"
	"github.com/vocdoni/beleniosrf/crypto/rng"
)

const testBits = 2

type testElection struct {
	keys       *ElectionKeys
	src        *rng.Source
	verifier   *Verifier
	randomizer *Randomizer
	trustee    *Trustee
}

func newTestElection(c *qt.C) *testElection {
	seed, err := hex.DecodeString("aabbccddeeff00112233445566778899")
	c.Assert(err, qt.IsNil)
	src := rng.NewFromSeed(seed)
	keys, err := NewElection(src, testBits)
	c.Assert(err, qt.IsNil)
	v, err := NewVerifier(keys.Public)
	c.Assert(err, qt.IsNil)
	rz, err := NewRandomizer(keys.Public, src)
	c.Assert(err, qt.IsNil)
	tr, err := NewTrustee(keys)
	c.Assert(err, qt.IsNil)
	return &testElection{keys: keys, src: src, verifier: v, randomizer: rz, trustee: tr}
}

func (te *testElection) voter(c *qt.C) (*UserKeys, *Encryptor) {
	user := NewUserKeys(te.src, te.keys.Public)
	enc, err := NewEncryptor(te.keys.Public, user, te.src)
	c.Assert(err, qt.IsNil)
	return user, enc
}

func TestMessage(t *testing.T) {
	c := qt.New(t)
	m := IntToMessage(5, 4)
	c.Assert(m, qt.DeepEquals, Message{0, 1, 0, 1})
	c.Assert(m.Int(), qt.Equals, uint64(5))
	c.Assert(m.String(), qt.Equals, "0101")
	c.Assert(m.Validate(4), qt.IsNil)
	c.Assert(m.Validate(3), qt.ErrorIs, ErrInvalidMessage)
	c.Assert(Message{0, 2}.Validate(2), qt.ErrorIs, ErrInvalidMessage)

	var n uint64
	for m := range MessageSpace(3) {
		c.Assert(m.Int(), qt.Equals, n)
		n++
	}
	c.Assert(n, qt.Equals, uint64(8))
}

func TestNewElection(t *testing.T) {
	c := qt.New(t)
	src := rng.NewFromSeed([]byte("election"))
	_, err := NewElection(src, 0)
	c.Assert(err, qt.ErrorIs, ErrInvalidMessage)
	_, err = NewElection(src, MaxMessageBits+1)
	c.Assert(err, qt.ErrorIs, ErrInvalidMessage)

	keys, err := NewElection(rng.NewFromSeed([]byte("election")), 3)
	c.Assert(err, qt.IsNil)
	c.Assert(keys.Public.Validate(), qt.IsNil)
	c.Assert(keys.Public.USig, qt.HasLen, 4)
	c.Assert(keys.Public.P.Equal(keys.Public.G1.ScalarMult(keys.Secret.D.MathBigInt())), qt.IsTrue)

	// same seed, same election
	again, err := NewElection(rng.NewFromSeed([]byte("election")), 3)
	c.Assert(err, qt.IsNil)
	c.Assert(again.Public.P.Equal(keys.Public.P), qt.IsTrue)
	c.Assert(again.Public.CRS.V.K2.Equal(keys.Public.CRS.V.K2), qt.IsTrue)

	keys.Public.USig = keys.Public.USig[1:]
	c.Assert(keys.Public.Validate(), qt.IsNotNil)
}

func TestUserKeys(t *testing.T) {
	c := qt.New(t)
	te := newTestElection(c)
	pk := te.keys.Public
	user, _ := te.voter(c)
	c.Assert(user.Verification.Validate(pk), qt.IsNil)
	c.Assert(user.Verification.ID(pk), qt.HasLen, 20)

	other, _ := te.voter(c)
	c.Assert(other.Verification.ID(pk), qt.Not(qt.DeepEquals), user.Verification.ID(pk))

	mixed := &VerificationKey{X1: user.Verification.X1, X2: other.Verification.X2}
	c.Assert(mixed.Validate(pk), qt.IsNotNil)
}

func TestBallotLifecycle(t *testing.T) {
	c := qt.New(t)
	te := newTestElection(c)
	user, enc := te.voter(c)

	for m := range MessageSpace(testBits) {
		b, err := enc.Ballot(m)
		c.Assert(err, qt.IsNil)
		c.Assert(te.verifier.CheckPlus(user.Verification, b), qt.IsNil)

		got, ok := te.trustee.DecryptPlus(&b.Vote)
		c.Assert(ok, qt.IsTrue)
		c.Assert(got, qt.DeepEquals, m)

		got, err = te.trustee.DecryptBallot(user.Verification, b)
		c.Assert(err, qt.IsNil)
		c.Assert(got, qt.DeepEquals, m)
	}

	_, err := enc.Ballot(Message{1})
	c.Assert(err, qt.ErrorIs, ErrInvalidMessage)
	_, err = enc.Ballot(Message{1, 3})
	c.Assert(err, qt.ErrorIs, ErrInvalidMessage)
}

func TestTamperedBallots(t *testing.T) {
	c := qt.New(t)
	te := newTestElection(c)
	pk := te.keys.Public
	user, enc := te.voter(c)
	other, _ := te.voter(c)

	b, err := enc.Ballot(Message{1, 0})
	c.Assert(err, qt.IsNil)
	c.Assert(te.verifier.VerifyPlus(user.Verification, b), qt.IsTrue)

	// the ballot is bound to the key of its voter
	c.Assert(te.verifier.VerifyPlus(other.Verification, b), qt.IsFalse)

	tampered := *b
	tampered.Vote.C2 = b.Vote.C2.Add(pk.USig[2])
	err = te.verifier.CheckPlus(user.Verification, &tampered)
	c.Assert(err, qt.ErrorIs, ErrInvalidBallot)

	tampered = *b
	tampered.Signature.Sigma4 = b.Signature.Sigma4.Add(pk.G2)
	c.Assert(te.verifier.VerifyPlus(user.Verification, &tampered), qt.IsFalse)

	tampered = *b
	tampered.Vote.C3 = b.Vote.C3.Add(pk.G1)
	c.Assert(te.verifier.VerifyPlus(user.Verification, &tampered), qt.IsFalse)

	tampered = *b
	tampered.Proofs.PiBits = append([]gs.B1{}, b.Proofs.PiBits...)
	tampered.Proofs.PiBits[0] = b.Proofs.PiBits[1]
	c.Assert(te.verifier.VerifyPlus(user.Verification, &tampered), qt.IsFalse)

	// wrong shape is an invalid ballot, not a panic
	tampered = *b
	tampered.Proofs.C2m = b.Proofs.C2m[:1]
	err = te.verifier.CheckPlus(user.Verification, &tampered)
	c.Assert(err, qt.ErrorIs, ErrInvalidBallot)

	_, err = te.trustee.DecryptBallot(other.Verification, b)
	c.Assert(err, qt.ErrorIs, ErrInvalidBallot)
}

func TestNonBitMessageRejected(t *testing.T) {
	c := qt.New(t)
	te := newTestElection(c)
	pk := te.keys.Public
	user, enc := te.voter(c)

	// shifting the ciphertext of 00 to u0 + 2·u1 breaks the message proof
	// and leaves nothing to decrypt
	b, err := enc.Ballot(Message{0, 0})
	c.Assert(err, qt.IsNil)
	b.Vote.C2 = b.Vote.C2.Add(pk.USig[1]).Add(pk.USig[1])
	c.Assert(te.verifier.VerifyPlus(user.Verification, b), qt.IsFalse)
	_, ok := te.trustee.DecryptPlus(&b.Vote)
	c.Assert(ok, qt.IsFalse)
}

func TestRandomize(t *testing.T) {
	c := qt.New(t)
	te := newTestElection(c)
	user, enc := te.voter(c)

	m := Message{0, 1}
	b, err := enc.Ballot(m)
	c.Assert(err, qt.IsNil)
	orig := *b

	current := b
	for range 3 {
		next, err := te.randomizer.Randomize(user.Verification, current)
		c.Assert(err, qt.IsNil)
		c.Assert(te.verifier.CheckPlus(user.Verification, next), qt.IsNil)
		c.Assert(next.Vote.C1.Equal(current.Vote.C1), qt.IsFalse)
		c.Assert(next.Vote.C2.Equal(current.Vote.C2), qt.IsFalse)
		c.Assert(next.Signature.Sigma1.Equal(current.Signature.Sigma1), qt.IsFalse)
		c.Assert(next.Proofs.CR.Equal(current.Proofs.CR), qt.IsFalse)
		for i := range next.Proofs.C2m {
			c.Assert(next.Proofs.C2m[i].Equal(current.Proofs.C2m[i]), qt.IsFalse)
			c.Assert(next.Proofs.PiBits[i].Equal(current.Proofs.PiBits[i]), qt.IsFalse)
		}
		got, ok := te.trustee.DecryptPlus(&next.Vote)
		c.Assert(ok, qt.IsTrue)
		c.Assert(got, qt.DeepEquals, m)
		current = next
	}

	// the input ballot is left untouched
	c.Assert(b.Vote.C1.Equal(orig.Vote.C1), qt.IsTrue)
	c.Assert(te.verifier.VerifyPlus(user.Verification, b), qt.IsTrue)

	b.Proofs.PiBits = b.Proofs.PiBits[:1]
	_, err = te.randomizer.Randomize(user.Verification, b)
	c.Assert(err, qt.ErrorIs, gs.ErrDimensionMismatch)
}

func TestPublishAndTally(t *testing.T) {
	c := qt.New(t)
	te := newTestElection(c)

	votes := []uint64{0, 3, 3, 1, 3}
	var board []*PublicBallot
	for _, v := range votes {
		user, enc := te.voter(c)
		b, err := enc.Ballot(IntToMessage(v, testBits))
		c.Assert(err, qt.IsNil)
		rb, err := te.randomizer.Randomize(user.Verification, b)
		c.Assert(err, qt.IsNil)

		pb := Publish(rb)
		c.Assert(te.verifier.CheckPublic(pb), qt.IsNil)
		c.Assert(te.verifier.CheckPublicFor(user.Verification, pb), qt.IsNil)
		c.Assert(pb.ID(), qt.HasLen, 20)
		c.Assert(Publish(b).ID(), qt.Not(qt.DeepEquals), pb.ID())

		other := NewUserKeys(te.src, te.keys.Public)
		c.Assert(te.verifier.VerifyPublicFor(other.Verification, pb), qt.IsFalse)
		board = append(board, pb)
	}

	broken := *board[0]
	broken.C2 = broken.C2.Add(te.keys.Public.G1)
	c.Assert(te.verifier.VerifyPublic(&broken), qt.IsFalse)
	board = append(board, &broken)

	res := te.trustee.Tally(board)
	c.Assert(res.Counts, qt.DeepEquals, []int{1, 1, 0, 3})
	c.Assert(res.Invalid, qt.Equals, 1)
}

func TestPublicCheckNames(t *testing.T) {
	c := qt.New(t)
	te := newTestElection(c)
	c.Assert(te.verifier.PublicCheckNames(), qt.DeepEquals, []string{
		"e(sigma1, g2) = e(c1, sigma4)", "e(sigma3, g2) = e(g1, sigma4)", "pi_r", "pi_M", "pi_m[0]", "pi_m[1]",
	})

	// sigma2 is outside the public check
	user, enc := te.voter(c)
	b, err := enc.Ballot(IntToMessage(2, testBits))
	c.Assert(err, qt.IsNil)
	pb := Publish(b)
	pb.Sigma2 = pb.Sigma2.Add(te.keys.Public.G1)
	c.Assert(te.verifier.VerifyPublic(pb), qt.IsTrue)
	c.Assert(te.verifier.CheckPublicFor(user.Verification, pb), qt.ErrorMatches, ".*e\\(sigma2.*")
}
