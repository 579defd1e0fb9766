package beleniosrf

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/vocdoni/beleniosrf/crypto/ecc/bn254"
	"github.com/vocdoni/beleniosrf/crypto/gs"
	"golang.org/x/sync/errgroup"
)

// Verifier checks ballots against the parameters of an election. The
// independent equations of a ballot are evaluated concurrently.
type Verifier struct {
	pk      *ElectionPublicKey
	workers int
}

// NewVerifier returns a verifier for the election.
func NewVerifier(pk *ElectionPublicKey) (*Verifier, error) {
	if err := pk.Validate(); err != nil {
		return nil, fmt.Errorf("invalid election public key: %w", err)
	}
	return &Verifier{pk: pk, workers: runtime.NumCPU()}, nil
}

// check is a named equation of a ballot.
type check struct {
	name string
	fn   func() (bool, error)
}

func (v *Verifier) run(checks []check) error {
	g := new(errgroup.Group)
	g.SetLimit(v.workers)
	for _, c := range checks {
		g.Go(func() error {
			ok, err := c.fn()
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidBallot, c.name, err)
			}
			if !ok {
				return fmt.Errorf("%w: %s does not hold", ErrInvalidBallot, c.name)
			}
			return nil
		})
	}
	return g.Wait()
}

// pairingsEqual returns a check of Π e(lhs) == Π e(rhs).
func pairingsEqual(lhs1 []bn254.G1, lhs2 []bn254.G2, rhs1 []bn254.G1, rhs2 []bn254.G2) func() (bool, error) {
	return func() (bool, error) {
		ps := slices.Clone(lhs1)
		for _, p := range rhs1 {
			ps = append(ps, p.Neg())
		}
		qs := append(slices.Clone(lhs2), rhs2...)
		prod, err := bn254.PairProduct(ps, qs)
		if err != nil {
			return false, err
		}
		return prod.IsUnity(), nil
	}
}

func (v *Verifier) linear1(a []bn254.G1, d []gs.B2, t1 bn254.G1, theta gs.B1) func() (bool, error) {
	return func() (bool, error) {
		return v.pk.CRS.VerifyLinear1(a, d, t1, theta)
	}
}

// checkShape verifies the number of bit commitments and proofs matches the
// election.
func (v *Verifier) checkShape(c2m, c2mSquare []gs.B2, piBits []gs.B1) error {
	k := v.pk.K
	if len(c2m) != k || len(c2mSquare) != k || len(piBits) != k {
		return fmt.Errorf("%w: expected %d bit commitments and proofs, got %d, %d and %d",
			ErrInvalidBallot, k, len(c2m), len(c2mSquare), len(piBits))
	}
	return nil
}

const (
	checkSigma1 = "e(sigma1, g2) = e(c1, sigma4)"
	checkSigma2 = "e(sigma2, g2) = e(z, X2)·e(c2, sigma4)"
	checkSigma3 = "e(sigma3, g2) = e(g1, sigma4)"
	checkPiR    = "pi_r"
	checkPiM    = "pi_M"
)

func piBitCheck(i int) string {
	return fmt.Sprintf("pi_m[%d]", i)
}

// messageChecks returns the checks on C1 and C2 shared by full and public
// ballots: pi_r, pi_M and every pi_m[i].
func (v *Verifier) messageChecks(c1, c2 bn254.G1, cr gs.B2, c2m, c2mSquare []gs.B2, piR, piM gs.B1, piBits []gs.B1) []check {
	pk := v.pk
	checks := []check{
		{checkPiR, v.linear1([]bn254.G1{pk.G1}, []gs.B2{cr}, c1, piR)},
		{checkPiM, v.linear1(
			append(append([]bn254.G1{}, pk.USig[1:]...), pk.P),
			append(append([]gs.B2{}, c2m...), cr),
			c2.Sub(pk.USig[0]),
			piM,
		)},
	}
	g1, g1Neg := pk.G1, pk.G1.Neg()
	for i := range piBits {
		checks = append(checks, check{
			name: piBitCheck(i),
			fn:   v.linear1([]bn254.G1{g1, g1Neg}, []gs.B2{c2m[i], c2mSquare[i]}, bn254.G1{}, piBits[i]),
		})
	}
	return checks
}

func (v *Verifier) sigma1Check(c1 bn254.G1, sig1 bn254.G1, sig4 bn254.G2) check {
	return check{checkSigma1, pairingsEqual(
		[]bn254.G1{sig1}, []bn254.G2{v.pk.G2},
		[]bn254.G1{c1}, []bn254.G2{sig4},
	)}
}

func (v *Verifier) sigma2Check(vk *VerificationKey, c2 bn254.G1, sig2 bn254.G1, sig4 bn254.G2) check {
	return check{checkSigma2, pairingsEqual(
		[]bn254.G1{sig2}, []bn254.G2{v.pk.G2},
		[]bn254.G1{v.pk.Z, c2}, []bn254.G2{vk.X2, sig4},
	)}
}

func (v *Verifier) sigma3Check(sig3 bn254.G1, sig4 bn254.G2) check {
	return check{checkSigma3, pairingsEqual(
		[]bn254.G1{sig3}, []bn254.G2{v.pk.G2},
		[]bn254.G1{v.pk.G1}, []bn254.G2{sig4},
	)}
}

// CheckPlus verifies every equation of the ballot cast by the owner of vk.
// The error wraps ErrInvalidBallot and names the failing equation.
func (v *Verifier) CheckPlus(vk *VerificationKey, b *Ballot) error {
	if vk == nil || b == nil {
		return fmt.Errorf("%w: missing ballot or verification key", ErrInvalidBallot)
	}
	pk := v.pk
	p, s := &b.Proofs, &b.Signature
	if err := v.checkShape(p.C2m, p.C2mSquare, p.PiBits); err != nil {
		return err
	}
	hvk, err := pk.H(vk.Serialize(pk))
	if err != nil {
		return err
	}
	checks := []check{
		v.sigma1Check(b.Vote.C1, s.Sigma1, s.Sigma4),
		v.sigma2Check(vk, b.Vote.C2, s.Sigma2, s.Sigma4),
		v.sigma3Check(s.Sigma3, s.Sigma4),
		{"e(sigma5, g2) = e(P, sigma4)", pairingsEqual(
			[]bn254.G1{s.Sigma5}, []bn254.G2{pk.G2},
			[]bn254.G1{pk.P}, []bn254.G2{s.Sigma4},
		)},
		{"pi_T", v.linear1([]bn254.G1{vk.X1}, []gs.B2{p.CR}, b.Vote.T, p.PiT)},
		{"pi_V", v.linear1([]bn254.G1{hvk}, []gs.B2{p.CR}, b.Vote.C3, p.PiV)},
	}
	checks = append(checks, v.messageChecks(b.Vote.C1, b.Vote.C2, p.CR, p.C2m, p.C2mSquare, p.PiR, p.PiM, p.PiBits)...)
	return v.run(checks)
}

// VerifyPlus returns true if every equation of the ballot holds.
func (v *Verifier) VerifyPlus(vk *VerificationKey, b *Ballot) bool {
	return v.CheckPlus(vk, b) == nil
}

// CheckPublic verifies the equations of a public ballot that do not involve
// the key of the voter.
func (v *Verifier) CheckPublic(pb *PublicBallot) error {
	if pb == nil {
		return fmt.Errorf("%w: missing ballot", ErrInvalidBallot)
	}
	if err := v.checkShape(pb.C2m, pb.C2mSquare, pb.PiBits); err != nil {
		return err
	}
	checks := []check{
		v.sigma1Check(pb.C1, pb.Sigma1, pb.Sigma4),
		v.sigma3Check(pb.Sigma3, pb.Sigma4),
	}
	checks = append(checks, v.messageChecks(pb.C1, pb.C2, pb.CR, pb.C2m, pb.C2mSquare, pb.PiR, pb.PiM, pb.PiBits)...)
	return v.run(checks)
}

// PublicCheckNames lists the equations verified by CheckPublic for a ballot
// of the election. The sigma2 equation and the proofs dropped by Publish
// are not among them.
func (v *Verifier) PublicCheckNames() []string {
	names := []string{checkSigma1, checkSigma3, checkPiR, checkPiM}
	for i := range v.pk.K {
		names = append(names, piBitCheck(i))
	}
	return names
}

// VerifyPublic returns true if CheckPublic succeeds. It is a reduced check:
// a ballot passing it is not necessarily accepted by VerifyPlus.
func (v *Verifier) VerifyPublic(pb *PublicBallot) bool {
	return v.CheckPublic(pb) == nil
}

// CheckPublicFor runs CheckPublic and also verifies the signature equation
// binding sigma2 to the key of the voter.
func (v *Verifier) CheckPublicFor(vk *VerificationKey, pb *PublicBallot) error {
	if err := v.CheckPublic(pb); err != nil {
		return err
	}
	if vk == nil {
		return fmt.Errorf("%w: missing verification key", ErrInvalidBallot)
	}
	return v.run([]check{v.sigma2Check(vk, pb.C2, pb.Sigma2, pb.Sigma4)})
}

// VerifyPublicFor returns true if CheckPublicFor succeeds.
func (v *Verifier) VerifyPublicFor(vk *VerificationKey, pb *PublicBallot) bool {
	return v.CheckPublicFor(vk, pb) == nil
}

