package beleniosrf

import "slices"

// Publish returns the public form of the ballot: the ciphertext, the
// commitments and proofs on the message and the first four signature
// components. The values bound to the voter key (C3, T, pi_T, pi_V) and
// sigma5 are left out.
func Publish(b *Ballot) *PublicBallot {
	return &PublicBallot{
		C1:        b.Vote.C1,
		C2:        b.Vote.C2,
		CR:        b.Proofs.CR,
		C2m:       slices.Clone(b.Proofs.C2m),
		C2mSquare: slices.Clone(b.Proofs.C2mSquare),
		PiR:       b.Proofs.PiR,
		PiM:       b.Proofs.PiM,
		PiBits:    slices.Clone(b.Proofs.PiBits),
		Sigma1:    b.Signature.Sigma1,
		Sigma2:    b.Signature.Sigma2,
		Sigma3:    b.Signature.Sigma3,
		Sigma4:    b.Signature.Sigma4,
	}
}
