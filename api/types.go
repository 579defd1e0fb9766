package api

import (
	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/storage"
	"github.com/vocdoni/beleniosrf/types"
)

// ElectionsResponse lists the ids of the elections.
type ElectionsResponse struct {
	Elections []types.ElectionID `json:"elections"`
}

// ElectionResponse holds the public record of an election along with the
// state of its voter registry and bulletin board.
type ElectionResponse struct {
	ID           types.ElectionID              `json:"id"`
	Title        string                        `json:"title"`
	PublicKey    *beleniosrf.ElectionPublicKey `json:"publicKey"`
	CreatedAt    int64                         `json:"createdAt"`
	RegistryRoot types.HexBytes                `json:"registryRoot"`
	Voters       int                           `json:"voters"`
	BoardRoot    types.HexBytes                `json:"boardRoot"`
	Ballots      int                           `json:"ballots"`
}

// BallotsResponse lists the published ballots of an election.
type BallotsResponse struct {
	Ballots []*storage.PublishedBallot `json:"ballots"`
}

// BoardResponse is the root of a bulletin board and its size.
type BoardResponse struct {
	Root types.HexBytes `json:"root"`
	Size int            `json:"size"`
}

// BallotProofResponse is a published ballot, its proof of inclusion in the
// bulletin board and the result of its public verification.
type BallotProofResponse struct {
	Ballot *storage.PublishedBallot `json:"ballot"`
	Proof  *types.MerkleProof       `json:"proof"`
	// Valid is the result of the reduced public check, which only covers
	// the equations listed in Checks. The sigma2 equation needs the key of
	// the voter and the relay verifies it, with the full ballot, before
	// publishing.
	Valid  bool                     `json:"valid"`
	Checks []string                 `json:"checks"`
}

// VoterResponse is the verification key of a voter with its proof of
// inclusion in the registry.
type VoterResponse struct {
	ID              types.HexBytes              `json:"id"`
	VerificationKey *beleniosrf.VerificationKey `json:"verificationKey"`
	Proof           *types.MerkleProof          `json:"proof"`
}
