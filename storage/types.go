package storage

import (
	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/types"
)

// Election is the public record of an election.
type Election struct {
	ID        types.ElectionID              `json:"id" cbor:"0,keyasint"`
	Title     string                        `json:"title" cbor:"1,keyasint"`
	PublicKey *beleniosrf.ElectionPublicKey `json:"publicKey" cbor:"2,keyasint"`
	// CreatedAt is a unix timestamp.
	CreatedAt int64 `json:"createdAt" cbor:"3,keyasint"`
}

// PendingBallot is a ballot received by the relay and waiting to be
// verified, randomized and published.
type PendingBallot struct {
	ElectionID types.ElectionID   `json:"electionId" cbor:"0,keyasint"`
	VoterID    types.HexBytes     `json:"voterId" cbor:"1,keyasint"`
	Ballot     *beleniosrf.Ballot `json:"ballot" cbor:"2,keyasint"`
	ReceivedAt int64              `json:"receivedAt" cbor:"3,keyasint"`
}

// PublishedBallot is a ballot released on the bulletin board.
type PublishedBallot struct {
	ElectionID  types.ElectionID         `json:"electionId" cbor:"0,keyasint"`
	ID          types.HexBytes           `json:"id" cbor:"1,keyasint"`
	Ballot      *beleniosrf.PublicBallot `json:"ballot" cbor:"2,keyasint"`
	PublishedAt int64                    `json:"publishedAt" cbor:"3,keyasint"`
}
