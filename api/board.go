package api

import (
	"errors"
	"net/http"

	"github.com/vocdoni/beleniosrf/storage"
	"github.com/vocdoni/beleniosrf/types"
)

// ballots lists the published ballots of an election
// GET /elections/{electionId}/ballots
func (a *API) ballots(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromURL(w, r)
	if !ok {
		return
	}
	published, err := a.storage.PublishedBallots(e.ID)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if published == nil {
		published = []*storage.PublishedBallot{}
	}
	httpWriteJSON(w, &BallotsResponse{Ballots: published})
}

// board returns the root of the bulletin board of an election
// GET /elections/{electionId}/board
func (a *API) board(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromURL(w, r)
	if !ok {
		return
	}
	root, size, err := a.storage.BoardRoot(e.ID)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &BoardResponse{Root: root, Size: size})
}

// ballotProof returns a published ballot with its proof of inclusion in
// the bulletin board, verifying the ballot again
// GET /elections/{electionId}/ballots/{ballotId}/proof
func (a *API) ballotProof(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromURL(w, r)
	if !ok {
		return
	}
	id, ok := hexParam(r, BallotURLParam, types.BoardKeyLen)
	if !ok {
		ErrMalformedBallotID.Write(w)
		return
	}
	pb, err := a.storage.PublishedBallot(e.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrBallotNotFound.With(id.String()).Write(w)
			return
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	proof, err := a.storage.BoardProof(e.ID, id)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	v, err := publicVerifier(e)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &BallotProofResponse{
		Ballot: pb,
		Proof:  proof,
		Valid:  v.VerifyPublic(pb.Ballot),
		Checks: v.PublicCheckNames(),
	})
}
