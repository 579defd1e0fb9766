package api

import (
	"errors"
	"net/http"

	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/storage"
	"github.com/vocdoni/beleniosrf/types"
)

// elections lists the stored elections
// GET /elections
func (a *API) elections(w http.ResponseWriter, r *http.Request) {
	ids, err := a.storage.ListElections()
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	if ids == nil {
		ids = []types.ElectionID{}
	}
	httpWriteJSON(w, &ElectionsResponse{Elections: ids})
}

// election returns the public parameters of an election
// GET /elections/{electionId}
func (a *API) election(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromURL(w, r)
	if !ok {
		return
	}
	registryRoot, voters, err := a.storage.RegistryRoot(e.ID)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	boardRoot, ballots, err := a.storage.BoardRoot(e.ID)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &ElectionResponse{
		ID:           e.ID,
		Title:        e.Title,
		PublicKey:    e.PublicKey,
		CreatedAt:    e.CreatedAt,
		RegistryRoot: registryRoot,
		Voters:       voters,
		BoardRoot:    boardRoot,
		Ballots:      ballots,
	})
}

// voter returns the verification key of a registered voter
// GET /elections/{electionId}/voters/{voterId}
func (a *API) voter(w http.ResponseWriter, r *http.Request) {
	e, ok := a.electionFromURL(w, r)
	if !ok {
		return
	}
	voterID, ok := hexParam(r, VoterURLParam, types.RegistryKeyLen)
	if !ok {
		ErrMalformedVoterID.Write(w)
		return
	}
	vk, err := a.storage.Voter(e.ID, voterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			ErrVoterNotFound.With(voterID.String()).Write(w)
			return
		}
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	proof, err := a.storage.VoterProof(e.ID, voterID)
	if err != nil {
		ErrGenericInternalServerError.WithErr(err).Write(w)
		return
	}
	log.Debugw("voter served", "election", e.ID.String(), "voter", voterID.String())
	httpWriteJSON(w, &VoterResponse{ID: voterID, VerificationKey: vk, Proof: proof})
}

// publicVerifier returns a verifier for the election.
func publicVerifier(e *storage.Election) (*beleniosrf.Verifier, error) {
	return beleniosrf.NewVerifier(e.PublicKey)
}
