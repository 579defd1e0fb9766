package storage

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/storage/merkle"
	"github.com/vocdoni/beleniosrf/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// boardTree loads the bulletin board of the election.
func (s *Storage) boardTree(eid types.ElectionID) (*merkle.TreeRef, error) {
	ref, err := s.board.Load(uuid.UUID(eid))
	if errors.Is(err, merkle.ErrTreeNotFound) {
		return nil, fmt.Errorf("%w: bulletin board of %s", ErrNotFound, eid)
	}
	return ref, err
}

// publish stores the published ballot and adds it to the bulletin board.
// The board leaf is the ballot id and its value the sha256 of the public
// ballot encoding. If the board insertion fails the stored ballot is
// removed. The caller holds globalLock.
func (s *Storage) publish(pb *PublishedBallot) error {
	if pb.Ballot == nil {
		return fmt.Errorf("missing public ballot")
	}
	if len(pb.ID) == 0 {
		pb.ID = pb.Ballot.ID()
	}
	ref, err := s.boardTree(pb.ElectionID)
	if err != nil {
		return err
	}
	if _, err := ref.Get(pb.ID); err == nil {
		return fmt.Errorf("%w: published ballot %s", ErrAlreadyExists, pb.ID)
	}
	// the artifact goes first so a board leaf always has its ballot
	key := append(pb.ElectionID.Bytes(), pb.ID...)
	if err := s.setArtifact(publishedBallotPrefix, key, pb); err != nil {
		return fmt.Errorf("store published ballot: %w", err)
	}
	digest := sha256.Sum256(pb.Ballot.Bytes())
	if err := ref.Insert(pb.ID, digest[:]); err != nil {
		if derr := s.deleteArtifact(publishedBallotPrefix, key); derr != nil {
			log.Warnw("could not remove unboarded ballot", "id", pb.ID.String(), "error", derr.Error())
		}
		return fmt.Errorf("insert ballot in board: %w", err)
	}
	log.Debugw("ballot published", "election", pb.ElectionID.String(), "id", pb.ID.String())
	return nil
}

// PublishedBallot returns the published ballot with the given id.
func (s *Storage) PublishedBallot(eid types.ElectionID, id types.HexBytes) (*PublishedBallot, error) {
	pb := &PublishedBallot{}
	if err := s.getArtifact(publishedBallotPrefix, append(eid.Bytes(), id...), pb); err != nil {
		return nil, err
	}
	return pb, nil
}

// PublishedBallots returns every ballot on the bulletin board of the
// election.
func (s *Storage) PublishedBallots(eid types.ElectionID) ([]*PublishedBallot, error) {
	var res []*PublishedBallot
	var decodeErr error
	pr := prefixeddb.NewPrefixedReader(s.db, publishedBallotPrefix)
	if err := pr.Iterate(eid.Bytes(), func(_, v []byte) bool {
		pb := &PublishedBallot{}
		if err := decodeArtifact(v, pb); err != nil {
			decodeErr = fmt.Errorf("decode published ballot: %w", err)
			return false
		}
		res = append(res, pb)
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate published ballots: %w", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return res, nil
}

// BoardRoot returns the root of the bulletin board and its number of
// ballots.
func (s *Storage) BoardRoot(eid types.ElectionID) (types.HexBytes, int, error) {
	ref, err := s.boardTree(eid)
	if err != nil {
		return nil, 0, err
	}
	return ref.Root(), ref.Size(), nil
}

// BoardProof returns the proof of inclusion of the ballot in the bulletin
// board.
func (s *Storage) BoardProof(eid types.ElectionID, id types.HexBytes) (*types.MerkleProof, error) {
	ref, err := s.boardTree(eid)
	if err != nil {
		return nil, err
	}
	proof, err := ref.GenProof(id)
	if errors.Is(err, merkle.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return proof, err
}
