package storage

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// SetElection stores a new election and creates its voter registry and
// bulletin board trees. It returns ErrAlreadyExists if the id is taken.
func (s *Storage) SetElection(e *Election) error {
	if e == nil || e.PublicKey == nil {
		return fmt.Errorf("missing election public key")
	}
	if err := e.PublicKey.Validate(); err != nil {
		return fmt.Errorf("invalid election public key: %w", err)
	}
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	if s.isReserved(electionPrefix, e.ID.Bytes()) {
		return fmt.Errorf("%w: election %s", ErrAlreadyExists, e.ID)
	}
	if _, err := s.registry.New(uuid.UUID(e.ID)); err != nil {
		return fmt.Errorf("create voter registry: %w", err)
	}
	if _, err := s.board.New(uuid.UUID(e.ID)); err != nil {
		return fmt.Errorf("create bulletin board: %w", err)
	}
	return s.setArtifact(electionPrefix, e.ID.Bytes(), e)
}

// Election retrieves the election. It returns ErrNotFound if it does not
// exist.
func (s *Storage) Election(eid types.ElectionID) (*Election, error) {
	e := &Election{}
	if err := s.getArtifact(electionPrefix, eid.Bytes(), e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListElections returns the ids of every stored election.
func (s *Storage) ListElections() ([]types.ElectionID, error) {
	var ids []types.ElectionID
	pr := prefixeddb.NewPrefixedReader(s.db, electionPrefix)
	if err := pr.Iterate(nil, func(k, _ []byte) bool {
		var id types.ElectionID
		if len(k) == len(id) {
			copy(id[:], k)
			ids = append(ids, id)
		}
		return true
	}); err != nil {
		return nil, fmt.Errorf("iterate elections: %w", err)
	}
	return ids, nil
}

// SetElectionSecret stores the decryption key of the election. It is kept
// apart from the public record and never served.
func (s *Storage) SetElectionSecret(eid types.ElectionID, sk *beleniosrf.ElectionSecretKey) error {
	return s.setArtifact(electionSecretPrefix, eid.Bytes(), sk)
}

// ElectionSecret retrieves the decryption key of the election.
func (s *Storage) ElectionSecret(eid types.ElectionID) (*beleniosrf.ElectionSecretKey, error) {
	sk := &beleniosrf.ElectionSecretKey{}
	if err := s.getArtifact(electionSecretPrefix, eid.Bytes(), sk); err != nil {
		return nil, err
	}
	return sk, nil
}
