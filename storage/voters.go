package storage

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/storage/merkle"
	"github.com/vocdoni/beleniosrf/types"
)

// registryTree loads the voter registry of the election.
func (s *Storage) registryTree(eid types.ElectionID) (*merkle.TreeRef, error) {
	ref, err := s.registry.Load(uuid.UUID(eid))
	if errors.Is(err, merkle.ErrTreeNotFound) {
		return nil, fmt.Errorf("%w: voter registry of %s", ErrNotFound, eid)
	}
	return ref, err
}

// RegisterVoter adds the verification key to the voter registry of the
// election and returns the voter id, the leaf key of the registry.
func (s *Storage) RegisterVoter(eid types.ElectionID, vk *beleniosrf.VerificationKey) (types.HexBytes, error) {
	e, err := s.Election(eid)
	if err != nil {
		return nil, err
	}
	if err := vk.Validate(e.PublicKey); err != nil {
		return nil, fmt.Errorf("invalid verification key: %w", err)
	}
	ref, err := s.registryTree(eid)
	if err != nil {
		return nil, err
	}
	id := vk.ID(e.PublicKey)
	if _, err := ref.Get(id); err == nil {
		return nil, fmt.Errorf("%w: voter %s", ErrAlreadyExists, id)
	}
	if err := ref.Insert(id, vk.Bytes()); err != nil {
		return nil, fmt.Errorf("insert voter: %w", err)
	}
	return id, nil
}

// Voter returns the verification key of a registered voter.
func (s *Storage) Voter(eid types.ElectionID, voterID types.HexBytes) (*beleniosrf.VerificationKey, error) {
	ref, err := s.registryTree(eid)
	if err != nil {
		return nil, err
	}
	value, err := ref.Get(voterID)
	if err != nil {
		return nil, ErrNotFound
	}
	vk := &beleniosrf.VerificationKey{}
	if err := vk.SetBytes(value); err != nil {
		return nil, fmt.Errorf("decode verification key: %w", err)
	}
	return vk, nil
}

// VoterProof returns the proof of inclusion of the voter in the registry.
func (s *Storage) VoterProof(eid types.ElectionID, voterID types.HexBytes) (*types.MerkleProof, error) {
	ref, err := s.registryTree(eid)
	if err != nil {
		return nil, err
	}
	proof, err := ref.GenProof(voterID)
	if errors.Is(err, merkle.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return proof, err
}

// RegistryRoot returns the root of the voter registry and its number of
// voters.
func (s *Storage) RegistryRoot(eid types.ElectionID) (types.HexBytes, int, error) {
	ref, err := s.registryTree(eid)
	if err != nil {
		return nil, 0, err
	}
	return ref.Root(), ref.Size(), nil
}
