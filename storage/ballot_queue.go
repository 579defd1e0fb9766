package storage

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// PushBallot stores a new ballot into the pending ballots queue. Its key is
// the election id followed by the truncated hash of the encoded ballot, so
// pushing the same ballot twice returns ErrAlreadyExists while it is queued.
// Ballots of voters already on the board return ErrAlreadyVoted.
func (s *Storage) PushBallot(b *PendingBallot) ([]byte, error) {
	if b == nil || b.Ballot == nil {
		return nil, fmt.Errorf("missing ballot")
	}
	encBallot, err := encodeArtifact(b.Ballot)
	if err != nil {
		return nil, fmt.Errorf("encode ballot: %w", err)
	}
	val, err := encodeArtifact(b)
	if err != nil {
		return nil, fmt.Errorf("encode pending ballot: %w", err)
	}
	key := append(b.ElectionID.Bytes(), hashKey(encBallot)...)

	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	if s.hasVoted(b) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyVoted, b.VoterID)
	}
	if s.isReserved(ballotPrefix, key) {
		return nil, fmt.Errorf("%w: ballot %x", ErrAlreadyExists, key)
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), ballotPrefix)
	if err := wTx.Set(key, val); err != nil {
		wTx.Discard()
		return nil, err
	}
	if err := wTx.Commit(); err != nil {
		return nil, err
	}
	return key, nil
}

func votedKey(b *PendingBallot) []byte {
	return append(b.ElectionID.Bytes(), b.VoterID...)
}

// hasVoted reports whether the voter of b has a ballot on the board. The
// caller holds globalLock.
func (s *Storage) hasVoted(b *PendingBallot) bool {
	return s.isReserved(votedPrefix, votedKey(b))
}

// HasVoted reports whether the voter has a ballot on the bulletin board of
// the election.
func (s *Storage) HasVoted(eid types.ElectionID, voterID types.HexBytes) bool {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	return s.hasVoted(&PendingBallot{ElectionID: eid, VoterID: voterID})
}

// NextBallot returns the next non-reserved ballot, creates a reservation,
// and returns it along with its key. If no ballots are available, returns
// ErrNoMoreElements. The key is used to mark the ballot as done after
// processing.
func (s *Storage) NextBallot() (*PendingBallot, []byte, error) {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	pr := prefixeddb.NewPrefixedReader(s.db, ballotPrefix)
	var chosenKey, chosenVal []byte
	if err := pr.Iterate(nil, func(k, v []byte) bool {
		if s.isReserved(ballotReservationPrefix, k) {
			return true
		}
		chosenKey = append([]byte(nil), k...)
		chosenVal = append([]byte(nil), v...)
		return false
	}); err != nil {
		return nil, nil, fmt.Errorf("iterate ballots: %w", err)
	}
	if chosenVal == nil {
		return nil, nil, ErrNoMoreElements
	}

	var b PendingBallot
	if err := decodeArtifact(chosenVal, &b); err != nil {
		// an undecodable ballot would block the queue forever
		log.Warnw("dropping undecodable pending ballot", "key", hex.EncodeToString(chosenKey), "error", err.Error())
		if err := s.deleteArtifact(ballotPrefix, chosenKey); err != nil {
			log.Warnw("could not drop pending ballot", "key", hex.EncodeToString(chosenKey), "error", err.Error())
		}
		return nil, nil, fmt.Errorf("decode ballot: %w", err)
	}

	if err := s.setReservation(ballotReservationPrefix, chosenKey); err != nil {
		return nil, nil, ErrNoMoreElements
	}
	return &b, chosenKey, nil
}

// ReleaseBallot removes the reservation of a pending ballot so it is
// returned again by NextBallot.
func (s *Storage) ReleaseBallot(k []byte) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()
	if err := s.deleteArtifact(ballotReservationPrefix, k); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}

// MarkBallotDone is called after the ballot has been processed. It removes
// the ballot from the pending queue and, if pb is not nil, publishes it on
// the bulletin board of its election and records its voter as done. A nil
// pb discards the ballot. Publishing for a voter already on the board
// returns ErrAlreadyVoted and leaves the queue untouched.
func (s *Storage) MarkBallotDone(k []byte, pb *PublishedBallot) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	if pb != nil {
		pending := &PendingBallot{}
		if err := s.getArtifact(ballotPrefix, k, pending); err != nil {
			return fmt.Errorf("load pending ballot: %w", err)
		}
		if s.hasVoted(pending) {
			return fmt.Errorf("%w: %s", ErrAlreadyVoted, pending.VoterID)
		}
		if err := s.publish(pb); err != nil {
			return err
		}
		if err := s.setArtifact(votedPrefix, votedKey(pending), pb.PublishedAt); err != nil {
			return fmt.Errorf("record voter: %w", err)
		}
	}
	if err := s.deleteArtifact(ballotReservationPrefix, k); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if err := s.deleteArtifact(ballotPrefix, k); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete pending ballot: %w", err)
	}
	return nil
}

// CountPendingBallots returns the number of ballots in the queue, reserved
// or not.
func (s *Storage) CountPendingBallots() int {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	count := 0
	if err := prefixeddb.NewPrefixedReader(s.db, ballotPrefix).Iterate(nil, func(_, _ []byte) bool {
		count++
		return true
	}); err != nil {
		log.Warnw("failed to count pending ballots", "error", err.Error())
	}
	return count
}
