// Package relay provides the untrusted relay of an election: it takes the
// ballots submitted by the voters, checks them, randomizes them so they
// cannot be linked to their voter and publishes them on the bulletin board.
package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vocdoni/beleniosrf/beleniosrf"
	"github.com/vocdoni/beleniosrf/log"
	"github.com/vocdoni/beleniosrf/storage"
	"github.com/vocdoni/beleniosrf/types"
)

var (
	// ErrUnknownVoter is returned for ballots of voters that are not in the
	// registry of the election.
	ErrUnknownVoter = errors.New("unknown voter")
	// ErrUnknownElection is returned for ballots of elections that are not
	// stored.
	ErrUnknownElection = errors.New("unknown election")
)

// election caches the verifier and randomizer of an election.
type election struct {
	pk         *beleniosrf.ElectionPublicKey
	verifier   *beleniosrf.Verifier
	randomizer *beleniosrf.Randomizer
}

// Relay is a worker that takes pending ballots from the storage queue,
// verifies them, randomizes them and publishes them.
type Relay struct {
	stg    *storage.Storage
	src    beleniosrf.Randomness
	ctx    context.Context
	cancel context.CancelFunc

	elections     map[types.ElectionID]*election
	electionsLock sync.RWMutex

	// tickInterval is the time to wait for new ballots when the queue is
	// empty.
	tickInterval time.Duration
	// rounds is the number of randomizations applied to every ballot.
	rounds int
}

// New creates a new Relay. Every ballot is randomized rounds times before
// being published.
func New(stg *storage.Storage, src beleniosrf.Randomness, tickInterval time.Duration, rounds int) (*Relay, error) {
	if stg == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if src == nil {
		return nil, fmt.Errorf("randomness source cannot be nil")
	}
	if tickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive")
	}
	if rounds < 1 {
		return nil, fmt.Errorf("at least one randomization round is required")
	}
	log.Debugw("relay initialized", "tickInterval", tickInterval, "rounds", rounds)
	return &Relay{
		stg:          stg,
		src:          src,
		elections:    make(map[types.ElectionID]*election),
		tickInterval: tickInterval,
		rounds:       rounds,
	}, nil
}

// Start begins the ballot processing routine. It runs until ctx is
// canceled or Stop is called.
func (r *Relay) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.startBallotProcessor()
	log.Infow("relay started successfully")
	return nil
}

// Stop shuts down the relay. It's safe to call Stop multiple times.
func (r *Relay) Stop() error {
	if r.cancel != nil {
		r.cancel()
		log.Infow("relay stopped")
	}
	return nil
}

// election returns the cached context of the election, loading it from the
// storage the first time.
func (r *Relay) election(eid types.ElectionID) (*election, error) {
	r.electionsLock.RLock()
	e, ok := r.elections[eid]
	r.electionsLock.RUnlock()
	if ok {
		return e, nil
	}

	stored, err := r.stg.Election(eid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownElection, eid)
		}
		return nil, err
	}
	v, err := beleniosrf.NewVerifier(stored.PublicKey)
	if err != nil {
		return nil, err
	}
	rz, err := beleniosrf.NewRandomizer(stored.PublicKey, r.src)
	if err != nil {
		return nil, err
	}
	e = &election{pk: stored.PublicKey, verifier: v, randomizer: rz}

	r.electionsLock.Lock()
	defer r.electionsLock.Unlock()
	if cached, ok := r.elections[eid]; ok {
		return cached, nil
	}
	r.elections[eid] = e
	return e, nil
}

// voter returns the verification key of a registered voter.
func (r *Relay) voter(eid types.ElectionID, voterID types.HexBytes) (*beleniosrf.VerificationKey, error) {
	vk, err := r.stg.Voter(eid, voterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVoter, voterID)
		}
		return nil, err
	}
	return vk, nil
}

// SubmitBallot queues the ballot of a registered voter. Only the shape of
// the ballot is checked here; the proofs are verified by the processor.
// Each voter gets one ballot on the board: once published, further ballots
// of the voter return storage.ErrAlreadyVoted, and a ballot already queued
// returns storage.ErrAlreadyExists.
func (r *Relay) SubmitBallot(eid types.ElectionID, voterID types.HexBytes, b *beleniosrf.Ballot) ([]byte, error) {
	e, err := r.election(eid)
	if err != nil {
		return nil, err
	}
	if _, err := r.voter(eid, voterID); err != nil {
		return nil, err
	}
	if b == nil || len(b.Proofs.C2m) != e.pk.K || len(b.Proofs.C2mSquare) != e.pk.K || len(b.Proofs.PiBits) != e.pk.K {
		return nil, fmt.Errorf("%w: malformed ballot", beleniosrf.ErrInvalidBallot)
	}
	return r.stg.PushBallot(&storage.PendingBallot{
		ElectionID: eid,
		VoterID:    voterID,
		Ballot:     b,
		ReceivedAt: time.Now().Unix(),
	})
}
